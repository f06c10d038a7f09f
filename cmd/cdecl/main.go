package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	cdecl "github.com/paul-j-lucas/cdecl-sub002"
)

type args struct {
	dialect      *string
	eastConst    *bool
	noSemicolons *bool
	alignasStyle *string

	inputPath   *string
	interactive *bool
	command     *string
}

func readArgs() *args {
	a := &args{
		dialect:      flag.String("dialect", "c17", "Language dialect to parse/check/render against (e.g. c11, c++20, knr)"),
		eastConst:    flag.Bool("east-const", false, "Render const after the type it qualifies in native output"),
		noSemicolons: flag.Bool("no-semicolons", false, "Omit the trailing semicolon from native output"),
		alignasStyle: flag.String("alignas-style", "keyword", "Spell alignas as 'keyword' or '_Alignas'"),

		inputPath:   flag.String("input", "", "Path to a file of commands to run non-interactively"),
		interactive: flag.Bool("interactive", false, "Drops into a shell reading commands from stdin"),
		command:     flag.String("c", "", "Run a single command and exit"),
	}
	flag.Parse()
	return a
}

func buildConfig(a *args) *cdecl.Config {
	cfg := cdecl.NewConfig()
	if err := cfg.SetDialect(*a.dialect); err != nil {
		log.Fatal(err)
	}
	cfg.SetBool("render.east_const", *a.eastConst)
	cfg.SetBool("render.trailing_semicolon", !*a.noSemicolons)
	cfg.SetString("render.alignas_style", *a.alignasStyle)
	return cfg
}

func main() {
	a := readArgs()
	cfg := buildConfig(a)
	reg := cdecl.NewRegistry()

	switch {
	case *a.command != "":
		runBatch(*a.command, cfg, reg)
	case *a.inputPath != "":
		text, err := os.ReadFile(*a.inputPath)
		if err != nil {
			log.Fatalf("can't open input file: %s", err.Error())
		}
		runBatch(string(text), cfg, reg)
	case *a.interactive:
		runInteractive(cfg, reg)
	default:
		runInteractive(cfg, reg)
	}
}

func runBatch(src string, cfg *cdecl.Config, reg *cdecl.Registry) {
	results, _ := cdecl.Parse(src, cfg, reg)
	for _, r := range results {
		emit(r, cfg)
	}
}

func runInteractive(cfg *cdecl.Config, reg *cdecl.Registry) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("cdecl> ")
		text, err := reader.ReadString('\n')
		if text == "" || err != nil {
			fmt.Println("")
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		results, _ := cdecl.Parse(text, cfg, reg)
		for _, r := range results {
			emit(r, cfg)
		}
	}
}

func emit(r cdecl.CommandResult, cfg *cdecl.Config) {
	for _, d := range r.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
	if r.Root == cdecl.NilNode || r.Arena == nil {
		return
	}
	fmt.Println(cdecl.Render(r.Arena, r.Root, cdecl.TargetNative, cfg))
}
