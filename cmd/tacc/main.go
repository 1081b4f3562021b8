// Command tacc drives the grammar-compile, lex, parse, and IR-lowering
// pipeline from the command line: either over a single source file, or
// interactively via "tacc repl".
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"

	"github.com/halvorsen/tacc/grammar"
	"github.com/halvorsen/tacc/ir"
	"github.com/halvorsen/tacc/lr"
	"github.com/halvorsen/tacc/parser"
	"github.com/halvorsen/tacc/token"
)

func tracer() tracing.Trace {
	return tracing.Select("tacc.cmd")
}

func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()

	grammarFile := flag.String("grammar", "testdata/grammar.txt", "path to the grammar file")
	cacheDir := flag.String("cache", "", "directory for cached LR tables (disabled if empty)")
	out := flag.String("o", "", "write the IR as JSON to this file instead of printing it")
	tlevel := flag.String("trace", "Info", "trace level [Debug|Info|Error]")
	flag.Parse()

	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	args := flag.Args()
	if len(args) > 0 && args[0] == "repl" {
		runREPL(*grammarFile, *cacheDir)
		return
	}
	if len(args) != 1 {
		pterm.Error.Println("usage: tacc [flags] <source-file>  |  tacc repl")
		os.Exit(2)
	}

	prog, err := compile(*grammarFile, args[0], *cacheDir)
	if err != nil {
		pterm.Error.Println(err.Error())
		os.Exit(1)
	}

	if *out != "" {
		if err := ir.WriteFile(*out, prog); err != nil {
			pterm.Error.Println(err.Error())
			os.Exit(1)
		}
		pterm.Info.Printf("wrote IR to %s\n", *out)
		return
	}
	pterm.Println(prog.String())
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " INFO ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// compile runs the full pipeline over one source file: load the grammar,
// build (or load cached) LR tables, lex and parse the source, and lower
// the resulting parse tree to IR.
func compile(grammarFile, sourceFile, cacheDir string) (*ir.Program, error) {
	raw, err := os.ReadFile(grammarFile)
	if err != nil {
		return nil, fmt.Errorf("reading grammar file: %w", err)
	}
	g, err := grammar.Load(string(raw))
	if err != nil {
		return nil, fmt.Errorf("loading grammar: %w", err)
	}

	var opts []lr.Option
	if cacheDir != "" {
		opts = append(opts, lr.CacheDir(cacheDir))
	}
	tables, conflicts, err := lr.Compile(grammarFile, opts...)
	if err != nil {
		return nil, fmt.Errorf("compiling grammar: %w", err)
	}
	for _, c := range conflicts {
		tracer().Errorf("table conflict at state %d, terminal %q: %s / %s",
			c.State, c.Terminal, c.Previous, c.New)
	}

	src, err := os.ReadFile(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("reading source file: %w", err)
	}
	return lower(g, tables, string(src))
}

// lower runs the lex/parse/IR stages shared by compile and the REPL.
func lower(g *grammar.Grammar, tables *lr.Tables, src string) (*ir.Program, error) {
	toks, err := token.Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lexing: %w", err)
	}
	tree, err := parser.Parse(g, tables, toks)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	symtab := ir.CollectSymbols(tree)
	return ir.NewBuilder(symtab).Build(tree), nil
}
