package main

import (
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/halvorsen/tacc/grammar"
	"github.com/halvorsen/tacc/lr"
)

// repl reads one program at a time from stdin (terminated by a blank
// line) and prints its lowered IR, reusing the grammar and LR tables
// across programs rather than reloading them on every line.
type repl struct {
	g      *grammar.Grammar
	tables *lr.Tables
	rl     *readline.Instance
}

// runREPL loads the grammar once and then loops, accepting whole
// programs one at a time until the user sends EOF (<ctrl-D>).
func runREPL(grammarFile, cacheDir string) {
	raw, err := os.ReadFile(grammarFile)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	g, err := grammar.Load(string(raw))
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}

	var opts []lr.Option
	if cacheDir != "" {
		opts = append(opts, lr.CacheDir(cacheDir))
	}
	tables, conflicts, err := lr.Compile(grammarFile, opts...)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	for _, c := range conflicts {
		tracer().Errorf("table conflict at state %d, terminal %q: %s / %s",
			c.State, c.Terminal, c.Previous, c.New)
	}

	rl, err := readline.New("tacc> ")
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	defer rl.Close()

	pterm.Info.Println("enter a program, blank line to compile it, <ctrl-D> to quit")
	(&repl{g: g, tables: tables, rl: rl}).loop()
}

func (r *repl) loop() {
	var lines []string
	for {
		line, err := r.rl.Readline()
		if err != nil { // io.EOF (<ctrl-D>) or readline.ErrInterrupt (<ctrl-C>)
			break
		}
		if strings.TrimSpace(line) == "" {
			if len(lines) == 0 {
				continue
			}
			r.compileAndPrint(strings.Join(lines, "\n"))
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	pterm.Info.Println("bye")
}

func (r *repl) compileAndPrint(src string) {
	prog, err := lower(r.g, r.tables, src)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	pterm.Println(prog.String())
}
