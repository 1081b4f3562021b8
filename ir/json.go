package ir

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Flatten renders a Program as the single JSON-array-of-arrays shape
// of spec.md §6: a function header `[".<name>", "<args>", <locals>]`
// followed by its blocks' instructions, each already headed by its own
// `["label", L]` entry.
func (p *Program) Flatten() [][]interface{} {
	var out [][]interface{}
	for _, name := range p.Order {
		fn := p.Functions[name]
		out = append(out, []interface{}{"." + name, fn.Arguments, fn.Locals})
		for _, blk := range fn.Blocks {
			for _, instr := range blk.Instructions {
				row := make([]interface{}, len(instr))
				for i, s := range instr {
					row[i] = s
				}
				out = append(out, row)
			}
		}
	}
	return out
}

// WriteFile dumps a Program to name as the §6 IR file.
func WriteFile(name string, p *Program) error {
	data, err := json.Marshal(p.Flatten())
	if err != nil {
		return fmt.Errorf("ir: marshal: %w", err)
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("ir: write %s: %w", name, err)
	}
	return nil
}

// ReadFile re-materializes a Program from a §6 IR file (spec.md §4.5
// "Deserialization of IR"): entries beginning "." start a function,
// "label" entries start a basic block, anything else appends to the
// block currently being built.
func ReadFile(name string) (*Program, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("ir: read %s: %w", name, err)
	}
	var entries [][]interface{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ir: unmarshal %s: %w", name, err)
	}

	p := &Program{Functions: map[string]*Function{}}
	var current *Function
	var block *BasicBlock

	for _, e := range entries {
		if len(e) == 0 {
			continue
		}
		head, _ := e[0].(string)
		switch {
		case strings.HasPrefix(head, "."):
			name := strings.TrimPrefix(head, ".")
			args, _ := e[1].(string)
			locals, _ := e[2].(float64)
			current = &Function{Name: name, Arguments: args, Locals: int(locals)}
			p.Functions[name] = current
			p.Order = append(p.Order, name)
			block = nil
		case head == "label":
			label, _ := e[1].(string)
			block = &BasicBlock{Label: label, Instructions: []Instruction{{"label", label}}}
			current.Blocks = append(current.Blocks, block)
		default:
			instr := make(Instruction, len(e))
			for i, v := range e {
				instr[i], _ = v.(string)
			}
			block.Instructions = append(block.Instructions, instr)
		}
	}
	return p, nil
}

// String renders the IR in the teacher's "one line per instruction"
// debug form, grouped by function and block.
func (p *Program) String() string {
	var sb strings.Builder
	for _, name := range p.Order {
		fn := p.Functions[name]
		fmt.Fprintf(&sb, ".%s (%s)\n", fn.Name, fn.Arguments)
		for _, blk := range fn.Blocks {
			for _, instr := range blk.Instructions {
				fmt.Fprintln(&sb, strings.Join(instr, " "))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
