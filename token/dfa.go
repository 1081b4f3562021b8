package token

import (
	"fmt"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/halvorsen/tacc"
)

// DFALexer is a lexmachine-backed tokenizer for the "flat" token
// classes (identifiers, numbers, keywords, punctuation): an
// alternative backend to Lex for source with no comments or quoted
// literals, adapted from the teacher's lexmachine scanner adapter
// (lr/scanner/lexmach). Lex remains canonical for full source files;
// DFALexer exists to exercise lexmachine's DFA construction the way the
// rest of the domain stack exercises its own library.
type DFALexer struct {
	lexer *lexmachine.Lexer
}

// NewDFALexer compiles a DFA recognizing identifiers, decimal numbers,
// and the punctuation symbols in Punctuation. Keywords are not given
// their own patterns; the identifier action reclassifies a lexeme that
// happens to be a keyword, mirroring the original's "keyword before
// identifier" priority without needing overlapping DFA states.
func NewDFALexer() (*DFALexer, error) {
	lx := lexmachine.NewLexer()

	lx.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		text := string(m.Bytes)
		kind := Identifier
		if Keywords[text] {
			kind = keywordKind(text)
		}
		return tacc.Token{
			Kind:    kind,
			Content: text,
			Span:    tacc.Span{From: m.StartColumn, To: m.EndColumn},
		}, nil
	})
	lx.Add([]byte(`[0-9]+`), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return tacc.Token{Kind: Number, Content: string(m.Bytes), Span: tacc.Span{From: m.StartColumn, To: m.EndColumn}}, nil
	})
	for _, sym := range Punctuation {
		sym := sym
		lx.Add([]byte(escapeLiteral(sym)), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			return tacc.Token{Kind: tacc.Kind(sym), Content: sym, Span: tacc.Span{From: m.StartColumn, To: m.EndColumn}}, nil
		})
	}
	lx.Add([]byte(`( |\t|\n|\r)+`), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return nil, nil
	})

	if err := lx.Compile(); err != nil {
		return nil, fmt.Errorf("token: compiling lexmachine DFA: %w", err)
	}
	return &DFALexer{lexer: lx}, nil
}

// Tokenize runs the compiled DFA over source, returning every matched
// token followed by a tacc.EndOfInput token.
func (d *DFALexer) Tokenize(source string) ([]tacc.Token, error) {
	scanner, err := d.lexer.Scanner([]byte(source))
	if err != nil {
		return nil, fmt.Errorf("token: starting lexmachine scanner: %w", err)
	}
	var out []tacc.Token
	for {
		tok, err, eof := scanner.Next()
		if eof {
			break
		}
		if err != nil {
			if ui, ok := err.(*machines.UnconsumedInput); ok {
				return nil, &Error{Text: string(ui.Text), Message: "unrecognized chunk"}
			}
			return nil, err
		}
		if tok == nil {
			continue
		}
		out = append(out, tok.(tacc.Token))
	}
	out = append(out, tacc.Token{Kind: tacc.EndOfInput, Content: "$"})
	return out, nil
}

// escapeLiteral backslash-escapes every rune of a literal punctuation
// symbol so it can be used as a lexmachine regex, mirroring the
// teacher's own literal-escaping idiom.
func escapeLiteral(lit string) string {
	escaped := make([]byte, 0, len(lit)*2)
	for i := 0; i < len(lit); i++ {
		escaped = append(escaped, '\\', lit[i])
	}
	return string(escaped)
}
