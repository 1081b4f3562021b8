package token

import (
	"strings"
	"unicode"

	"github.com/halvorsen/tacc"
)

// Lex tokenizes source line by line, handling quoted string and
// character literals, "//" line comments and "/* */" comments that span
// lines. Include lines get no special handling: they are lexed like any
// other line. It returns the full token stream terminated by a single
// Token of kind tacc.EndOfInput, or the first LexError encountered.
func Lex(source string) ([]tacc.Token, error) {
	var out []tacc.Token
	inComment := false
	offset := 0

	for lineNum, line := range strings.Split(source, "\n") {
		lineStart := offset
		toks, stillInComment, err := lexLine(line, inComment)
		if err != nil {
			if le, ok := err.(*Error); ok {
				le.Line = lineNum + 1
			}
			return nil, err
		}
		inComment = stillInComment
		for i := range toks {
			toks[i].Span.From += lineStart
			toks[i].Span.To += lineStart
		}
		out = append(out, toks...)
		offset += len(line) + 1
	}

	out = append(out, tacc.Token{Kind: tacc.EndOfInput, Content: "$", Span: tacc.Span{From: offset, To: offset}})
	return out, nil
}

// lexLine tokenizes a single line, carrying whether a /* */ comment
// begun on an earlier line is still open.
func lexLine(line string, inComment bool) ([]tacc.Token, bool, error) {
	var toks []tacc.Token
	start := 0

	flush := func(end int) error {
		if start == end {
			return nil
		}
		tok, err := classify(line[start:end])
		if err != nil {
			return err
		}
		tok.Span = tacc.Span{From: start, To: end}
		toks = append(toks, tok)
		return nil
	}

	i := 0
	for i < len(line) {
		if inComment {
			if strings.HasPrefix(line[i:], "*/") {
				inComment = false
				i += 2
				start = i
				continue
			}
			i++
			start = i
			continue
		}
		if strings.HasPrefix(line[i:], "//") {
			break
		}
		if strings.HasPrefix(line[i:], "/*") {
			if err := flush(i); err != nil {
				return nil, false, err
			}
			inComment = true
			i += 2
			start = i
			continue
		}
		if unicode.IsSpace(rune(line[i])) {
			if err := flush(i); err != nil {
				return nil, false, err
			}
			i++
			start = i
			continue
		}
		if line[i] == '"' || line[i] == '\'' {
			if err := flush(i); err != nil {
				return nil, false, err
			}
			tok, end, err := lexQuote(line, i)
			if err != nil {
				return nil, false, err
			}
			toks = append(toks, tok)
			i = end
			start = i
			continue
		}
		if sym := matchPunctuation(line[i:]); sym != "" {
			if err := flush(i); err != nil {
				return nil, false, err
			}
			toks = append(toks, tacc.Token{Kind: tacc.Kind(sym), Content: sym, Span: tacc.Span{From: i, To: i + len(sym)}})
			i += len(sym)
			start = i
			continue
		}
		i++
	}
	if err := flush(i); err != nil {
		return nil, false, err
	}
	return toks, inComment, nil
}

// matchPunctuation returns the longest punctuation symbol at the start
// of s, or "" if none matches.
func matchPunctuation(s string) string {
	for _, sym := range Punctuation {
		if strings.HasPrefix(s, sym) {
			return sym
		}
	}
	return ""
}

// lexQuote scans a quoted literal starting at the opening quote
// character line[start], returning the completed token and the index
// just past the closing quote.
func lexQuote(line string, start int) (tacc.Token, int, error) {
	quote := line[start]
	kind := String
	if quote == '\'' {
		kind = Character
	}
	end := strings.IndexByte(line[start+1:], quote)
	if end < 0 {
		return tacc.Token{}, 0, &Error{Text: line, Message: "unterminated quoted literal"}
	}
	end += start + 1
	content := line[start+1 : end]
	return tacc.Token{Kind: kind, Content: content, Span: tacc.Span{From: start, To: end + 1}}, end + 1, nil
}

// classify tags a non-punctuation, non-quoted chunk as a keyword,
// number, or identifier, in that order (the original's tokenizeChunk
// search order).
func classify(text string) (tacc.Token, error) {
	if Keywords[text] {
		return tacc.Token{Kind: keywordKind(text), Content: text}, nil
	}
	if isNumber(text) {
		return tacc.Token{Kind: Number, Content: text}, nil
	}
	if isIdentifier(text) {
		return tacc.Token{Kind: Identifier, Content: text}, nil
	}
	return tacc.Token{}, &Error{Text: text, Message: "unrecognized chunk"}
}

func isNumber(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for i, r := range text {
		switch {
		case i == 0 && (unicode.IsLetter(r) || r == '_'):
		case i > 0 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return true
}
