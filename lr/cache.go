package lr

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cnf/structhash"
)

// Cache persists ACTION/GOTO tables in its directory Dir, one file per
// grammar, named after the grammar file's base name plus a structural
// fingerprint of the grammar text, so a grammar edit
// invalidates the cache instead of silently parsing with a stale table
// (spec.md §4.2 "Table cache").
type Cache struct {
	Dir string
}

// NewCache creates a Cache rooted at dir.
func NewCache(dir string) *Cache {
	return &Cache{Dir: dir}
}

// Path returns the cache file path for a grammar loaded from
// grammarFile with the given text, fingerprinted with structhash so
// that any change to the grammar's content produces a different cache
// file instead of returning a stale table.
func (c *Cache) Path(grammarFile, text string) (string, error) {
	sum, err := structhash.Hash(text, 1)
	if err != nil {
		return "", fmt.Errorf("lr: fingerprinting grammar: %w", err)
	}
	base := filepath.Base(grammarFile)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(c.Dir, fmt.Sprintf("%s.%s.lrtab", name, sum)), nil
}

// Load reads a previously cached pair of ACTION/GOTO tables: two
// consecutive JSON lines, ACTION then GOTO. State keys are serialized
// as decimal strings (JSON object keys must be strings) and
// re-integerized on load.
func Load(path string) (*Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	actionLine, err := nextLine(scanner)
	if err != nil {
		return nil, fmt.Errorf("lr: reading cached ACTION table: %w", err)
	}
	gotoLine, err := nextLine(scanner)
	if err != nil {
		return nil, fmt.Errorf("lr: reading cached GOTO table: %w", err)
	}

	var rawAction map[string]map[string]string
	if err := json.Unmarshal(actionLine, &rawAction); err != nil {
		return nil, fmt.Errorf("lr: decoding cached ACTION table: %w", err)
	}
	var rawGoto map[string]map[string]int
	if err := json.Unmarshal(gotoLine, &rawGoto); err != nil {
		return nil, fmt.Errorf("lr: decoding cached GOTO table: %w", err)
	}

	t := &Tables{Action: map[int]map[string]string{}, Goto: map[int]map[string]int{}}
	for k, row := range rawAction {
		state, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("lr: cached ACTION table: bad state key %q: %w", k, err)
		}
		t.Action[state] = row
	}
	for k, row := range rawGoto {
		state, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("lr: cached GOTO table: bad state key %q: %w", k, err)
		}
		t.Goto[state] = row
	}
	return t, nil
}

func nextLine(scanner *bufio.Scanner) ([]byte, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}
	return scanner.Bytes(), nil
}

// Save writes t to path as two JSON lines, ACTION then GOTO, with state
// keys rendered as decimal strings.
func Save(path string, t *Tables) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("lr: creating cache directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lr: creating cache file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeLine(w, stringifyAction(t.Action)); err != nil {
		return err
	}
	if err := writeLine(w, stringifyGoto(t.Goto)); err != nil {
		return err
	}
	return w.Flush()
}

func writeLine(w *bufio.Writer, v interface{}) error {
	enc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("lr: encoding cache line: %w", err)
	}
	if _, err := w.Write(enc); err != nil {
		return fmt.Errorf("lr: writing cache line: %w", err)
	}
	return w.WriteByte('\n')
}

func stringifyAction(in map[int]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for state, row := range in {
		out[strconv.Itoa(state)] = row
	}
	return out
}

func stringifyGoto(in map[int]map[string]int) map[string]map[string]int {
	out := make(map[string]map[string]int, len(in))
	for state, row := range in {
		out[strconv.Itoa(state)] = row
	}
	return out
}
