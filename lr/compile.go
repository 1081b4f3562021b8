package lr

import (
	"fmt"
	"os"

	"github.com/halvorsen/tacc/grammar"
)

// Option configures Compile, following the functional-options pattern
// used throughout this module's ambient packages.
type Option func(*config)

type config struct {
	cacheDir     string
	forceRebuild bool
}

// CacheDir sets the directory Compile looks in for (and writes) a
// cached table pair. The zero value disables caching.
func CacheDir(dir string) Option {
	return func(c *config) { c.cacheDir = dir }
}

// ForceRebuild skips a cache hit and always reconstructs the tables,
// still writing the fresh result back to the cache.
func ForceRebuild(b bool) Option {
	return func(c *config) { c.forceRebuild = b }
}

// Compile loads the grammar file at grammarFile, builds its canonical
// LR(1) ACTION/GOTO tables (consulting and populating a table cache if
// CacheDir was given), and returns them along with any table conflicts
// observed.
func Compile(grammarFile string, opts ...Option) (*Tables, []TableConflict, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	raw, err := os.ReadFile(grammarFile)
	if err != nil {
		return nil, nil, fmt.Errorf("lr: reading grammar file: %w", err)
	}
	text := string(raw)

	var cache *Cache
	var cachePath string
	if cfg.cacheDir != "" {
		cache = NewCache(cfg.cacheDir)
		cachePath, err = cache.Path(grammarFile, text)
		if err != nil {
			return nil, nil, err
		}
		if !cfg.forceRebuild {
			if t, err := Load(cachePath); err == nil {
				tracer().Infof("loaded cached tables from %s", cachePath)
				return t, nil, nil
			}
		}
	}

	g, err := grammar.Load(text)
	if err != nil {
		return nil, nil, err
	}
	builder := NewBuilder(g)
	tables := builder.Build()

	if cache != nil {
		if err := Save(cachePath, tables); err != nil {
			tracer().Errorf("writing table cache: %s", err.Error())
		}
	}
	return tables, builder.Conflicts(), nil
}
