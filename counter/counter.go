/*
Package counter implements a small registry of named, monotonically
increasing counters.

The IR builder needs two families of fresh names: temporaries (prefix
"r", unprefixed) and labels (prefix "_L"). Both are generated from the
same registry, which each ir.Builder creates fresh (every counter at
zero), so two independent compilations never share state: the
registry is a value, not a package-level global, per spec.md §5 and §9
("Thread a counter context through the builder instead; reset it per
compilation").
*/
package counter

import "fmt"

// Registry assigns each prefix its own monotone counter.
type Registry struct {
	counts map[string]int
}

// New creates a Registry with every counter initialized to zero.
func New() *Registry {
	return &Registry{counts: make(map[string]int)}
}

// Unique generates a new, unique name with the given prefix: "pN" with
// N incremented. An empty prefix falls back to "r", matching the
// original compiler's unprefixed temporaries ("r1, r2, …").
func (r *Registry) Unique(prefix string) string {
	if prefix == "" {
		prefix = "r"
	}
	r.counts[prefix]++
	return fmt.Sprintf("%s%d", prefix, r.counts[prefix])
}

// Peek returns the current count for prefix without advancing it.
func (r *Registry) Peek(prefix string) int {
	if prefix == "" {
		prefix = "r"
	}
	return r.counts[prefix]
}

// Reset zeroes every counter. Useful between independent compilations
// that reuse the same Registry value (tests mostly; production callers
// should just construct a fresh Registry instead).
func (r *Registry) Reset() {
	r.counts = make(map[string]int)
}
