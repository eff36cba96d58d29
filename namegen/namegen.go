// Package namegen generates collision-free names for exported entities
// (nodes, meshes, materials) that arrived from the neutral scene without
// one, or whose name collides with another already emitted.
package namegen

import "fmt"

// Generator assigns unique names by probing base, base_1, base_2, … It is
// not safe for concurrent use; one Generator is threaded through a single
// export.
type Generator struct {
	used     map[string]bool
	counters map[string]int
}

func New() *Generator {
	return &Generator{used: map[string]bool{}, counters: map[string]int{}}
}

// Unique returns a name guaranteed not to have been returned before,
// derived from base. Note the counter for base is set to one past the
// suffix each call used, and a winning suffixed name also gets its own
// counter entry seeded to 1, so a later request for that exact name
// (e.g. Unique("foo_1")) starts probing at "foo_1_1" instead of trying
// "foo_1" itself. After "foo" then "foo_1", base's counter is 2, so a
// third request for "foo" yields "foo_2".
// This mirrors observable behavior in round-tripped exports and must not
// be "fixed" to a cleaner probe.
func (g *Generator) Unique(base string) string {
	if base == "" {
		base = "unnamed"
	}
	n := g.counters[base]
	candidate := base
	if n > 0 {
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	for g.used[candidate] {
		n++
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
	g.used[candidate] = true
	g.counters[base] = n + 1
	if candidate != base {
		g.counters[candidate]++
	}
	return candidate
}

// Reserve marks name as used without running it through the probe,
// for names read verbatim from a source format that must be preserved
// as-is whenever possible.
func (g *Generator) Reserve(name string) {
	g.used[name] = true
}
