// Package depgraph builds the directed dependency graph over a component
// registry and offers the transformations the views consume: selection
// filtering and transitive reduction.
//
// Nodes are components, edges point from a component to each of its declared
// direct dependencies. The graph is validated on construction: every declared
// dependency must resolve to a registered component and the edge relation
// must be acyclic.
package depgraph

import (
	"sort"
	"strings"

	"github.com/pasccom/qtcreator-deptree/pkg/errors"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

// Graph is a validated dependency DAG over a registry. Node and adjacency
// order is canonical (sorted by lower-case name) so every traversal and
// projection is deterministic.
//
// Graph is not safe for concurrent use without external synchronization.
type Graph struct {
	reg    *registry.Registry
	keys   []string            // sorted lower-case node keys
	member map[string]bool     // node key set, needed by filtered subgraphs
	out    map[string][]string // node key -> sorted dependency keys

	class map[edgeKey]EdgeClass // set by Reduce, nil until then
}

type edgeKey struct{ from, to string }

// Build resolves every declared dependency against the registry and returns
// the validated graph. Fails with ErrCodeUnknownDependency naming the first
// unresolvable declaration, or with ErrCodeCycleDetected carrying one
// witness cycle path in the message.
func Build(reg *registry.Registry) (*Graph, error) {
	g := &Graph{
		reg:    reg,
		member: make(map[string]bool, reg.Len()),
		out:    make(map[string][]string, reg.Len()),
	}
	for _, c := range reg.Components() {
		key := strings.ToLower(c.Name)
		g.keys = append(g.keys, key)
		g.member[key] = true
		for _, d := range c.DependsOn {
			if !reg.Has(d) {
				return nil, errors.New(errors.ErrCodeUnknownDependency,
					"component %s depends on unknown component %s", c.Name, d)
			}
			g.out[key] = append(g.out[key], strings.ToLower(d))
		}
		sort.Strings(g.out[key])
	}
	if cycle := g.findCycle(); cycle != nil {
		return nil, errors.New(errors.ErrCodeCycleDetected,
			"dependency cycle: %s", strings.Join(cycle, " -> "))
	}
	return g, nil
}

// findCycle runs depth-first search with white/gray/black coloring and, on
// hitting a gray node, reconstructs one witness cycle from the DFS stack.
func (g *Graph) findCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.keys))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range g.out[id] {
			switch color[next] {
			case white:
				if dfs(next) {
					return true
				}
			case gray:
				i := 0
				for stack[i] != next {
					i++
				}
				cycle = append(append([]string{}, stack[i:]...), next)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range g.keys {
		if color[id] == white && dfs(id) {
			names := make([]string, len(cycle))
			for i, k := range cycle {
				names[i] = g.displayName(k)
			}
			return names
		}
	}
	return nil
}

func (g *Graph) displayName(key string) string {
	if c, err := g.reg.Lookup(key); err == nil {
		return c.Name
	}
	return key
}

// Registry returns the registry the graph was built from.
func (g *Graph) Registry() *registry.Registry { return g.reg }

// Seal marks the underlying registry read-only. View projections call this
// before consuming the graph.
func (g *Graph) Seal() { g.reg.Seal() }

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.keys) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, key := range g.keys {
		n += len(g.out[key])
	}
	return n
}

// Has reports whether the component is a node of this graph. A filtered
// subgraph contains fewer nodes than its registry.
func (g *Graph) Has(name string) bool { return g.member[strings.ToLower(name)] }

// Component returns the registry record for a graph node.
// Fails with ErrCodeUnknownComponent if the name is not a node.
func (g *Graph) Component(name string) (*registry.Component, error) {
	if !g.Has(name) {
		return nil, errors.New(errors.ErrCodeUnknownComponent, "unknown component: %s", name)
	}
	return g.reg.Lookup(name)
}

// Components returns the registry records of all graph nodes, sorted by
// case-insensitive name.
func (g *Graph) Components() []*registry.Component {
	out := make([]*registry.Component, 0, len(g.keys))
	for _, key := range g.keys {
		if c, err := g.reg.Lookup(key); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// DirectDependencies returns the display names of the node's direct
// dependencies in canonical order.
// Fails with ErrCodeUnknownComponent if the name is not a node.
func (g *Graph) DirectDependencies(name string) ([]string, error) {
	if !g.Has(name) {
		return nil, errors.New(errors.ErrCodeUnknownComponent, "unknown component: %s", name)
	}
	deps := g.out[strings.ToLower(name)]
	out := make([]string, len(deps))
	for i, d := range deps {
		out[i] = g.displayName(d)
	}
	return out, nil
}

// Reachable returns the display names of every component transitively
// reachable from the node, sorted, excluding the node itself.
// Fails with ErrCodeUnknownComponent if the name is not a node.
func (g *Graph) Reachable(name string) ([]string, error) {
	if !g.Has(name) {
		return nil, errors.New(errors.ErrCodeUnknownComponent, "unknown component: %s", name)
	}
	seen := g.reachableFrom(strings.ToLower(name))
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, g.displayName(key))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out, nil
}

// reachableFrom collects every node key reachable from key, excluding key
// itself unless it lies on a path back to itself.
func (g *Graph) reachableFrom(key string) map[string]bool {
	seen := make(map[string]bool)
	var dfs func(k string)
	dfs = func(k string) {
		for _, next := range g.out[k] {
			if !seen[next] {
				seen[next] = true
				dfs(next)
			}
		}
	}
	dfs(key)
	return seen
}
