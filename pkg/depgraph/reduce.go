package depgraph

import "strings"

// EdgeClass tells a view whether an edge is load-bearing or redundant.
type EdgeClass int

const (
	// EdgeMinimal marks a direct dependency with no alternate path between
	// its endpoints. Removing it would change reachability.
	EdgeMinimal EdgeClass = iota
	// EdgeTransitive marks a direct dependency that is also reachable
	// through at least one intermediate node.
	EdgeTransitive
)

func (c EdgeClass) String() string {
	if c == EdgeTransitive {
		return "transitive"
	}
	return "minimal"
}

// Edge is one classified dependency edge, endpoints in display form.
type Edge struct {
	From  string
	To    string
	Class EdgeClass
}

// Reduce classifies every edge as minimal or transitive. An edge u->v is
// transitive when some other direct dependency w of u reaches v, which is
// exactly the edge a transitive reduction would drop. No edge is removed:
// reachability is untouched and the classification is recomputed from the
// full edge set on every call, so repeated calls agree.
//
// With optimize false the analysis is skipped and every edge is minimal.
func (g *Graph) Reduce(optimize bool) {
	g.class = make(map[edgeKey]EdgeClass, g.EdgeCount())
	if !optimize {
		for _, from := range g.keys {
			for _, to := range g.out[from] {
				g.class[edgeKey{from, to}] = EdgeMinimal
			}
		}
		return
	}

	reach := make(map[string]map[string]bool, len(g.keys))
	for _, key := range g.keys {
		reach[key] = g.reachableFrom(key)
	}

	for _, from := range g.keys {
		for _, to := range g.out[from] {
			class := EdgeMinimal
			for _, w := range g.out[from] {
				if w != to && reach[w][to] {
					class = EdgeTransitive
					break
				}
			}
			g.class[edgeKey{from, to}] = class
		}
	}
}

// Reduced reports whether Reduce has classified the edges.
func (g *Graph) Reduced() bool { return g.class != nil }

// EdgeClassOf returns the classification of the edge from->to. Before
// Reduce runs, every edge is minimal.
func (g *Graph) EdgeClassOf(from, to string) EdgeClass {
	if g.class == nil {
		return EdgeMinimal
	}
	return g.class[edgeKey{strings.ToLower(from), strings.ToLower(to)}]
}

// Edges returns every edge with its classification, endpoints in display
// form, sorted by source then target.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for _, from := range g.keys {
		for _, to := range g.out[from] {
			out = append(out, Edge{
				From:  g.displayName(from),
				To:    g.displayName(to),
				Class: g.EdgeClassOf(from, to),
			})
		}
	}
	return out
}

// MinimalDependencies returns the display names of the node's direct
// dependencies whose edges are minimal, in canonical order. Before Reduce
// runs this equals DirectDependencies.
func (g *Graph) MinimalDependencies(name string) ([]string, error) {
	deps, err := g.DirectDependencies(name)
	if err != nil {
		return nil, err
	}
	out := deps[:0:0]
	for _, d := range deps {
		if g.EdgeClassOf(name, d) == EdgeMinimal {
			out = append(out, d)
		}
	}
	return out, nil
}
