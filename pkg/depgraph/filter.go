package depgraph

import (
	"sort"
	"strings"
)

// Filter derives a subgraph from include and exclude selections.
//
// An empty include list selects every node; a non-empty one selects the
// named nodes plus their full transitive dependency closure, so the result
// is always a complete graph for the kept roots. Exclusions are applied
// after closure expansion and win over inclusion. Names are matched
// case-insensitively.
//
// A selection matching nothing is not an error: unknown names select no
// node, and an include list made only of unknown names yields an empty
// graph. With both lists empty the receiver is returned unchanged.
func (g *Graph) Filter(include, exclude []string) *Graph {
	if len(include) == 0 && len(exclude) == 0 {
		return g
	}

	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(name)] = true
	}

	keep := make(map[string]bool, len(g.keys))
	if len(include) == 0 {
		for _, key := range g.keys {
			keep[key] = true
		}
	} else {
		// Breadth-first closure over the dependency edges of each root.
		var queue []string
		for _, name := range include {
			key := strings.ToLower(name)
			if g.member[key] && !keep[key] {
				keep[key] = true
				queue = append(queue, key)
			}
		}
		for len(queue) > 0 {
			key := queue[0]
			queue = queue[1:]
			for _, dep := range g.out[key] {
				if !keep[dep] {
					keep[dep] = true
					queue = append(queue, dep)
				}
			}
		}
	}

	for key := range excluded {
		delete(keep, key)
	}

	sub := &Graph{
		reg:    g.reg,
		member: keep,
		out:    make(map[string][]string, len(keep)),
	}
	for _, key := range g.keys {
		if !keep[key] {
			continue
		}
		sub.keys = append(sub.keys, key)
		for _, dep := range g.out[key] {
			if keep[dep] {
				sub.out[key] = append(sub.out[key], dep)
			}
		}
	}
	sort.Strings(sub.keys)
	return sub
}
