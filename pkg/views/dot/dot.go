// Package dot projects a dependency graph as a Graphviz diagram. The DOT
// text groups libraries and plugins into differently styled node sets,
// draws minimal dependencies solid and, on request, transitive ones dashed.
// SVG rendering happens in-process; PNG and PDF convert the SVG through
// librsvg.
package dot

import (
	"bytes"
	"fmt"

	"github.com/pasccom/qtcreator-deptree/pkg/depgraph"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

// Options configures diagram generation.
type Options struct {
	// Libs and Plugins gate whether each kind is emitted at all.
	Libs    bool
	Plugins bool

	// AllDeps also draws transitive edges, dashed, so a viewer can see
	// both the reduced skeleton and the deducible extra links.
	AllDeps bool
}

// Generate emits the graph as DOT text. Nodes are keyed by source folder
// with the display name as label, in canonical order so output is diffable
// across runs. An empty graph yields a well-formed empty digraph.
//
// Generate consumes the graph: the underlying registry is sealed.
func Generate(g *depgraph.Graph, opts Options) string {
	g.Seal()

	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")

	buf.WriteString("    node [shape=box]\n")
	if opts.Libs {
		for _, c := range g.Components() {
			if c.Kind == registry.KindLibrary {
				fmt.Fprintf(&buf, "    %s [label=\"%s\"]\n", c.FolderName, c.Name)
			}
		}
	}
	buf.WriteString("    node [shape=box, style=rounded]\n")
	if opts.Plugins {
		for _, c := range g.Components() {
			if c.Kind == registry.KindPlugin {
				fmt.Fprintf(&buf, "    %s [label=\"%s\"]\n", c.FolderName, c.Name)
			}
		}
	}

	writeEdges(&buf, g, opts, depgraph.EdgeMinimal)
	if opts.AllDeps {
		buf.WriteString("    edge [style=dashed]\n")
		writeEdges(&buf, g, opts, depgraph.EdgeTransitive)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeEdges(buf *bytes.Buffer, g *depgraph.Graph, opts Options, class depgraph.EdgeClass) {
	for _, e := range g.Edges() {
		if e.Class != class {
			continue
		}
		from, err := g.Component(e.From)
		if err != nil {
			continue
		}
		to, err := g.Component(e.To)
		if err != nil {
			continue
		}
		if !kindShown(from.Kind, opts) || !kindShown(to.Kind, opts) {
			continue
		}
		fmt.Fprintf(buf, "    %s -> %s\n", from.FolderName, to.FolderName)
	}
}

func kindShown(k registry.Kind, opts Options) bool {
	if k == registry.KindLibrary {
		return opts.Libs
	}
	return opts.Plugins
}
