package dot

import (
	"strings"
	"testing"

	"github.com/pasccom/qtcreator-deptree/pkg/depgraph"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
)

func diagramGraph(t *testing.T) *depgraph.Graph {
	t.Helper()
	r := registry.New()
	add := func(name string, kind registry.Kind, folder string, deps ...string) {
		t.Helper()
		if _, err := r.Add(name, kind, folder, deps); err != nil {
			t.Fatalf("Add(%s) error: %v", name, err)
		}
	}
	add("Utils", registry.KindLibrary, "utils")
	add("Aggregation", registry.KindLibrary, "aggregation", "Utils")
	add("Core", registry.KindPlugin, "coreplugin", "Aggregation", "Utils")

	g, err := depgraph.Build(r)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	g.Reduce(true)
	return g
}

func TestGenerate(t *testing.T) {
	out := Generate(diagramGraph(t), Options{Libs: true, Plugins: true})

	for _, want := range []string{
		"digraph deps {",
		"node [shape=box]",
		"node [shape=box, style=rounded]",
		`utils [label="Utils"]`,
		`aggregation [label="Aggregation"]`,
		`coreplugin [label="Core"]`,
		"aggregation -> utils",
		"coreplugin -> aggregation",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Core -> Utils is transitive through Aggregation, hidden by default.
	if strings.Contains(out, "coreplugin -> utils") {
		t.Errorf("transitive edge drawn without AllDeps:\n%s", out)
	}
}

func TestGenerate_AllDepsDrawsTransitiveDashed(t *testing.T) {
	out := Generate(diagramGraph(t), Options{Libs: true, Plugins: true, AllDeps: true})

	dashIdx := strings.Index(out, "edge [style=dashed]")
	transIdx := strings.Index(out, "coreplugin -> utils")
	if dashIdx < 0 || transIdx < 0 {
		t.Fatalf("missing dashed section or transitive edge:\n%s", out)
	}
	if transIdx < dashIdx {
		t.Errorf("transitive edge drawn before dashed style:\n%s", out)
	}
}

func TestGenerate_KindGates(t *testing.T) {
	out := Generate(diagramGraph(t), Options{Libs: true, Plugins: false})

	if strings.Contains(out, "coreplugin") {
		t.Errorf("plugin emitted with Plugins=false:\n%s", out)
	}
	if !strings.Contains(out, `utils [label="Utils"]`) {
		t.Errorf("library missing with Libs=true:\n%s", out)
	}
	// Edges touching a gated-out kind are dropped with it.
	if strings.Contains(out, "-> aggregation\n    coreplugin") || strings.Contains(out, "coreplugin ->") {
		t.Errorf("edge to gated-out plugin survived:\n%s", out)
	}
}

func TestGenerate_EmptyGraph(t *testing.T) {
	g, err := depgraph.Build(registry.New())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	out := Generate(g, Options{Libs: true, Plugins: true})

	if !strings.HasPrefix(out, "digraph deps {") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("empty graph not well-formed:\n%s", out)
	}
	if strings.Contains(out, "->") {
		t.Errorf("empty graph has edges:\n%s", out)
	}
}

func TestGenerate_SealsRegistry(t *testing.T) {
	g := diagramGraph(t)
	Generate(g, Options{Libs: true, Plugins: true})

	if !g.Registry().Sealed() {
		t.Error("registry not sealed after projection")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?><svg width="8pt" height="6pt" viewBox="0.00 0.00 100.50 60.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.50 60.25"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="101"`) && !strings.Contains(out, `width="100"`) {
		t.Errorf("width not rewritten: %s", out)
	}
}

func TestNormalizeViewBox_NoViewBox(t *testing.T) {
	in := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	if got := normalizeViewBox(in); string(got) != string(in) {
		t.Errorf("svg without viewBox modified: %s", got)
	}
}
