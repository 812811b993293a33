package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pasccom/qtcreator-deptree/pkg/depgraph"
	"github.com/pasccom/qtcreator-deptree/pkg/graphio"
	"github.com/pasccom/qtcreator-deptree/pkg/observability"
	"github.com/pasccom/qtcreator-deptree/pkg/views/dot"
)

// selectionFlags are the include/exclude options shared by the projection
// commands.
type selectionFlags struct {
	include     string
	exclude     string
	interactive bool
}

func (s *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.include, "include", "", "comma-separated components to keep (with their dependencies)")
	cmd.Flags().StringVar(&s.exclude, "exclude", "", "comma-separated components to drop")
	cmd.Flags().BoolVarP(&s.interactive, "interactive", "i", false, "pick components interactively")
}

// apply loads the selection into a filtered graph.
func (s *selectionFlags) apply(g *depgraph.Graph) (*depgraph.Graph, error) {
	include := splitNames(s.include)
	if s.interactive {
		picked, err := pickComponents(g.Components())
		if err != nil {
			return nil, err
		}
		include = append(include, picked...)
	}
	return g.Filter(include, splitNames(s.exclude)), nil
}

// diagramCommand creates the diagram command.
func (c *CLI) diagramCommand() *cobra.Command {
	var (
		format     string
		output     string
		libs       bool
		plugins    bool
		allDeps    bool
		noOptimize bool
		selection  selectionFlags
	)

	cmd := &cobra.Command{
		Use:   "diagram [snapshot.json]",
		Short: "Render the dependency graph as a diagram",
		Long: `Render the dependency graph of a snapshot as a Graphviz diagram.

Minimal dependencies are drawn solid; with --all-deps, transitive ones are
added dashed. DOT output goes to stdout unless --output is set; SVG, PNG,
and PDF derive their file name from the snapshot when --output is omitted.

PNG and PDF conversion requires librsvg (rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := dot.Options{Libs: libs, Plugins: plugins, AllDeps: allDeps}
			return c.runDiagram(cmd.Context(), args[0], format, output, opts, !noOptimize, selection)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png, pdf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&libs, "libs", true, "show libraries")
	cmd.Flags().BoolVar(&plugins, "plugins", true, "show plugins")
	cmd.Flags().BoolVar(&allDeps, "all-deps", false, "also draw transitive dependencies, dashed")
	cmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "keep every declared edge instead of reducing")
	selection.register(cmd)

	return cmd
}

func (c *CLI) runDiagram(ctx context.Context, input, format, output string, opts dot.Options, optimize bool, selection selectionFlags) error {
	g, err := c.loadGraph(ctx, input, optimize, selection)
	if err != nil {
		return err
	}
	dotText := dot.Generate(g, opts)

	format = strings.ToLower(format)
	if format == "dot" {
		if output == "" || output == "-" {
			fmt.Print(dotText)
			return nil
		}
		if err := os.WriteFile(output, []byte(dotText), 0644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Diagram written")
		printFile(output)
		return nil
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".json") + "." + format
	}

	observability.Pipeline().OnRenderStart(ctx, format)
	start := time.Now()
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", format))
	spinner.Start()
	data, err := renderDiagram(ctx, dotText, format)
	observability.Pipeline().OnRenderComplete(ctx, format, time.Since(start), err)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Diagram written")
	printFile(output)
	printStats(g.Len(), g.EdgeCount())
	return nil
}

func renderDiagram(ctx context.Context, dotText, format string) ([]byte, error) {
	svg, err := dot.RenderSVG(ctx, dotText)
	if err != nil {
		return nil, err
	}
	switch format {
	case "svg":
		return svg, nil
	case "png":
		return dot.ToPNG(ctx, svg, 2.0)
	case "pdf":
		return dot.ToPDF(ctx, svg)
	default:
		return nil, fmt.Errorf("unsupported format: %s (use dot, svg, png, or pdf)", format)
	}
}

// loadGraph reads a snapshot, applies the selection, and classifies edges.
func (c *CLI) loadGraph(ctx context.Context, input string, optimize bool, selection selectionFlags) (*depgraph.Graph, error) {
	reg, err := graphio.ReadFile(input)
	if err != nil {
		return nil, err
	}
	g, err := depgraph.Build(reg)
	if err != nil {
		return nil, err
	}
	g, err = selection.apply(g)
	if err != nil {
		return nil, err
	}

	observability.Pipeline().OnReduceStart(ctx, g.EdgeCount())
	start := time.Now()
	g.Reduce(optimize)
	minimal, transitive := 0, 0
	for _, e := range g.Edges() {
		if e.Class == depgraph.EdgeMinimal {
			minimal++
		} else {
			transitive++
		}
	}
	observability.Pipeline().OnReduceComplete(ctx, minimal, transitive, time.Since(start))
	c.Logger.Debug("classified edges", "minimal", minimal, "transitive", transitive)
	return g, nil
}
