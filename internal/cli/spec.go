package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pasccom/qtcreator-deptree/pkg/depgraph"
	"github.com/pasccom/qtcreator-deptree/pkg/spectmpl"
	"github.com/pasccom/qtcreator-deptree/pkg/views/rpm"
)

// specCommand creates the spec command.
func (c *CLI) specCommand() *cobra.Command {
	var (
		template   string
		output     string
		devel      bool
		libs       bool
		plugins    bool
		noOptimize bool
		backend    string
		redisAddr  string
		selection  selectionFlags
	)

	cmd := &cobra.Command{
		Use:   "spec [snapshot.json]",
		Short: "Emit RPM packaging metadata for the dependency graph",
		Long: `Emit RPM subpackage and file-list blocks for the dependency graph.

Without --template the generated blocks go to stdout (or --output):
runtime blocks by default, devel blocks with --devel. With --template the
blocks are spliced into the template at the @DEPTREE_METADATA@,
@DEPTREE_DEVEL_METADATA@, @DEPTREE_FILES@, and @DEPTREE_DEVEL_FILES@
marker lines.

Summary and description text is looked up in the RPM database when
available and cached between runs; missing entries fall back to
placeholder text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := rpm.Options{Libs: libs, Plugins: plugins}
			return c.runSpec(cmd, args[0], template, output, devel, opts, !noOptimize, backend, redisAddr, selection)
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "spec template to splice the blocks into")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&devel, "devel", false, "emit devel blocks instead of runtime blocks")
	cmd.Flags().BoolVar(&libs, "libs", true, "include libraries")
	cmd.Flags().BoolVar(&plugins, "plugins", true, "include plugins")
	cmd.Flags().BoolVar(&noOptimize, "no-optimize", false, "derive Requires from every declared edge instead of minimal ones")
	cmd.Flags().StringVar(&backend, "cache", "file", "package-info cache backend: file, redis, none")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis address for --cache redis")
	selection.register(cmd)

	return cmd
}

func (c *CLI) runSpec(cmd *cobra.Command, input, template, output string, devel bool, opts rpm.Options, optimize bool, backend, redisAddr string, selection selectionFlags) error {
	ctx := cmd.Context()
	g, err := c.loadGraph(ctx, input, optimize, selection)
	if err != nil {
		return err
	}

	info, closeCache, err := c.newInfoProvider(cmd, backend, redisAddr)
	if err != nil {
		return err
	}
	defer closeCache()
	view := rpm.NewView(info)

	w, closeOutput, err := openOutput(output)
	if err != nil {
		return err
	}
	defer closeOutput()

	if template != "" {
		fragments, err := buildFragments(ctx, view, g, opts)
		if err != nil {
			return err
		}
		markers, err := spectmpl.SpliceFile(template, w, fragments)
		if err != nil {
			return err
		}
		c.Logger.Debug("spliced template", "file", template, "markers", markers)
	} else if devel {
		meta, err := view.DevelMetadata(ctx, g, opts)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, meta+view.DevelFiles(g, opts)); err != nil {
			return err
		}
	} else {
		meta, err := view.Metadata(ctx, g, opts)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, meta+view.Files(g, opts)); err != nil {
			return err
		}
	}

	if output != "" && output != "-" {
		printSuccess("Packaging metadata written")
		printFile(output)
		printStats(g.Len(), g.EdgeCount())
	}
	return nil
}

// buildFragments generates all four template fragments.
func buildFragments(ctx context.Context, view *rpm.View, g *depgraph.Graph, opts rpm.Options) (spectmpl.Fragments, error) {
	meta, err := view.Metadata(ctx, g, opts)
	if err != nil {
		return spectmpl.Fragments{}, err
	}
	develMeta, err := view.DevelMetadata(ctx, g, opts)
	if err != nil {
		return spectmpl.Fragments{}, err
	}
	return spectmpl.Fragments{
		Metadata:      meta,
		DevelMetadata: develMeta,
		Files:         view.Files(g, opts),
		DevelFiles:    view.DevelFiles(g, opts),
	}, nil
}

// openOutput returns a writer for the output path, stdout for "" or "-".
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
