package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pasccom/qtcreator-deptree/pkg/depgraph"
	"github.com/pasccom/qtcreator-deptree/pkg/graphio"
	"github.com/pasccom/qtcreator-deptree/pkg/observability"
	"github.com/pasccom/qtcreator-deptree/pkg/registry"
	"github.com/pasccom/qtcreator-deptree/pkg/source/pri"
)

// scanCommand creates the scan command.
func (c *CLI) scanCommand() *cobra.Command {
	var (
		overridesPath string
		output        string
	)

	cmd := &cobra.Command{
		Use:   "scan [source-root]",
		Short: "Scan a source tree and write a dependency snapshot",
		Long: `Scan a Qt Creator style source tree and write a JSON snapshot.

The scan reads every library folder under src/libs and every plugin folder
under src/plugins, parses the dependency declaration files, applies the
optional overrides table, validates the resulting graph, and writes a
deterministic snapshot for the diagram, spec, and serve commands.

Selection filtering happens at projection time, so one snapshot serves
every view.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), args[0], overridesPath, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file (default stdout)")
	cmd.Flags().StringVar(&overridesPath, "overrides", "", "TOML overrides table applied to the scanned components")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, root, overridesPath, output string) error {
	observability.Pipeline().OnScanStart(ctx, root)
	prog := newProgress(c.Logger)

	reg, err := pri.NewScanner(c.Logger).Scan(ctx, root)
	count := 0
	if reg != nil {
		count = reg.Len()
	}
	observability.Pipeline().OnScanComplete(ctx, root, count, time.Since(prog.start), err)
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	if overridesPath != "" {
		overrides, err := registry.LoadOverrides(overridesPath)
		if err != nil {
			return err
		}
		if err := overrides.Apply(reg); err != nil {
			return err
		}
		c.Logger.Debug("applied overrides", "file", overridesPath, "entries", len(overrides.Override))
	}

	// Validate before writing: unknown dependencies and cycles abort the
	// run without producing a snapshot.
	g, err := depgraph.Build(reg)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scanned %d components", reg.Len()))

	if output == "" || output == "-" {
		return graphio.Write(reg, os.Stdout)
	}
	if err := graphio.WriteFile(reg, output); err != nil {
		return err
	}
	printSuccess("Snapshot written")
	printFile(output)
	printStats(reg.Len(), g.EdgeCount())
	return nil
}
