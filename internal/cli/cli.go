// Package cli implements the deptree command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pasccom/qtcreator-deptree/pkg/buildinfo"
	"github.com/pasccom/qtcreator-deptree/pkg/cache"
	"github.com/pasccom/qtcreator-deptree/pkg/pkginfo"
)

// appName is the application name used for directories and display.
const appName = "deptree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "deptree analyzes Qt Creator library and plugin dependencies",
		Long:         `deptree scans a Qt Creator style source tree, derives the minimal dependency graph of its libraries and plugins, and projects it as a Graphviz diagram or as RPM packaging metadata.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.specCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newInfoProvider assembles the package-info lookup chain: RPM database
// first, static placeholders last, memoized in the selected cache backend.
func (c *CLI) newInfoProvider(cmd *cobra.Command, backend, redisAddr string) (pkginfo.Provider, func(), error) {
	chain := pkginfo.NewComposite(pkginfo.NewRPMQuery(), pkginfo.Static{})

	store, err := newCache(cmd, backend, redisAddr)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := store.Close(); err != nil {
			c.Logger.Warn("closing cache", "err", err)
		}
	}
	return pkginfo.NewCached(chain, store, 24*time.Hour), closer, nil
}

func newCache(cmd *cobra.Command, backend, redisAddr string) (cache.Cache, error) {
	switch strings.ToLower(backend) {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		return cache.NewRedisCache(cmd.Context(), redisAddr)
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/deptree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// splitNames parses a comma-separated component name list, dropping blanks.
func splitNames(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
