package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pasccom/qtcreator-deptree/pkg/graphio"
	"github.com/pasccom/qtcreator-deptree/pkg/views/dot"
)

// serveCommand creates the serve command for previewing a snapshot.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		libs      bool
		plugins   bool
		allDeps   bool
		selection selectionFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [snapshot.json]",
		Short: "Serve a local preview of the dependency diagram",
		Long: `Serve a local HTTP preview of a snapshot.

Routes:
  GET /             HTML page embedding the diagram
  GET /graph.json   the snapshot
  GET /diagram.svg  the rendered diagram

The server runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := dot.Options{Libs: libs, Plugins: plugins, AllDeps: allDeps}
			return c.runServe(cmd.Context(), args[0], addr, opts, selection)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().BoolVar(&libs, "libs", true, "show libraries")
	cmd.Flags().BoolVar(&plugins, "plugins", true, "show plugins")
	cmd.Flags().BoolVar(&allDeps, "all-deps", false, "also draw transitive dependencies, dashed")
	selection.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, input, addr string, opts dot.Options, selection selectionFlags) error {
	g, err := c.loadGraph(ctx, input, true, selection)
	if err != nil {
		return err
	}

	snapshot, err := graphio.Marshal(g.Registry())
	if err != nil {
		return err
	}
	svg, err := dot.RenderSVG(ctx, dot.Generate(g, opts))
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(c.requestLogger)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, indexPage, g.Len(), g.EdgeCount())
	})
	r.Get("/graph.json", func(w http.ResponseWriter, req *http.Request) {
		loggerFromContext(req.Context()).Debug("serving snapshot", "bytes", len(snapshot))
		w.Header().Set("Content-Type", "application/json")
		w.Write(snapshot)
	})
	r.Get("/diagram.svg", func(w http.ResponseWriter, req *http.Request) {
		loggerFromContext(req.Context()).Debug("serving diagram", "bytes", len(svg))
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	})

	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	printInfo("Serving on http://%s", addr)
	printDetail("Press Ctrl+C to stop")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger attaches a request ID and logs each request with its
// duration.
func (c *CLI) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		logger := c.Logger.With("request_id", id)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), logger)))
		logger.Info("request", "method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>deptree</title>
<style>
  body { font-family: sans-serif; margin: 2em; }
  .stats { color: #666; }
  img { max-width: 100%%; border: 1px solid #ddd; margin-top: 1em; }
</style>
</head>
<body>
<h1>Dependency graph</h1>
<p class="stats">%d components, %d edges · <a href="/graph.json">graph.json</a></p>
<img src="/diagram.svg" alt="dependency diagram">
</body>
</html>
`
