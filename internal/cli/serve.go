package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/server"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		scene sceneFlags
		cache cacheFlags
		addr  string
		fps   int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [graph.json]",
		Short: "Preview the simulation over HTTP",
		Long: `Serve runs the simulation in the background and exposes it over HTTP:

  GET  /frame.{svg,png,json}   the current frame
  GET  /render.{svg,png,json}  the settled layout (cached)
  GET  /graph.json             the graph with live positions
  GET  /status                 simulation state and energy
  POST /reheat                 restart the simulation
  POST /dag-mode/{mode}        switch the DAG constraint

With --watch the graph and scene files are reloaded when they change.`,
		Example: `  forcegraph serve deps.json --watch
  forcegraph serve deps.json -c scene.toml --addr :9000 --redis-url redis://localhost:6379/0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			graphPath := args[0]
			runner, err := c.newRunner(cmd, cache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := server.Config{
				Addr:   addr,
				FPS:    fps,
				Runner: runner,
				Logger: c.Logger,
				Load: func() (*graph.Data, *config.Config, error) {
					return scene.load(graphPath)
				},
			}
			if watch {
				cfg.WatchPaths = []string{graphPath}
				if scene.config != "" {
					cfg.WatchPaths = append(cfg.WatchPaths, scene.config)
				}
			}

			srv, err := server.New(cfg)
			if err != nil {
				return err
			}
			printSuccess("Serving %s on %s", graphPath, StyleLink.Render("http://"+displayAddr(addr)))
			return srv.Serve(cmd.Context())
		},
	}

	scene.register(cmd)
	cache.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "localhost:8080", "listen address")
	cmd.Flags().IntVar(&fps, "fps", server.DefaultFPS, "simulation frames per second")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the graph or config file changes")
	return cmd
}

// displayAddr makes ":8080" clickable.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
