// Package cli implements the forcegraph command-line interface.
//
// The commands wrap the render pipeline:
//   - render: simulate a graph to rest and write SVG, PNG or JSON
//   - depths: print the DAG depth of every node
//   - watch: run the simulation live in the terminal
//   - serve: preview frames over HTTP
//   - cache: manage the on-disk render cache
//
// All commands support --verbose (-v) for debug-level logging. The logger
// is passed through context.Context.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/buildinfo"
	"github.com/matzehuels/forcegraph/pkg/cache"
	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/layout"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "forcegraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

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
		Short:        "forcegraph renders force-directed graph layouts",
		Long:         `forcegraph runs a force-directed simulation over a JSON graph, optionally constrained to DAG levels, and renders the settled layout as SVG, PNG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.depthsCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the render cache backend.
type cacheFlags struct {
	noCache  bool
	dir      string
	redisURL string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().StringVar(&f.dir, "cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/forcegraph)")
	cmd.Flags().StringVar(&f.redisURL, "redis-url", "", "use a shared Redis cache instead of the cache directory")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, flags cacheFlags) (*pipeline.Runner, error) {
	store, err := c.newCache(cmd, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(cmd *cobra.Command, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.redisURL != "":
		return cache.NewRedisCache(cmd.Context(), flags.redisURL)
	}
	dir := flags.dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/forcegraph/).
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

// =============================================================================
// Scene Loading
// =============================================================================

// sceneFlags are the inputs shared by every command that simulates a graph.
type sceneFlags struct {
	config  string
	dagMode string
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "scene configuration file (TOML)")
	cmd.Flags().StringVar(&f.dagMode, "dag-mode", "", "override [dag] mode: "+modeList())
	_ = cmd.RegisterFlagCompletionFunc("dag-mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return modeNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// load reads the graph file and the scene configuration, applying flag
// overrides on top of the file.
func (f *sceneFlags) load(graphPath string) (*graph.Data, *config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, nil, err
		}
	}
	if f.dagMode != "" {
		mode, err := layout.ParseMode(f.dagMode)
		if err != nil {
			return nil, nil, err
		}
		cfg.DAG.Mode = mode
	}

	data, err := graph.ReadFile(graphPath, cfg.Graph.DecodeOptions()...)
	if err != nil {
		return nil, nil, err
	}
	return data, cfg, nil
}

func modeNames() []string { return layout.Modes }

func modeList() string { return strings.Join(layout.Modes, ", ") }

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
