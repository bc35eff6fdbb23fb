package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
		Long: `The render cache holds settled layouts and rendered files under the
cache directory. A Redis cache (--redis-url) expires entries on its own.`,
	}

	var dir string
	cmd.PersistentFlags().StringVar(&dir, "cache-dir", "", "cache directory (default: $XDG_CACHE_HOME/forcegraph)")

	cmd.AddCommand(c.cacheClearCommand(&dir))
	cmd.AddCommand(c.cachePruneCommand(&dir))
	cmd.AddCommand(c.cachePathCommand(&dir))

	return cmd
}

// resolveCacheDir returns the --cache-dir override or the XDG default.
func resolveCacheDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}

// openFileCache opens the cache directory, or returns nil if it does not
// exist yet.
func openFileCache(dir string) (*cache.FileCache, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c.(*cache.FileCache), nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand(dirFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(*dirFlag)
			if err != nil {
				return err
			}
			fc, err := openFileCache(dir)
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}

			count, err := fc.Clear(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand(dirFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(*dirFlag)
			if err != nil {
				return err
			}
			fc, err := openFileCache(dir)
			if err != nil {
				return err
			}
			if fc == nil {
				printInfo("Cache is empty")
				return nil
			}

			count, err := fc.Prune(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Pruned %d cached entries", count)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand(dirFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveCacheDir(*dirFlag)
			if err != nil {
				return err
			}
			fmt.Println(dir)
			return nil
		},
	}
}
