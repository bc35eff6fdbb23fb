package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // output formats: "svg", "png", "json"
	frames  int      // frame cap for the simulation
	refresh bool     // ignore cached layouts and artifacts
	scene   sceneFlags
	cache   cacheFlags
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{frames: pipeline.DefaultFrames}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Simulate a graph to rest and render it",
		Long: `Render runs the force simulation over a JSON graph until it cools down
(or --frames is reached) and writes the settled frame.

Settled layouts and rendered files are cached, so re-rendering an unchanged
graph with a different output format skips the simulation.`,
		Example: `  forcegraph render deps.json
  forcegraph render deps.json --dag-mode td -f svg,png -o out/deps
  forcegraph render deps.json -c scene.toml -f json -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format, - for stdout) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, json (comma-separated)")
	cmd.Flags().IntVar(&opts.frames, "frames", opts.frames, "maximum frames to simulate")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	opts.scene.register(cmd)
	opts.cache.register(cmd)

	return cmd
}

// runRender loads the scene, runs the pipeline and writes one file per
// format.
func (c *CLI) runRender(cmd *cobra.Command, input string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	data, cfg, err := opts.scene.load(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded scene", "nodes", len(data.Nodes), "links", len(data.Links), "dag", cfg.DAG.Mode)

	runner, err := c.newRunner(cmd, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, os.Stderr, "Simulating "+filepath.Base(input))
	spinner.Start()
	result, err := runner.Execute(ctx, pipeline.Options{
		Graph:   data,
		Config:  cfg,
		Frames:  opts.frames,
		Formats: opts.formats,
		Refresh: opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.Stop()
	prog.done("simulated",
		"frames", result.Stats.Frames,
		"links", result.Stats.Links,
		"cached", result.CacheInfo.LayoutHit)

	paths := outputPaths(opts.output, input, opts.formats)
	for _, format := range opts.formats {
		if err := writeOutput(ctx, paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	if opts.output == "-" {
		return nil
	}
	printSuccess("Rendered %s", input)
	printStats(result.Stats.Nodes, result.Stats.Links, result.CacheInfo.LayoutHit)
	for _, format := range opts.formats {
		printFile(paths[format])
	}
	printNextStep("Preview live", "forcegraph serve "+input)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it verbatim; otherwise files are named base.format.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories. "-" writes
// to stdout.
func writeOutput(ctx context.Context, path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	loggerFromContext(ctx).Debugf("Wrote %s (%d bytes)", path, len(data))
	return nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if err := errors.ValidateOutputPath(path); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", dir)
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
