// Package server serves a live simulation over HTTP.
//
// The server keeps one scene running in the background at a fixed frame
// rate, so /frame.svg polled from a browser shows the layout settling.
// Settled renders go through the cached pipeline on /render.{format}.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/forcegraph/pkg/config"
	"github.com/matzehuels/forcegraph/pkg/forcegraph"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/observability"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/sim"
)

// DefaultFPS is the background simulation rate.
const DefaultFPS = 30

// LoadFunc reads the graph and scene configuration.
type LoadFunc func() (*graph.Data, *config.Config, error)

// Config configures a Server.
type Config struct {
	Addr   string
	FPS    int
	Load   LoadFunc
	Runner *pipeline.Runner
	Logger *log.Logger

	// WatchPaths are reloaded through Load when they change on disk.
	WatchPaths []string
}

// Server owns the live scene.
type Server struct {
	cfg     Config
	logger  *log.Logger
	metrics *metrics

	mu     sync.Mutex
	scene  *forcegraph.ForceGraph
	input  *graph.Data
	sceneC *config.Config
	frames int
}

// New loads the scene and returns a server ready to [Server.Serve].
func New(cfg Config) (*Server, error) {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	s := &Server{cfg: cfg, logger: cfg.Logger, metrics: newMetrics()}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload reads the inputs and replaces the live scene.
func (s *Server) reload() error {
	data, sceneCfg, err := s.cfg.Load()
	if err != nil {
		return err
	}
	// The live scene mutates its graph; /render needs the pristine input.
	encoded, err := graph.Marshal(data)
	if err != nil {
		return err
	}
	live, err := graph.Unmarshal(encoded)
	if err != nil {
		return err
	}

	opts := append(sceneCfg.Options(), forcegraph.WithGraphData(live), forcegraph.WithLogger(s.logger))
	scene := forcegraph.New(nil, opts...)
	scene.Update()

	s.mu.Lock()
	s.scene, s.input, s.sceneC, s.frames = scene, data, sceneCfg, 0
	s.mu.Unlock()

	s.logger.Info("scene loaded", "nodes", len(data.Nodes), "links", len(scene.Links()), "dag", sceneCfg.DAG.Mode)
	return nil
}

// step advances the live scene by one frame if it is running.
func (s *Server) step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene.State() == sim.Running {
		s.scene.TickFrame()
		s.frames++
	}
}

// withScene runs fn with the live scene locked.
func (s *Server) withScene(fn func(scene *forcegraph.ForceGraph, cfg *config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.scene, s.sceneC)
}

// Serve runs the HTTP server, the frame loop and the file watcher until ctx
// is cancelled. While serving, simulation and cache events are exported on
// /metrics.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting preview server", "addr", s.cfg.Addr, "fps", s.cfg.FPS)

	s.metrics.install()
	defer observability.Reset()

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.runFrames(egctx)
	})

	if len(s.cfg.WatchPaths) > 0 {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down preview server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) runFrames(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.cfg.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.step()
		}
	}
}

// watchFiles reloads the scene when a watched file is written. Directories
// are watched rather than files so editors that replace files on save are
// still seen.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool, len(s.cfg.WatchPaths))
	for _, p := range s.cfg.WatchPaths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			s.logger.Error("failed to watch", "path", p, "err", err)
		}
	}

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); !watched[abs] {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			name := event.Name
			debounce = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("file changed, reloading", "file", name)
				if err := s.reload(); err != nil {
					s.logger.Error("reload failed", "err", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "err", err)
		}
	}
}
