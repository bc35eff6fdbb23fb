package cli

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forcegraph/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/xdg", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		t.Setenv("HOME", "/tmp/home")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/home", ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestResolveCacheDir(t *testing.T) {
	if got, _ := resolveCacheDir("/explicit"); got != "/explicit" {
		t.Errorf("resolveCacheDir(/explicit) = %q", got)
	}
}

func TestOpenFileCacheMissing(t *testing.T) {
	fc, err := openFileCache(filepath.Join(t.TempDir(), "absent"))
	if err != nil || fc != nil {
		t.Errorf("openFileCache(absent) = %v, %v; want nil, nil", fc, err)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := t.TempDir()
	store, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"cache", "clear", "--cache-dir", dir})
	if err := root.Execute(); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if _, hit, _ := store.Get(ctx, k); hit {
			t.Errorf("entry %q survived cache clear", k)
		}
	}
}

func TestNewCache(t *testing.T) {
	c := New(io.Discard, log.InfoLevel)
	cmd := c.RootCommand()
	cmd.SetContext(context.Background())

	store, err := c.newCache(cmd, cacheFlags{noCache: true})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("--no-cache store = %T, want *cache.NullCache", store)
	}

	store, err = c.newCache(cmd, cacheFlags{dir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*cache.FileCache); !ok {
		t.Errorf("--cache-dir store = %T, want *cache.FileCache", store)
	}
}
