package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dalkommatt/ai-writer/internal/cache"
	"github.com/dalkommatt/ai-writer/internal/config"
	"github.com/dalkommatt/ai-writer/internal/remote"
	"github.com/dalkommatt/ai-writer/internal/scheduler"
	"github.com/dalkommatt/ai-writer/internal/session"
)

// openSession wires a full session from the config file: cache, remote store,
// scheduler. With no remote URL configured the session runs against an empty
// in-memory store, so startup reconciliation reduces to the local cache.
func openSession(ctx context.Context, opts *RootOptions) (*session.Session, func(), error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load config", err)
	}

	if dir := filepath.Dir(cfg.Cache.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "create cache directory", err)
		}
	}

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open session cache", err)
	}

	var store remote.Store
	if cfg.Remote.URL != "" {
		store = remote.NewHTTPStore(cfg.Remote.URL, cfg.Remote.APIKey, nil)
	} else {
		store = remote.NewMemoryStore()
	}

	sched := scheduler.New(store, c, scheduler.WithWindow(cfg.DebounceWindow()))

	sess := session.New(session.Config{
		Cache:     c,
		Store:     store,
		Scheduler: sched,
	})

	if err := sess.Start(ctx, ""); err != nil {
		c.Close()
		return nil, nil, WrapExitError(ExitFailure, "start session", err)
	}

	cleanup := func() {
		sess.Flush(ctx)
		sess.Close()
		c.Close()
	}
	return sess, cleanup, nil
}
