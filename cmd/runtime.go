package cmd

import (
	"context"
	"fmt"

	"github.com/agrovision/academy/internal/academy"
	"github.com/agrovision/academy/internal/catalog"
	"github.com/agrovision/academy/internal/config"
	"github.com/agrovision/academy/internal/logger"
	"github.com/agrovision/academy/internal/store"
	"github.com/spf13/cobra"
)

// runtime bundles the engine with the resources it was built from.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	engine  *academy.Engine
	closers []func() error
}

// Close releases the store and flushes the logger.
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			r.log.Warn("close failed", "error", err)
		}
	}
	r.log.Sync()
}

// openRuntime loads config, opens the configured store and builds the
// engine. Under the TUI, logs go to log.file or nowhere.
func openRuntime(cmd *cobra.Command, tui bool) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.Store.Backend = b
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := newLogger(cfg.Log, tui)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	rt := &runtime{cfg: cfg, log: log}

	opts := academy.Options{
		Logger:       log,
		AdvanceDelay: cfg.Academy.AdvanceDelay,
	}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		dbPath, err := resolveDBPath(cmd, cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		rt.closers = append(rt.closers, st.Close)
		opts.KV = st.KV()
		opts.Events = st.EventRepo()
		log.Debug("store opened", "backend", "sqlite", "path", dbPath)

	case config.BackendRedis:
		kv, err := store.OpenRedis(ctx, cfg.Store.RedisURL, cfg.Store.KeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		rt.closers = append(rt.closers, kv.Close)
		opts.KV = kv
		opts.Events = kv.EventRepo()
		log.Debug("store opened", "backend", "redis", "prefix", cfg.Store.KeyPrefix)

	case config.BackendMemory:
		opts.KV = store.NewMemoryKV()
		opts.Events = store.NewMemoryEventRepo()
	}

	t, err := catalog.LoadTranslations(cfg.Academy.TranslationsDir, cfg.Academy.Language)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("load translations: %w", err)
	}
	opts.Translations = t

	rt.engine, err = academy.New(ctx, opts)
	if err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

func newLogger(cfg config.LogConfig, tui bool) (*logger.Logger, error) {
	switch {
	case cfg.File != "":
		return logger.New(cfg.Mode, cfg.File)
	case tui:
		return logger.Nop(), nil
	default:
		return logger.New(cfg.Mode)
	}
}
