package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"modsource/internal/config"
	"modsource/internal/pipeline"
	"modsource/internal/telemetry"
	"modsource/internal/transport"
	"modsource/plugin"
)

type Config struct {
	RulesPath string
	Runtime   config.Runtime
	Watch     bool
	Stdout    io.Writer // debug records; nil → os.Stdout
}

// New compiles the rules file without starting any listener.
func New(cfg Config) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		registry: plugin.NewRegistry(),
		release:  (*pipeline.Compiled).Close,
		live:     make(map[*pipeline.Compiled]int),
	}
	if err := e.Reload(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return e, nil
}

// Bootstrap builds a serving engine: rules, loader transport, metrics
// endpoint and, when asked, the rules watcher.
func Bootstrap(ctx context.Context, cfg Config) (*Engine, error) {
	// 1. rules
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}

	// 2. transport server
	srv, err := transport.StartServer(cfg.Runtime.GRPCPort, e.registry, telemetry.Default)
	if err != nil {
		e.shutdown()
		return nil, fmt.Errorf("transport: %w", err)
	}
	e.transport = srv

	// 3. metrics
	if cfg.Runtime.MetricsPort > 0 {
		telemetry.Expose(cfg.Runtime.MetricsPort)
	}

	// 4. rules watcher
	if cfg.Watch {
		w, err := config.NewWatcher(cfg.RulesPath, 100*time.Millisecond, e.reloadLogged)
		if err != nil {
			srv.Stop()
			e.shutdown()
			return nil, fmt.Errorf("watch: %w", err)
		}
		go w.Run(ctx)
	}
	return e, nil
}

func (e *Engine) settings() pipeline.Settings {
	return pipeline.Settings{
		Registry: e.registry,
		Metrics:  telemetry.Default,
		Kafka:    e.cfg.Runtime.Kafka,
		Stdout:   e.cfg.Stdout,
	}
}
