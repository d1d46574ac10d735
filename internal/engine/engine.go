package engine

import (
	"context"
	"errors"
	"sync"

	"modsource/host"
	"modsource/internal/logging"
	"modsource/internal/pipeline"
	"modsource/internal/transport"
	"modsource/plugin"
)

var ErrStopped = errors.New("engine stopped")

// Engine is the long-running registry host: it owns the sessions, so
// out-of-process loaders call back into it over gRPC.
type Engine struct {
	cfg       Config
	registry  *plugin.Registry
	transport *transport.Server

	// release closes a compiled rules file; swapped in tests.
	release func(*pipeline.Compiled) error

	mu       sync.Mutex
	compiled *pipeline.Compiled
	live     map[*pipeline.Compiled]int // open compilations per rules build
	held     []*host.Compilation        // kept open until shutdown
}

// Reload recompiles the rules file. Compilations already started keep the
// rules they were created with; the previous build is closed once the last
// of them finishes.
func (e *Engine) Reload() error {
	c, err := pipeline.Compile(e.cfg.RulesPath, e.settings())
	if err != nil {
		return err
	}
	e.mu.Lock()
	old := e.compiled
	e.compiled = c
	idle := old != nil && e.live[old] == 0
	e.mu.Unlock()

	if idle {
		e.closeBuild(old)
	}
	return nil
}

func (e *Engine) reloadLogged() {
	if err := e.Reload(); err != nil {
		logging.L().Error("rules reload failed, keeping previous rules", "path", e.cfg.RulesPath, "err", err)
		return
	}
	logging.L().Info("rules reloaded", "path", e.cfg.RulesPath)
}

// Begin starts a compilation with the current rules.
func (e *Engine) Begin() (*host.Compilation, error) {
	e.mu.Lock()
	c := e.compiled
	if c == nil {
		e.mu.Unlock()
		return nil, ErrStopped
	}
	e.live[c]++
	e.mu.Unlock()

	compiler := host.NewCompiler(e.cfg.Runtime.HostVersion)
	if err := c.Plugin.Apply(compiler); err != nil {
		e.finished(c)
		return nil, err
	}
	comp, err := compiler.Compile()
	if err != nil {
		e.finished(c)
		return nil, err
	}
	comp.OnDone("engine", func() { e.finished(c) })
	return comp, nil
}

// finished is called once per compilation started from c.
func (e *Engine) finished(c *pipeline.Compiled) {
	e.mu.Lock()
	e.live[c]--
	retired := e.live[c] <= 0 && c != e.compiled
	if e.live[c] <= 0 {
		delete(e.live, c)
	}
	e.mu.Unlock()

	if retired {
		e.closeBuild(c)
	}
}

// hold keeps comp open until the engine shuts down.
func (e *Engine) hold(comp *host.Compilation) {
	e.mu.Lock()
	e.held = append(e.held, comp)
	e.mu.Unlock()
}

func (e *Engine) closeBuild(c *pipeline.Compiled) {
	if err := e.release(c); err != nil {
		logging.L().Warn("closing retired rules failed", "path", e.cfg.RulesPath, "err", err)
	}
}

func (e *Engine) Registry() *plugin.Registry { return e.registry }

func (e *Engine) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		e.transport.Stop()
	}()
	err := e.transport.Serve()
	e.shutdown()
	return err
}

// shutdown finishes held compilations and closes the current rules build.
// Begin fails with ErrStopped afterwards.
func (e *Engine) shutdown() {
	e.mu.Lock()
	held := e.held
	e.held = nil
	e.mu.Unlock()
	for _, comp := range held {
		comp.Finish()
	}

	e.mu.Lock()
	c := e.compiled
	e.compiled = nil
	e.mu.Unlock()
	if c != nil {
		e.closeBuild(c)
	}
}
