package host

import (
	"fmt"
	"sync"

	"modsource/plugin"
)

type tap[F any] struct {
	name string
	fn   F
}

// Compiler announces compilations to the plugins tapped on it.
type Compiler struct {
	version string

	mu    sync.Mutex
	taps  []tap[func(plugin.Compilation) error]
	count int
}

func NewCompiler(version string) *Compiler { return &Compiler{version: version} }

func (c *Compiler) Version() string { return c.version }

func (c *Compiler) OnCompilation(name string, fn func(plugin.Compilation) error) {
	c.mu.Lock()
	c.taps = append(c.taps, tap[func(plugin.Compilation) error]{name, fn})
	c.mu.Unlock()
}

// Compile starts a compilation and runs the compilation taps in order.
func (c *Compiler) Compile() (*Compilation, error) {
	c.mu.Lock()
	c.count++
	comp := &Compilation{name: fmt.Sprintf("compilation-%d", c.count)}
	taps := append([]tap[func(plugin.Compilation) error](nil), c.taps...)
	c.mu.Unlock()

	for _, t := range taps {
		if err := t.fn(comp); err != nil {
			return nil, fmt.Errorf("compilation tap %s: %w", t.name, err)
		}
	}
	return comp, nil
}

// Compilation exposes both hook generations; which one a plugin taps depends
// on the compiler version it was applied to.
type Compilation struct {
	name string

	mu            sync.Mutex
	beforeLoaders []tap[plugin.ObserveFunc]
	moduleLoader  []tap[func(any, plugin.Module) error]
	done          []tap[func()]
	finished      bool
}

func (c *Compilation) Name() string { return c.name }

func (c *Compilation) OnBeforeLoaders(name string, fn plugin.ObserveFunc) {
	c.mu.Lock()
	c.beforeLoaders = append(c.beforeLoaders, tap[plugin.ObserveFunc]{name, fn})
	c.mu.Unlock()
}

func (c *Compilation) OnNormalModuleLoader(name string, fn func(any, plugin.Module) error) {
	c.mu.Lock()
	c.moduleLoader = append(c.moduleLoader, tap[func(any, plugin.Module) error]{name, fn})
	c.mu.Unlock()
}

func (c *Compilation) OnDone(name string, fn func()) {
	c.mu.Lock()
	c.done = append(c.done, tap[func()]{name, fn})
	c.mu.Unlock()
}

// HookTaps returns the tap names registered on each observation hook.
func (c *Compilation) HookTaps() (beforeLoaders, moduleLoader []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.beforeLoaders {
		beforeLoaders = append(beforeLoaders, t.name)
	}
	for _, t := range c.moduleLoader {
		moduleLoader = append(moduleLoader, t.name)
	}
	return beforeLoaders, moduleLoader
}

// Load announces m to every observation tap, pre-loader taps first. It is
// safe to call from several goroutines.
func (c *Compilation) Load(m *Module) error {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return fmt.Errorf("%s: already finished", c.name)
	}
	before := append([]tap[plugin.ObserveFunc](nil), c.beforeLoaders...)
	legacy := append([]tap[func(any, plugin.Module) error](nil), c.moduleLoader...)
	c.mu.Unlock()

	for _, t := range before {
		if err := t.fn(m); err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
	}
	for _, t := range legacy {
		if err := t.fn(nil, m); err != nil {
			return fmt.Errorf("%s: %w", t.name, err)
		}
	}
	return nil
}

// Finish runs the done taps once.
func (c *Compilation) Finish() {
	c.mu.Lock()
	if c.finished {
		c.mu.Unlock()
		return
	}
	c.finished = true
	done := c.done
	c.mu.Unlock()

	for _, t := range done {
		t.fn()
	}
}
