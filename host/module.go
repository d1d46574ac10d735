package host

import (
	"sync"

	"modsource/plugin"
)

// Module is a host module with an ordered list of pending steps.
type Module struct {
	request string

	mu    sync.Mutex
	steps []plugin.Step
}

// NewModule returns a module for the raw request with steps already pending.
func NewModule(request string, steps ...plugin.Step) *Module {
	return &Module{request: request, steps: append([]plugin.Step(nil), steps...)}
}

func (m *Module) Request() string { return m.request }

func (m *Module) AddStep(s plugin.Step) {
	m.mu.Lock()
	m.steps = append(m.steps, s)
	m.mu.Unlock()
}

// Steps returns a snapshot of the pending steps.
func (m *Module) Steps() []plugin.Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]plugin.Step(nil), m.steps...)
}
