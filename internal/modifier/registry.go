// Package modifier turns the modify block of a rules file into a
// plugin.ContextModifyFunc. Kinds register a Factory by name, like sinks do.
package modifier

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"modsource/internal/spec"
	"modsource/plugin"
)

// Factory builds the transform for one rule. The returned Closer may be nil.
type Factory func(spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error)

var (
	mu  sync.RWMutex
	reg = map[string]Factory{}
)

func Register(kind string, f Factory) {
	mu.Lock()
	reg[kind] = f
	mu.Unlock()
}

func Known(kind string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := reg[kind]
	return ok
}

func Kinds() []string {
	mu.RLock()
	out := make([]string, 0, len(reg))
	for k := range reg {
		out = append(out, k)
	}
	mu.RUnlock()
	slices.Sort(out)
	return out
}

func Build(s spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error) {
	mu.RLock()
	f, ok := reg[s.Kind]
	mu.RUnlock()
	if !ok {
		return nil, nil, fmt.Errorf("unknown modify kind %q", s.Kind)
	}
	return f(s)
}
