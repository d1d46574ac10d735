package plugin

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Registry maps a session token and rule index to the rule's transform. Each
// session installs its own table, so a late step from one session can never
// run another session's transforms.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string][]ContextModifyFunc
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string][]ContextModifyFunc)}
}

// DefaultRegistry serves hosts that execute steps in this process.
var DefaultRegistry = NewRegistry()

// Install replaces the table for session with the transforms of rules, keyed
// by position.
func (r *Registry) Install(session string, rules []Rule) {
	fns := make([]ContextModifyFunc, len(rules))
	for i, rule := range rules {
		fns[i] = rule.transform()
	}
	r.mu.Lock()
	r.sessions[session] = fns
	r.mu.Unlock()
}

// Release drops the table for session.
func (r *Registry) Release(session string) {
	r.mu.Lock()
	delete(r.sessions, session)
	r.mu.Unlock()
}

// Sessions returns the installed session tokens in sorted order.
func (r *Registry) Sessions() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Invoke applies the transform at index of session to source.
func (r *Registry) Invoke(session string, index int, source, path string) (string, error) {
	return r.InvokeContext(context.Background(), session, index, source, path)
}

// InvokeContext is Invoke with the caller's context passed to the transform.
func (r *Registry) InvokeContext(ctx context.Context, session string, index int, source, path string) (string, error) {
	r.mu.RLock()
	fns, ok := r.sessions[session]
	r.mu.RUnlock()
	if !ok {
		return "", &RegistryError{Kind: ErrUnknownSession, Session: session, RuleIndex: index}
	}
	if index < 0 || index >= len(fns) {
		return "", &RegistryError{Kind: ErrUnknownRule, Session: session, RuleIndex: index}
	}
	out, err := fns[index](ctx, source, path)
	if err != nil {
		return "", fmt.Errorf("rule %d on %q: %w", index, path, err)
	}
	return out, nil
}

// Load implements Loader for steps executed in this process.
func (r *Registry) Load(ctx context.Context, d Descriptor, source string) (string, error) {
	return r.InvokeContext(ctx, d.Session, d.RuleIndex, source, d.Path)
}
