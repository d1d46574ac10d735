package plugin

import (
	"fmt"
	"log/slog"
	"sync"
)

// Session holds the dispatch state of one compilation.
type Session struct {
	id        string
	rules     []Rule
	debug     bool
	reporters []Reporter
	registry  *Registry
	metrics   Metrics
	logger    *slog.Logger

	mu         sync.Mutex
	dispatched map[string]struct{} // nil once closed
}

func (s *Session) ID() string { return s.id }

// Observe runs one dispatch pass for m. A canonical path is dispatched at most
// once per session; every matching rule appends a step, in rule order. A
// failing predicate aborts the pass before anything is appended.
func (s *Session) Observe(m Module) error {
	path := CanonicalPath(m.Request())

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dispatched == nil {
		return fmt.Errorf("%w: %s", ErrSessionClosed, s.id)
	}
	s.metrics.ModuleObserved()
	if _, ok := s.dispatched[path]; ok {
		s.metrics.ModuleSkipped()
		s.logger.Debug("module already dispatched", "path", path)
		return nil
	}

	var matched []int
	for i, r := range s.rules {
		ok, err := r.Matches(path, m)
		if err != nil {
			return &MatchError{Path: path, RuleIndex: i, Err: err}
		}
		if ok {
			matched = append(matched, i)
		}
	}

	for _, i := range matched {
		m.AddStep(Step{
			Loader:  LoaderEntryPoint,
			Options: Descriptor{Session: s.id, RuleIndex: i, Path: path},
		})
		s.metrics.RuleMatched(i)
		if s.debug {
			s.report(Record{Session: s.id, Path: path, RuleIndex: i, RuleName: s.rules[i].Name})
		}
	}
	s.dispatched[path] = struct{}{}
	return nil
}

// Dispatched reports whether path already had its dispatch pass.
func (s *Session) Dispatched(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dispatched[path]
	return ok
}

// Close releases the session's registry table and dispatch state. Steps that
// were not executed yet will fail with ErrUnknownSession.
func (s *Session) Close() {
	s.mu.Lock()
	if s.dispatched == nil {
		s.mu.Unlock()
		return
	}
	n := len(s.dispatched)
	s.dispatched = nil
	s.mu.Unlock()

	s.registry.Release(s.id)
	s.logger.Debug("session closed", "modules", n)
}

func (s *Session) report(r Record) {
	for _, rep := range s.reporters {
		if err := rep.Report(r); err != nil {
			s.logger.Warn("debug report failed", "path", r.Path, "err", err)
		}
	}
}
