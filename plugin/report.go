package plugin

import (
	"fmt"
	"io"
	"sync"
)

// Record is emitted for every rule match while debug mode is on.
type Record struct {
	Session   string `msgpack:"session"`
	Path      string `msgpack:"path"`
	RuleIndex int    `msgpack:"rule_index"`
	RuleName  string `msgpack:"rule_name,omitempty"`
}

func (r Record) String() string {
	return fmt.Sprintf("[%s] Add loader for module %s at index %d.", Name, r.Path, r.RuleIndex)
}

// Reporter receives debug records.
type Reporter interface {
	Report(Record) error
}

// LineReporter writes one Record.String line per record.
type LineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineReporter(w io.Writer) *LineReporter { return &LineReporter{w: w} }

func (l *LineReporter) Report(r Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintln(l.w, r.String())
	return err
}

// Metrics counts dispatch activity. All methods must be safe for concurrent use.
type Metrics interface {
	ModuleObserved()
	ModuleSkipped()
	RuleMatched(ruleIndex int)
}

type nopMetrics struct{}

func (nopMetrics) ModuleObserved() {}
func (nopMetrics) ModuleSkipped()  {}
func (nopMetrics) RuleMatched(int) {}
