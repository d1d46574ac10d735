package plugin

import (
	"strings"
	"sync"
)

type fakeModule struct {
	request string

	mu    sync.Mutex
	steps []Step
}

func (f *fakeModule) Request() string { return f.request }
func (f *fakeModule) AddStep(s Step) {
	f.mu.Lock()
	f.steps = append(f.steps, s)
	f.mu.Unlock()
}
func (f *fakeModule) indexes() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]int, len(f.steps))
	for i, s := range f.steps {
		out[i] = s.Options.RuleIndex
	}
	return out
}

type captureReporter struct {
	mu      sync.Mutex
	records []Record
}

func (c *captureReporter) Report(r Record) error {
	c.mu.Lock()
	c.records = append(c.records, r)
	c.mu.Unlock()
	return nil
}

func upper(src, _ string) (string, error) { return strings.ToUpper(src), nil }
func keep(src, _ string) (string, error)  { return src, nil }
