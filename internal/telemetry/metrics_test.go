package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counts(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ModuleObserved()
	m.ModuleObserved()
	m.ModuleSkipped()
	m.RuleMatched(0)
	m.RuleMatched(2)
	m.RuleMatched(2)
	m.Invocation("miss")

	if got := testutil.ToFloat64(m.observed); got != 2 {
		t.Fatalf("observed = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.skipped); got != 1 {
		t.Fatalf("skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.matches.WithLabelValues("2")); got != 2 {
		t.Fatalf("rule 2 matches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.invocations.WithLabelValues("miss")); got != 1 {
		t.Fatalf("miss invocations = %v, want 1", got)
	}
}
