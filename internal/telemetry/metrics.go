package telemetry

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements plugin.Metrics and counts loader invocations.
type Metrics struct {
	observed    prometheus.Counter
	skipped     prometheus.Counter
	matches     *prometheus.CounterVec
	invocations *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		observed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "modsource",
			Name:      "modules_observed_total",
			Help:      "Module observations delivered by the host.",
		}),
		skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "modsource",
			Name:      "modules_skipped_total",
			Help:      "Observations of modules already dispatched in their session.",
		}),
		matches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modsource",
			Name:      "rule_matches_total",
			Help:      "Steps appended, by rule index.",
		}, []string{"rule"}),
		invocations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modsource",
			Name:      "invocations_total",
			Help:      "Registry invocations by outcome (ok, miss, error).",
		}, []string{"outcome"}),
	}
}

// Default is registered with the default prometheus registry.
var Default = NewMetrics(prometheus.DefaultRegisterer)

func (m *Metrics) ModuleObserved() { m.observed.Inc() }
func (m *Metrics) ModuleSkipped()  { m.skipped.Inc() }
func (m *Metrics) RuleMatched(ruleIndex int) {
	m.matches.WithLabelValues(strconv.Itoa(ruleIndex)).Inc()
}
func (m *Metrics) Invocation(outcome string) { m.invocations.WithLabelValues(outcome).Inc() }

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
