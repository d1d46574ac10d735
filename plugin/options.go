package plugin

import (
	"fmt"
	"log/slog"
	"os"

	"modsource/internal/logging"
)

// Options configures a Plugin.
type Options struct {
	// Debug enables a Record per rule match.
	Debug bool
	// Rules are evaluated in order; a rule's index is its identity.
	Rules []Rule

	// Reporters receive debug records. Defaults to a LineReporter on stdout.
	Reporters []Reporter
	// Registry defaults to DefaultRegistry.
	Registry *Registry
	Metrics  Metrics
	Logger   *slog.Logger
}

func (o Options) validate() error {
	if o.Rules == nil {
		return &ConfigError{Field: "rules", Msg: "must be set"}
	}
	for i, r := range o.Rules {
		if msg := r.Test.validate(); msg != "" {
			return &ConfigError{Field: fmt.Sprintf("rules[%d].test", i), Msg: msg}
		}
		if r.Modify == nil && r.ModifyContext == nil {
			return &ConfigError{Field: fmt.Sprintf("rules[%d].modify", i), Msg: "must be a function"}
		}
	}
	for i, rep := range o.Reporters {
		if rep == nil {
			return &ConfigError{Field: fmt.Sprintf("reporters[%d]", i), Msg: "is nil"}
		}
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = DefaultRegistry
	}
	if o.Metrics == nil {
		o.Metrics = nopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = logging.L()
	}
	if len(o.Reporters) == 0 {
		o.Reporters = []Reporter{NewLineReporter(os.Stdout)}
	}
	o.Rules = append([]Rule(nil), o.Rules...)
	return o
}
