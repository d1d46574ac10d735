package spec

// TestSpec selects a rule's matching form. Exactly one field must be set.
type TestSpec struct {
	Pattern string `yaml:"pattern"` // regular expression on the canonical path
	Expr    string `yaml:"expr"`    // CEL expression over `module`
}

type ModifySpec struct {
	Kind string            `yaml:"kind"` // "uppercase", "replace", "grpc", ...
	Args map[string]string `yaml:"args"`

	// grpc only
	Address     string `yaml:"address"`
	TimeoutMS   int    `yaml:"timeout_ms"`
	RetryPolicy struct {
		Attempts  int `yaml:"attempts"`
		BackoffMS int `yaml:"backoff_ms"`
	} `yaml:"retry_policy"`
}

type RuleSpec struct {
	Name   string     `yaml:"name"`
	Test   TestSpec   `yaml:"test"`
	Modify ModifySpec `yaml:"modify"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`
	Debug         bool   `yaml:"debug"`

	// Reporters receiving debug records, by sink name. Defaults to [stdout].
	Reporters []string `yaml:"reporters"`

	// Ordered; a rule's index is its identity on the loader side.
	Rules []RuleSpec `yaml:"rules"`
}
