package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadRulesSpec_ParsesOrderedRules(t *testing.T) {
	p := writeFile(t, "rules.yml", `schema_version: v1
debug: true
rules:
  - name: upper
    test: { pattern: '\.txt$' }
    modify: { kind: uppercase }
  - test: { expr: 'module.path.startsWith("src/")' }
    modify:
      kind: replace
      args: { old: foo, new: bar }
`)
	cfg, err := LoadRulesSpec(p)
	if err != nil {
		t.Fatalf("LoadRulesSpec: %v", err)
	}
	if !cfg.Debug || len(cfg.Rules) != 2 {
		t.Fatalf("unexpected spec: %+v", cfg)
	}
	if cfg.Rules[0].Name != "upper" || cfg.Rules[1].Modify.Args["new"] != "bar" {
		t.Fatalf("rules out of order or incomplete: %+v", cfg.Rules)
	}
	if err := Validate(cfg, func(string) bool { return true }); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseRulesSpec_UnknownFieldRejected(t *testing.T) {
	_, err := ParseRulesSpec([]byte(`rules:
  - test: { pattern: 'a' }
    modify: { kind: uppercase }
    extra: true
`))
	if err == nil || !strings.Contains(err.Error(), "extra") {
		t.Fatalf("expected unknown field error naming extra, got %v", err)
	}
}

func TestParseRulesSpec_InvalidSchema(t *testing.T) {
	_, err := ParseRulesSpec([]byte("schema_version: v999\nrules: []\n"))
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "schema_version" {
		t.Fatalf("expected schema_version field error, got %v", err)
	}
}

func TestValidate_NamesOffendingField(t *testing.T) {
	cases := []struct {
		body  string
		field string
	}{
		{"debug: true\n", "rules"},
		{"rules:\n  - modify: { kind: uppercase }\n", "rules[0].test"},
		{"rules:\n  - test: { pattern: a, expr: 'true' }\n    modify: { kind: uppercase }\n", "rules[0].test"},
		{"rules:\n  - test: { pattern: a }\n    modify: { kind: uppercase }\n  - test: { pattern: '(' }\n    modify: { kind: uppercase }\n", "rules[1].test.pattern"},
		{"rules:\n  - test: { pattern: a }\n    modify: {}\n", "rules[0].modify.kind"},
		{"rules:\n  - test: { pattern: a }\n    modify: { kind: nope }\n", "rules[0].modify.kind"},
		{"rules:\n  - test: { pattern: a }\n    modify: { kind: grpc }\n", "rules[0].modify.address"},
	}
	known := func(k string) bool { return k != "nope" }
	for _, c := range cases {
		cfg, err := ParseRulesSpec([]byte(c.body))
		if err != nil {
			t.Fatalf("parse %q: %v", c.body, err)
		}
		err = Validate(cfg, known)
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Fatalf("%q: expected FieldError, got %v", c.body, err)
		}
		if fe.Field != c.field {
			t.Fatalf("%q: field = %s, want %s", c.body, fe.Field, c.field)
		}
	}
}
