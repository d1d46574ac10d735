package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"modsource/internal/spec"
)

const SupportedSchema = "v1"

// FieldError names the rules-file field that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return fmt.Sprintf("%s: %v", e.Field, e.Err) }
func (e *FieldError) Unwrap() error { return e.Err }

// KindChecker reports whether a modify kind is registered.
type KindChecker func(kind string) bool

// LoadRulesSpec parses a rules YAML file, rejects unknown keys and checks
// schema_version.
func LoadRulesSpec(path string) (spec.File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return spec.File{}, err
	}
	return ParseRulesSpec(raw)
}

func ParseRulesSpec(raw []byte) (spec.File, error) {
	var cfg spec.File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, err
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = SupportedSchema
	}
	if cfg.SchemaVersion != SupportedSchema {
		return cfg, &FieldError{
			Field: "schema_version",
			Err:   fmt.Errorf("%q not supported (want %q)", cfg.SchemaVersion, SupportedSchema),
		}
	}
	return cfg, nil
}

// Validate checks the parts of a rules file that do not need compiling
// predicates. known may be nil to skip the modify kind check.
func Validate(f spec.File, known KindChecker) error {
	if f.Rules == nil {
		return &FieldError{Field: "rules", Err: errors.New("required")}
	}
	for i, r := range f.Rules {
		field := func(name string) string { return fmt.Sprintf("rules[%d].%s", i, name) }
		switch {
		case r.Test.Pattern == "" && r.Test.Expr == "":
			return &FieldError{Field: field("test"), Err: errors.New("one of pattern or expr is required")}
		case r.Test.Pattern != "" && r.Test.Expr != "":
			return &FieldError{Field: field("test"), Err: errors.New("pattern and expr are mutually exclusive")}
		case r.Test.Pattern != "":
			if _, err := regexp.Compile(r.Test.Pattern); err != nil {
				return &FieldError{Field: field("test.pattern"), Err: err}
			}
		}
		if r.Modify.Kind == "" {
			return &FieldError{Field: field("modify.kind"), Err: errors.New("required")}
		}
		if known != nil && !known(r.Modify.Kind) {
			return &FieldError{Field: field("modify.kind"), Err: fmt.Errorf("unknown kind %q", r.Modify.Kind)}
		}
		if r.Modify.Kind == "grpc" && r.Modify.Address == "" {
			return &FieldError{Field: field("modify.address"), Err: errors.New("required for grpc")}
		}
	}
	return nil
}
