package plugin

import (
	"context"
	"fmt"
	"regexp"
)

// ModifyFunc rewrites the source text of the module at path.
type ModifyFunc func(source, path string) (string, error)

// ContextModifyFunc is a ModifyFunc that stops when the load calling it is
// cancelled.
type ContextModifyFunc func(ctx context.Context, source, path string) (string, error)

// PredicateFunc decides whether a rule applies to a module.
type PredicateFunc func(Module) (bool, error)

type testKind uint8

const (
	testNone testKind = iota
	testPattern
	testPredicate
)

// Test is the matching half of a Rule. It is either a pattern applied to the
// canonical path or a predicate applied to the module handle, fixed when the
// Test is built.
type Test struct {
	kind      testKind
	pattern   *regexp.Regexp
	predicate PredicateFunc
}

// Pattern builds a Test that matches the canonical module path against re.
func Pattern(re *regexp.Regexp) Test {
	return Test{kind: testPattern, pattern: re}
}

// MustPattern is Pattern(regexp.MustCompile(expr)).
func MustPattern(expr string) Test {
	return Pattern(regexp.MustCompile(expr))
}

// Predicate builds a Test that calls fn with the module handle.
func Predicate(fn PredicateFunc) Test {
	return Test{kind: testPredicate, predicate: fn}
}

// Func adapts an infallible predicate.
func Func(fn func(Module) bool) Test {
	if fn == nil {
		return Predicate(nil)
	}
	return Predicate(func(m Module) (bool, error) { return fn(m), nil })
}

// IsZero reports whether the Test was never set.
func (t Test) IsZero() bool { return t.kind == testNone }

func (t Test) String() string {
	switch t.kind {
	case testPattern:
		if t.pattern == nil {
			return "pattern(<nil>)"
		}
		return fmt.Sprintf("pattern(/%s/)", t.pattern)
	case testPredicate:
		return "predicate"
	default:
		return "none"
	}
}

func (t Test) validate() string {
	switch t.kind {
	case testPattern:
		if t.pattern == nil {
			return "pattern is nil"
		}
	case testPredicate:
		if t.predicate == nil {
			return "predicate is nil"
		}
	default:
		return "must be a pattern or a predicate"
	}
	return ""
}

// Rule pairs a Test with the transform applied to matching modules. Its
// identity is its index in Options.Rules.
type Rule struct {
	// Name is optional and only used in logs.
	Name   string
	Test   Test
	Modify ModifyFunc
	// ModifyContext takes precedence over Modify when set.
	ModifyContext ContextModifyFunc
}

// transform returns the rule's transform in its context-aware form, or nil.
func (r Rule) transform() ContextModifyFunc {
	if r.ModifyContext != nil {
		return r.ModifyContext
	}
	if r.Modify == nil {
		return nil
	}
	fn := r.Modify
	return func(_ context.Context, source, path string) (string, error) { return fn(source, path) }
}

// Matches evaluates the rule against the canonical path and the module handle.
func (r Rule) Matches(path string, m Module) (bool, error) {
	switch r.Test.kind {
	case testPredicate:
		return r.Test.predicate(m)
	case testPattern:
		return r.Test.pattern.MatchString(path), nil
	default:
		return false, nil
	}
}
