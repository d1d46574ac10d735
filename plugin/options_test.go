package plugin

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

func TestNew_ValidationNamesField(t *testing.T) {
	cases := []struct {
		opts  Options
		field string
	}{
		{Options{}, "rules"},
		{Options{Rules: []Rule{{Modify: keep}}}, "rules[0].test"},
		{Options{Rules: []Rule{{Test: MustPattern("a"), Modify: keep}, {Test: Pattern(nil), Modify: keep}}}, "rules[1].test"},
		{Options{Rules: []Rule{{Test: Predicate(nil), Modify: keep}}}, "rules[0].test"},
		{Options{Rules: []Rule{{Test: MustPattern("a")}}}, "rules[0].modify"},
		{Options{Rules: []Rule{}, Reporters: []Reporter{nil}}, "reporters[0]"},
	}
	for _, c := range cases {
		_, err := New(c.opts)
		var ce *ConfigError
		if !errors.As(err, &ce) || !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
		if ce.Field != c.field {
			t.Fatalf("field = %q, want %q", ce.Field, c.field)
		}
	}
}

func TestNew_AcceptsContextTransform(t *testing.T) {
	_, err := New(Options{Rules: []Rule{{
		Test:          MustPattern("a"),
		ModifyContext: func(_ context.Context, src, _ string) (string, error) { return src, nil },
	}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestNew_CopiesRules(t *testing.T) {
	rules := []Rule{{Test: Pattern(regexp.MustCompile("a")), Modify: keep}}
	p, err := New(Options{Rules: rules})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rules[0].Modify = upper
	if got, _ := p.Rules()[0].Modify("x", ""); got != "x" {
		t.Fatal("plugin must not see later edits to the caller's slice")
	}
	if p.Registry() != DefaultRegistry {
		t.Fatal("expected DefaultRegistry when none is given")
	}
}
