package modifier

import (
	"context"
	"testing"

	"modsource/internal/spec"
	"modsource/plugin"
)

func build(t *testing.T, s spec.ModifySpec) plugin.ContextModifyFunc {
	t.Helper()
	fn, closer, err := Build(s)
	if err != nil {
		t.Fatalf("Build(%s): %v", s.Kind, err)
	}
	if closer != nil {
		t.Cleanup(func() { _ = closer.Close() })
	}
	return fn
}

func TestBuiltins(t *testing.T) {
	cases := []struct {
		spec spec.ModifySpec
		in   string
		want string
	}{
		{spec.ModifySpec{Kind: "uppercase"}, "abc", "ABC"},
		{spec.ModifySpec{Kind: "lowercase"}, "AbC", "abc"},
		{spec.ModifySpec{Kind: "prepend", Args: map[string]string{"text": "// gen\n"}}, "x", "// gen\nx"},
		{spec.ModifySpec{Kind: "append", Args: map[string]string{"text": ";"}}, "x", "x;"},
		{spec.ModifySpec{Kind: "replace", Args: map[string]string{"old": "foo", "new": "bar"}}, "foo foo", "bar bar"},
		{spec.ModifySpec{Kind: "regex_replace", Args: map[string]string{"pattern": `v(\d+)`, "replacement": "version-$1"}}, "v12", "version-12"},
	}
	for _, c := range cases {
		got, err := build(t, c.spec)(context.Background(), c.in, "p")
		if err != nil {
			t.Fatalf("%s: %v", c.spec.Kind, err)
		}
		if got != c.want {
			t.Fatalf("%s: got %q, want %q", c.spec.Kind, got, c.want)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	bad := []spec.ModifySpec{
		{Kind: "nope"},
		{Kind: "prepend"},
		{Kind: "replace", Args: map[string]string{"old": ""}},
		{Kind: "regex_replace", Args: map[string]string{"pattern": "("}},
	}
	for _, s := range bad {
		if _, _, err := Build(s); err == nil {
			t.Fatalf("expected error for %+v", s)
		}
	}
}

func TestKinds_IncludesGRPC(t *testing.T) {
	if !Known("grpc") || !Known("uppercase") || Known("nope") {
		t.Fatalf("unexpected kinds: %v", Kinds())
	}
}
