package modifier

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"modsource/internal/spec"
	"modsource/plugin"
)

func simple(fn func(src string) string) Factory {
	return func(spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error) {
		return func(_ context.Context, src, _ string) (string, error) { return fn(src), nil }, nil, nil
	}
}

func arg(s spec.ModifySpec, name string) (string, error) {
	v, ok := s.Args[name]
	if !ok {
		return "", fmt.Errorf("%s: args.%s is required", s.Kind, name)
	}
	return v, nil
}

func textFactory(join func(text, src string) string) Factory {
	return func(s spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error) {
		text, err := arg(s, "text")
		if err != nil {
			return nil, nil, err
		}
		return func(_ context.Context, src, _ string) (string, error) { return join(text, src), nil }, nil, nil
	}
}

func replaceFactory(s spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error) {
	old, err := arg(s, "old")
	if err != nil {
		return nil, nil, err
	}
	if old == "" {
		return nil, nil, fmt.Errorf("replace: args.old must not be empty")
	}
	repl := s.Args["new"]
	return func(_ context.Context, src, _ string) (string, error) { return strings.ReplaceAll(src, old, repl), nil }, nil, nil
}

func regexReplaceFactory(s spec.ModifySpec) (plugin.ContextModifyFunc, io.Closer, error) {
	expr, err := arg(s, "pattern")
	if err != nil {
		return nil, nil, err
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, nil, fmt.Errorf("regex_replace: %w", err)
	}
	repl := s.Args["replacement"]
	return func(_ context.Context, src, _ string) (string, error) { return re.ReplaceAllString(src, repl), nil }, nil, nil
}

func init() {
	Register("uppercase", simple(strings.ToUpper))
	Register("lowercase", simple(strings.ToLower))
	Register("prepend", textFactory(func(text, src string) string { return text + src }))
	Register("append", textFactory(func(text, src string) string { return src + text }))
	Register("replace", replaceFactory)
	Register("regex_replace", regexReplaceFactory)
}
