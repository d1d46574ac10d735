package pipeline

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"modsource/internal/config"
	"modsource/internal/modifier"
	"modsource/internal/predicate"
	"modsource/internal/spec"
	"modsource/plugin"
	"modsource/sink"
	"modsource/sink/kafka"
	"modsource/sink/stdout"
)

// Settings carries what a rules file cannot express.
type Settings struct {
	Registry *plugin.Registry
	Metrics  plugin.Metrics
	Kafka    kafka.Config
	Stdout   io.Writer // nil → os.Stdout
}

// Compiled is a plugin built from a rules file together with the resources
// its transforms and reporters hold open.
type Compiled struct {
	Plugin *plugin.Plugin
	Spec   spec.File

	closers []io.Closer
}

func (c *Compiled) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Compile loads, validates and builds the rules file at path.
func Compile(path string, s Settings) (*Compiled, error) {
	f, err := config.LoadRulesSpec(path)
	if err != nil {
		return nil, err
	}
	return Build(f, s)
}

func Build(f spec.File, s Settings) (*Compiled, error) {
	if err := config.Validate(f, modifier.Known); err != nil {
		return nil, err
	}
	out := &Compiled{Spec: f}
	fail := func(err error) (*Compiled, error) {
		_ = out.Close()
		return nil, err
	}

	var (
		exprs *predicate.Compiler
		err   error
	)
	rules := make([]plugin.Rule, 0, len(f.Rules))
	for i, rs := range f.Rules {
		var test plugin.Test
		switch {
		case rs.Test.Expr != "":
			if exprs == nil {
				if exprs, err = predicate.NewCompiler(); err != nil {
					return fail(err)
				}
			}
			pred, err := exprs.Compile(rs.Test.Expr)
			if err != nil {
				return fail(&config.FieldError{Field: fmt.Sprintf("rules[%d].test.expr", i), Err: err})
			}
			test = plugin.Predicate(pred)
		default:
			test = plugin.Pattern(regexp.MustCompile(rs.Test.Pattern))
		}

		fn, closer, err := modifier.Build(rs.Modify)
		if err != nil {
			return fail(&config.FieldError{Field: fmt.Sprintf("rules[%d].modify", i), Err: err})
		}
		if closer != nil {
			out.closers = append(out.closers, closer)
		}
		rules = append(rules, plugin.Rule{Name: rs.Name, Test: test, ModifyContext: fn})
	}

	reporters, err := out.reporters(f.Reporters, s)
	if err != nil {
		return fail(err)
	}

	p, err := plugin.New(plugin.Options{
		Debug:     f.Debug,
		Rules:     rules,
		Reporters: reporters,
		Registry:  s.Registry,
		Metrics:   s.Metrics,
	})
	if err != nil {
		return fail(err)
	}
	out.Plugin = p
	return out, nil
}

func (c *Compiled) reporters(names []string, s Settings) ([]plugin.Reporter, error) {
	if len(names) == 0 {
		names = []string{"stdout"}
	}
	out := make([]plugin.Reporter, 0, len(names))
	for i, name := range names {
		a, err := sink.NewAdapter(name)
		if err != nil {
			return nil, &config.FieldError{Field: fmt.Sprintf("reporters[%d]", i), Err: err}
		}
		switch name {
		case "stdout":
			err = a.Configure(stdout.Config{Out: s.Stdout})
		case "kafka":
			err = a.Configure(s.Kafka)
		default:
			err = fmt.Errorf("no config block for sink %q", name)
		}
		if err != nil {
			return nil, &config.FieldError{Field: fmt.Sprintf("reporters[%d]", i), Err: err}
		}
		c.closers = append(c.closers, a)
		out = append(out, a)
	}
	return out, nil
}
