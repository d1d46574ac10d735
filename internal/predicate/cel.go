// Package predicate compiles CEL expressions into plugin predicates. An
// expression sees one variable, `module`, a map with the keys request (raw
// request), path (canonical path), base and ext.
package predicate

import (
	"errors"
	"fmt"
	pathpkg "path"

	"github.com/google/cel-go/cel"

	"modsource/plugin"
)

var ErrNotBool = errors.New("expression must evaluate to bool")

type Compiler struct {
	env *cel.Env
}

func NewCompiler() (*Compiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("module", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Compiler{env: env}, nil
}

// Compile type-checks expr once and returns a predicate evaluating it per
// module.
func (c *Compiler) Compile(expr string) (plugin.PredicateFunc, error) {
	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w, got %s", ErrNotBool, ast.OutputType())
	}
	program, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program: %w", err)
	}

	return func(m plugin.Module) (bool, error) {
		out, _, err := program.Eval(map[string]any{"module": Attributes(m)})
		if err != nil {
			return false, err
		}
		b, ok := out.Value().(bool)
		if !ok {
			return false, fmt.Errorf("%w, got %T", ErrNotBool, out.Value())
		}
		return b, nil
	}, nil
}

// Attributes are the values bound to `module`.
func Attributes(m plugin.Module) map[string]string {
	p := plugin.CanonicalPath(m.Request())
	return map[string]string{
		"request": m.Request(),
		"path":    p,
		"base":    pathpkg.Base(p),
		"ext":     pathpkg.Ext(p),
	}
}
