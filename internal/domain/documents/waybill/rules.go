package waybill

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// RuleEngine evaluates schema rules: CEL boolean expressions over the
// string variable `value`, e.g. `value.matches('^[A-Z]{3}-\\d+$')` or
// `size(value) <= 20`. Compiled programs are cached by expression.
type RuleEngine struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program
}

// NewRuleEngine creates an engine with the rule environment.
func NewRuleEngine() (*RuleEngine, error) {
	env, err := cel.NewEnv(cel.Variable("value", cel.StringType))
	if err != nil {
		return nil, fmt.Errorf("create rule environment: %w", err)
	}
	return &RuleEngine{env: env, programs: make(map[string]cel.Program)}, nil
}

// Compile checks that expr is a boolean expression.
func (e *RuleEngine) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

// Eval reports whether value satisfies expr.
func (e *RuleEngine) Eval(expr, value string) (bool, error) {
	prg, err := e.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(map[string]any{"value": value})
	if err != nil {
		return false, fmt.Errorf("evaluate rule %q: %w", expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("rule %q did not produce a bool", expr)
	}
	return ok, nil
}

func (e *RuleEngine) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, iss := e.env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expr, iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("rule %q must be boolean, got %s", expr, ast.OutputType())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build rule %q: %w", expr, err)
	}

	e.mu.Lock()
	e.programs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}
