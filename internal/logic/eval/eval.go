// internal/logic/eval/eval.go
package eval

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// Eval evaluates a breakpoint condition against per-step variables. An empty
// condition always matches.
func Eval(cond string, vars map[string]any) (bool, error) {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true, nil
	}

	if err := Validate(cond); err != nil {
		return false, err
	}

	program, err := expr.Compile(cond, expr.Env(vars), expr.AsBool())
	if err != nil {
		return false, fmt.Errorf("invalid condition: %w", err)
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return false, err
	}

	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("condition must evaluate to bool (got %T)", out)
	}

	return b, nil
}
