package eval

import (
	"fmt"
	"strings"
	"unicode"
)

// Validate restricts breakpoint conditions to comparisons and boolean logic
// over the step variables: no dot access, no indexing, no function calls.
// Validation happens once when the breakpoint is set, not on every step.
func Validate(cond string) error {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return nil
	}

	for _, ch := range cond {
		if strings.ContainsRune("{}[];:?@#$\\", ch) {
			return fmt.Errorf("illegal character %q", ch)
		}
	}

	if strings.Contains(cond, ".") {
		return fmt.Errorf("dot access is not allowed")
	}

	// reject ident( so conditions stay side-effect free
	var ident strings.Builder
	for _, r := range cond {
		switch {
		case unicode.IsLetter(r) || r == '_' || (ident.Len() > 0 && unicode.IsDigit(r)):
			ident.WriteRune(r)
		case r == '(' && ident.Len() > 0:
			return fmt.Errorf("function calls are not allowed (found %q(...))", ident.String())
		case unicode.IsSpace(r):
			// keep the pending identifier; "has_error (" is still a call
		default:
			ident.Reset()
		}
	}

	return nil
}
