package eval

import (
	"testing"
)

func vars() map[string]any {
	return map[string]any{
		"index":     3,
		"node_id":   7,
		"result":    "allow",
		"error":     "",
		"has_error": false,
	}
}

func TestEval(t *testing.T) {
	cases := []struct {
		name    string
		cond    string
		want    bool
		wantErr bool
	}{
		{"empty matches everything", "", true, false},
		{"comparison true", "index >= 3", true, false},
		{"comparison false", "node_id == 8", false, false},
		{"boolean logic", `result == "allow" and not has_error`, true, false},
		{"flag variable", "has_error", false, false},
		{"non-bool result", "index + 1", false, true},
		{"unknown variable", "nope > 1", false, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Eval(tc.cond, vars())
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Eval(%q) expected error, got %t", tc.cond, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Eval(%q): %v", tc.cond, err)
			}
			if got != tc.want {
				t.Fatalf("Eval(%q) = %t, want %t", tc.cond, got, tc.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	ok := []string{
		"",
		"   ",
		"index > 2",
		`error != "" or node_id == 1`,
	}
	for _, cond := range ok {
		if err := Validate(cond); err != nil {
			t.Fatalf("Validate(%q): %v", cond, err)
		}
	}

	bad := []string{
		"steps[0]",
		"a; b",
		"result.length",
		`exec("rm -rf /")`,
		"has_error ()",
		"x ? 1 : 2",
	}
	for _, cond := range bad {
		if err := Validate(cond); err == nil {
			t.Fatalf("Validate(%q) accepted", cond)
		}
	}
}
