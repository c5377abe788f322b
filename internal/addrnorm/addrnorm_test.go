package addrnorm

import "testing"

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("Normalize(\"\") = %q, want empty", got)
	}
	if got := Normalize("   "); got != "" {
		t.Errorf("Normalize(whitespace) = %q, want empty", got)
	}
}
