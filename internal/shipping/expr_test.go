package shipping

import "testing"

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"40+3*5", 55},
		{"(40+3)*5", 215},
		{"100/4", 25},
		{"  10 + 2.5 ", 12.5},
		{"-5+10", 5},
		{"2*(3+(4-1))", 12},
	}
	for _, tc := range cases {
		got, err := evalArithmetic(tc.expr)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tc.expr, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %v, got %v", tc.expr, tc.want, got)
		}
	}
}

func TestEvalArithmeticRejectsGarbage(t *testing.T) {
	for _, expr := range []string{"", "abc", "1+;2", "2**3", "(1+2", "1+2)", "os.exit(1)", "10/0"} {
		if _, err := evalArithmetic(expr); err == nil {
			t.Fatalf("%q: expected error", expr)
		}
	}
}
