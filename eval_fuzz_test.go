package safeeval_test

import (
	"math"
	"testing"

	"github.com/calcfront/safeeval"
)

func FuzzEval(f *testing.F) {
	f.Add("1/0")
	f.Add("sin(x)")
	f.Add("2**-1074")
	f.Add("2**10000")
	f.Add("'a' < [1]")
	f.Add("factorial(170)")
	f.Fuzz(func(t *testing.T, s string) {
		r, err := safeeval.EvalString(s, safeeval.SetVar("x", 0.5))
		if err == nil && (math.IsNaN(r) || math.IsInf(r, 0)) {
			t.Errorf("%q evaluated to %g without error", s, r)
		}
	})
}
