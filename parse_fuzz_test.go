package safeeval_test

import (
	"strings"
	"testing"

	"github.com/calcfront/safeeval"
)

func FuzzParse(f *testing.F) {
	f.Add("1 + 2*x")
	f.Add("sin(pi/2)")
	f.Add("lambda x, y: {x: (y,)}")
	f.Add("1.2.3")
	f.Add("((((((1))))))")
	f.Add("'it\\'s'")
	f.Add("a if b else c")
	f.Add("9" + strings.Repeat("+9", 300))
	f.Add("x" + strings.Repeat(".a", 200))
	f.Fuzz(func(t *testing.T, s string) {
		e, err := safeeval.Parse(s)
		if err != nil {
			return
		}
		// Formatting and name collection must not panic on any tree the
		// parser produces.
		_ = e.String()
		_ = e.Vars()
	})
}
