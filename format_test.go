package safeeval

import (
	"math"
	"strconv"
	"testing"
)

func TestFormat(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		want string
	}{
		{"int", 4, "4"},
		{"negint", -4, "-4"},
		{"zero", 0, "0"},
		{"negzero", math.Copysign(0, -1), "0"},
		{"half", 0.5, "0.5"},
		{"neghalf", -0.5, "-0.5"},
		{"intreal", 1024, "1024"},
		{"bigint", 1e16, "10000000000000000"},
		{"hugeint", 1.2089258196146292e24, "1208925819614629200000000"},
		{"pi", math.Pi, "3.141592654"},
		{"twothirds", float64(2) / 3, "0.6666666667"},
		{"third", float64(1) / 3, "0.3333333333"},
		{"roundoff", 0.30000000000000004, "0.3"},
		{"small", 1.23e-5, "1.23e-05"},
		{"negexp", -1e-7, "-1e-07"},
		{"bignonint", 123456789012.34, "1.23456789e+11"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "+Inf"},
		{"neginf", math.Inf(-1), "-Inf"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Format(c.v); got != c.want {
				t.Errorf("Format(%g) = %q, want %q", c.v, got, c.want)
			}
		})
	}
}

func TestFormatStable(t *testing.T) {
	// A displayed value parses back to a number which displays identically.
	for _, v := range []float64{0, 4, -4, 0.5, math.Pi, float64(2) / 3, 1e16, 1.23e-5} {
		s := Format(v)
		back, err := strconv.ParseFloat(s, 64)
		if err != nil {
			t.Fatalf("Format(%g) = %q does not parse: %v", v, s, err)
		}
		if again := Format(back); again != s {
			t.Errorf("Format(%g) = %q, but redisplaying gives %q", v, s, again)
		}
	}
}
