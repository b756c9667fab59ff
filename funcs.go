package safeeval

import "math"

// Func is a function callable from an expression. The functions available to
// an evaluation are fixed by its context; there is no way for an expression
// to name a function outside that set.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. The result must be finite; arguments for which the
	// function has no finite result are reported with a *DomainError.
	Call(args []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

type monadic struct {
	name string
	f    func(float64) float64
}

func (m monadic) Call(args []float64) (float64, error) {
	r := m.f(args[0])
	if !isFinite(r) {
		return 0, &DomainError{X: args[0], Func: m.name}
	}
	return r, nil
}

func (m monadic) CanCall(n int) bool { return n == 1 }

// Monadic wraps a function of one variable into a Func. The wrapper reports a
// *DomainError whenever f's result is not finite, so f need not guard its own
// domain.
func Monadic(name string, f func(float64) float64) Func {
	return monadic{name, f}
}

type dyadic struct {
	name string
	f    func(x, y float64) float64
}

func (d dyadic) Call(args []float64) (float64, error) {
	r := d.f(args[0], args[1])
	if !isFinite(r) {
		return 0, &DomainError{X: args[0], Func: d.name}
	}
	return r, nil
}

func (d dyadic) CanCall(n int) bool { return n == 2 }

// Dyadic wraps a function of two variables into a Func, with the same domain
// guard as Monadic.
func Dyadic(name string, f func(x, y float64) float64) Func {
	return dyadic{name, f}
}

type factorialFunc struct{}

func (factorialFunc) CanCall(n int) bool { return n == 1 }

func (factorialFunc) Call(args []float64) (float64, error) {
	x := args[0]
	if x != math.Trunc(x) {
		return 0, &DomainError{X: x, Func: "factorial", Reason: "argument must be a whole number"}
	}
	if x < 0 {
		return 0, &DomainError{X: x, Func: "factorial", Reason: "argument must not be negative"}
	}
	if x > 170 {
		// 171! does not fit in a float64.
		return 0, &DomainError{X: x, Func: "factorial", Reason: "result too large"}
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r, nil
}

// funcsFor builds the function table for an angle mode. In Degrees mode the
// trigonometric functions take degree arguments and their inverses return
// degrees; every other function is identical in both modes.
func funcsFor(mode AngleMode) map[string]Func {
	sin, cos, tan := math.Sin, math.Cos, math.Tan
	asin, acos, atan := math.Asin, math.Acos, math.Atan
	if mode == Degrees {
		sin = func(x float64) float64 { return math.Sin(radians(x)) }
		cos = func(x float64) float64 { return math.Cos(radians(x)) }
		tan = func(x float64) float64 { return math.Tan(radians(x)) }
		asin = func(x float64) float64 { return degrees(math.Asin(x)) }
		acos = func(x float64) float64 { return degrees(math.Acos(x)) }
		atan = func(x float64) float64 { return degrees(math.Atan(x)) }
	}
	return map[string]Func{
		// rounding and elementary helpers
		"sqrt":      Monadic("sqrt", math.Sqrt),
		"abs":       Monadic("abs", math.Abs),
		"round":     Monadic("round", math.RoundToEven),
		"floor":     Monadic("floor", math.Floor),
		"ceil":      Monadic("ceil", math.Ceil),
		"factorial": factorialFunc{},
		"fact":      factorialFunc{},
		"pow":       Dyadic("pow", math.Pow),

		// exponentials and logarithms
		"exp":  Monadic("exp", math.Exp),
		"ln":   Monadic("ln", math.Log),
		"log":  Monadic("log", math.Log10),
		"log2": Monadic("log2", math.Log2),

		// trig, honoring the angle mode
		"sin":  Monadic("sin", sin),
		"cos":  Monadic("cos", cos),
		"tan":  Monadic("tan", tan),
		"asin": Monadic("asin", asin),
		"acos": Monadic("acos", acos),
		"atan": Monadic("atan", atan),

		// hyperbolic, always in natural units
		"sinh": Monadic("sinh", math.Sinh),
		"cosh": Monadic("cosh", math.Cosh),
		"tanh": Monadic("tanh", math.Tanh),

		// special
		"gamma": Monadic("gamma", math.Gamma),
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// baseNames returns the constants every evaluation can refer to. Values bound
// by options shadow these.
func baseNames() map[string]float64 {
	return map[string]float64{
		"pi": math.Pi,
		"e":  math.E,
	}
}
