package safeeval

// AngleMode selects the unit trigonometric functions work in. The zero value
// is Radians.
type AngleMode int8

const (
	// Radians evaluates trigonometric functions in radians.
	Radians AngleMode = iota
	// Degrees evaluates trigonometric functions on degree arguments, and
	// inverse trigonometric functions return degrees.
	Degrees
)

func (m AngleMode) String() string {
	if m == Degrees {
		return "deg"
	}
	return "rad"
}

// Option is an option used when creating a context.
type Option interface {
	ctxOption()
}

type (
	modeopt AngleMode
	varopt  struct {
		name string
		val  float64
	}
	varsopt  map[string]float64
	depthopt int
)

func (modeopt) ctxOption()  {}
func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (depthopt) ctxOption() {}

// Mode sets the angle mode of the context.
func Mode(m AngleMode) Option {
	return modeopt(m)
}

// SetVar sets the value of a variable in the context. Variables shadow the
// built-in constants of the same name.
func SetVar(name string, val float64) Option {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]float64) Option {
	return varsopt(vars)
}

// MaxDepth sets the nesting limit for evaluation. If n is not positive, the
// limit is DefaultMaxDepth.
func MaxDepth(n int) Option {
	return depthopt(n)
}
