package safeeval

import (
	"math"
	"strconv"
)

// DefaultMaxDepth is the nesting limit applied to parsing and, unless
// overridden with MaxDepth, to evaluation.
const DefaultMaxDepth = 100

// Context is a context for evaluating expressions: an angle mode, the names
// an expression may refer to, and the functions it may call. A Context is
// read-only during evaluation, so a single Context may evaluate any number of
// expressions concurrently.
type Context struct {
	mode     AngleMode
	names    map[string]float64
	funcs    map[string]Func
	maxDepth int
}

// NewContext creates a new evaluation context. Without options, the context
// is in Radians mode and binds only the constants pi and e.
func NewContext(opts ...Option) *Context {
	ctx := Context{
		names:    baseNames(),
		funcs:    funcsFor(Radians),
		maxDepth: DefaultMaxDepth,
	}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...Option) *Context {
	n := Context{
		mode:     ctx.mode,
		names:    make(map[string]float64, len(ctx.names)),
		funcs:    ctx.funcs,
		maxDepth: ctx.maxDepth,
	}
	for k, v := range ctx.names {
		n.names[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case modeopt:
			n.mode = AngleMode(opt)
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		case depthopt:
			if opt > 0 {
				n.maxDepth = int(opt)
			} else {
				n.maxDepth = DefaultMaxDepth
			}
		default:
			panic("safeeval: unknown option type")
		}
	}
	if n.funcs == nil || n.mode != ctx.mode {
		n.funcs = funcsFor(n.mode)
	}
	return &n
}

// Mode returns the angle mode of the context.
func (ctx *Context) Mode() AngleMode {
	return ctx.mode
}

// Lookup returns the value of a name in the context and whether it is bound.
func (ctx *Context) Lookup(name string) (float64, bool) {
	v, ok := ctx.names[name]
	return v, ok
}

// Eval evaluates an expression and returns its result. The result is always a
// finite number; any operation without a finite result reports an error
// implementing EvalError instead.
func (ctx *Context) Eval(e *Expr) (float64, error) {
	return e.n.eval(ctx, 0)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...Option) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewContext(opts...).Eval(e)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// eval computes the node's value. depth is the node's distance from the root,
// checked against the context's nesting limit.
func (n *node) eval(ctx *Context, depth int) (float64, error) {
	if depth >= ctx.maxDepth {
		return 0, &TooComplexError{Limit: ctx.maxDepth}
	}
	switch n.kind {
	case nodeNum:
		return n.val, nil
	case nodeStr:
		return 0, &TypeError{Literal: n.text}
	case nodeName:
		v, ok := ctx.names[n.text]
		if !ok {
			return 0, &UnknownNameError{Name: n.text}
		}
		if !isFinite(v) {
			return 0, &DomainError{X: v, Func: n.text, Reason: "bound value is not finite"}
		}
		return v, nil
	case nodeUnary:
		x, err := n.left.eval(ctx, depth+1)
		if err != nil {
			return 0, err
		}
		switch n.text {
		case "+":
			return x, nil
		case "-":
			return -x, nil
		}
		return 0, &ForbiddenOperatorError{Operator: n.text, Unary: true}
	case nodeBinary:
		l, err := n.left.eval(ctx, depth+1)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(ctx, depth+1)
		if err != nil {
			return 0, err
		}
		return binaryOp(n.text, l, r)
	case nodeCall:
		return n.evalcall(ctx, depth)
	case nodeCompare, nodeBoolOp, nodeCond, nodeLambda, nodeAttr, nodeIndex,
		nodeTuple, nodeList, nodeSet, nodeDict, nodeAssign:
		// Refused without evaluating operands, so no part of such an
		// expression ever runs.
		return 0, &ForbiddenConstructError{Construct: constructName(n.kind)}
	default:
		panic("safeeval: invalid AST node " + n.kind.String())
	}
}

// binaryOp applies an arithmetic operator. Operators outside the allowed set
// report *ForbiddenOperatorError; allowed operators guard their domains.
func binaryOp(op string, l, r float64) (float64, error) {
	var v float64
	switch op {
	case "+":
		v = l + r
	case "-":
		v = l - r
	case "*":
		v = l * r
	case "/":
		if r == 0 {
			return 0, &DivisionByZeroError{Op: op}
		}
		v = l / r
	case "//":
		if r == 0 {
			return 0, &DivisionByZeroError{Op: op}
		}
		v = math.Floor(l / r)
	case "%":
		if r == 0 {
			return 0, &DivisionByZeroError{Op: op}
		}
		// The result takes the sign of the dividend.
		v = math.Mod(l, r)
	case "**":
		if l == 0 && r < 0 {
			return 0, &DivisionByZeroError{Op: op}
		}
		v = math.Pow(l, r)
	default:
		return 0, &ForbiddenOperatorError{Operator: op}
	}
	if !isFinite(v) {
		return 0, &DomainError{X: l, Func: op}
	}
	return v, nil
}

func (n *node) evalcall(ctx *Context, depth int) (float64, error) {
	callee := n.left
	if callee.kind != nodeName {
		return 0, &ForbiddenFunctionError{}
	}
	fn := ctx.funcs[callee.text]
	if fn == nil {
		return 0, &ForbiddenFunctionError{Func: callee.text}
	}
	args := make([]float64, len(n.args))
	for i, a := range n.args {
		v, err := a.eval(ctx, depth+1)
		if err != nil {
			return 0, err
		}
		args[i] = v
	}
	if !fn.CanCall(len(args)) {
		what := " arguments"
		if len(args) == 1 {
			what = " argument"
		}
		return 0, &DomainError{Func: callee.text, Reason: "cannot call with " + strconv.Itoa(len(args)) + what}
	}
	return fn.Call(args)
}
