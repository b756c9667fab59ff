package safeeval

import "strconv"

// SyntaxError is an error indicating input that does not form a single
// well-formed expression. It implements EvalError.
type SyntaxError struct {
	// Col is the position of the token that caused the error.
	Col int
	// Msg describes the problem.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Tag() string { return "syntax" }

// ForbiddenConstructError is an error indicating a syntactic construct that
// parses but has no meaning in a calculator expression, like a comparison or
// an attribute access. It implements EvalError.
type ForbiddenConstructError struct {
	// Construct names the offending construct.
	Construct string
}

func (err *ForbiddenConstructError) Error() string {
	return err.Construct + " is not allowed in an expression"
}

func (err *ForbiddenConstructError) Tag() string { return "forbidden-construct" }

// ForbiddenOperatorError is an error indicating an operator that is outside
// the evaluator's allowed set, like ^ or <<. It implements EvalError.
type ForbiddenOperatorError struct {
	// Operator is the operator token.
	Operator string
	// Unary is whether the operator appeared in unary position.
	Unary bool
}

func (err *ForbiddenOperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return s + " operator " + strconv.Quote(err.Operator) + " is not allowed"
}

func (err *ForbiddenOperatorError) Tag() string { return "forbidden-operator" }

// ForbiddenFunctionError is an error indicating a call to a function outside
// the allowed table, or a call whose callee is not a plain function name. It
// implements EvalError.
type ForbiddenFunctionError struct {
	// Func is the name that was called. It is empty when the callee was not a
	// name at all.
	Func string
}

func (err *ForbiddenFunctionError) Error() string {
	if err.Func == "" {
		return "only calls to named functions are allowed"
	}
	return "function " + strconv.Quote(err.Func) + " is not allowed"
}

func (err *ForbiddenFunctionError) Tag() string { return "forbidden-function" }

// UnknownNameError is an error indicating an identifier with no binding in
// the evaluation context. It implements EvalError.
type UnknownNameError struct {
	// Name is the identifier.
	Name string
}

func (err *UnknownNameError) Error() string {
	return "undefined name " + strconv.Quote(err.Name)
}

func (err *UnknownNameError) Tag() string { return "unknown-name" }

// TypeError is an error indicating a literal that is not a number, such as a
// quoted string. It implements EvalError.
type TypeError struct {
	// Literal is the source text of the offending literal.
	Literal string
}

func (err *TypeError) Error() string {
	return "non-numeric literal " + strconv.Quote(err.Literal)
}

func (err *TypeError) Tag() string { return "type" }

// DomainError is an error indicating an argument outside the domain of a
// function or operator, or an operation whose result is not a finite number.
// It implements EvalError.
type DomainError struct {
	// X is the offending value.
	X float64
	// Func is the name of the function or the operator token.
	Func string
	// Reason, if set, overrides the default description of the problem.
	Reason string
}

func (err *DomainError) Error() string {
	if err.Reason != "" {
		return err.Func + ": " + err.Reason
	}
	return strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain of " + err.Func
}

func (err *DomainError) Tag() string { return "domain" }

// DivisionByZeroError is an error indicating a division, modulo, or negative
// power with a zero divisor or base. It implements EvalError.
type DivisionByZeroError struct {
	// Op is the operator token.
	Op string
}

func (err *DivisionByZeroError) Error() string {
	switch err.Op {
	case "//":
		return "floor division by zero"
	case "%":
		return "modulo by zero"
	case "**":
		return "zero cannot be raised to a negative power"
	}
	return "division by zero"
}

func (err *DivisionByZeroError) Tag() string { return "division-by-zero" }

// TooComplexError is an error indicating an expression nested more deeply
// than the evaluator permits. It implements EvalError.
type TooComplexError struct {
	// Limit is the nesting limit that was exceeded.
	Limit int
}

func (err *TooComplexError) Error() string {
	return "expression nested more than " + strconv.Itoa(err.Limit) + " levels deep"
}

func (err *TooComplexError) Tag() string { return "too-complex" }

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// EvalError is the interface implemented by every error this package reports
// for invalid input. Tag returns a short stable name for the error's
// category, suitable for classifying failures without matching messages.
type EvalError interface {
	error
	// Tag returns the category of the error.
	Tag() string
}

var (
	_ EvalError = (*SyntaxError)(nil)
	_ EvalError = (*ForbiddenConstructError)(nil)
	_ EvalError = (*ForbiddenOperatorError)(nil)
	_ EvalError = (*ForbiddenFunctionError)(nil)
	_ EvalError = (*UnknownNameError)(nil)
	_ EvalError = (*TypeError)(nil)
	_ EvalError = (*DomainError)(nil)
	_ EvalError = (*DivisionByZeroError)(nil)
	_ EvalError = (*TooComplexError)(nil)
)
