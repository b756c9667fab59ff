// Package safeeval evaluates calculator expressions without ever executing
// them as code.
//
// The accepted syntax is familiar infix arithmetic: the operators + - * / %
// // and **, unary + and -, parentheses, the constants pi and e, and calls to
// a fixed table of named functions like sqrt, sin, and factorial. The parser
// additionally understands a much wider expression grammar, including strings,
// comparisons, attribute access, and lambdas, but everything outside the
// calculator subset is refused during evaluation with an error naming the
// construct. Nothing an expression contains can reach the host program.
//
// Every result is a finite float64. Operations that would produce an
// infinity, a NaN, or a value outside a function's range report typed errors
// instead, so "1/0" is a DivisionByZeroError rather than +Inf.
//
// Variables let the caller bind values such as a previous answer or a memory
// register. Trigonometric functions honor the context's angle mode.
package safeeval
