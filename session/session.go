// Package session keeps the state a calculator front-end carries between
// evaluations: the previous answer, the memory register, the angle mode, and
// a history of successful evaluations.
//
// A State is not safe for concurrent use. Front-ends that evaluate on behalf
// of several users should keep one State per user.
package session

import (
	"strings"
	"time"

	"github.com/calcfront/safeeval"
)

// State holds the working registers of one calculator session. The zero value
// is ready to use: zero answer, zero memory, radian mode, empty history.
type State struct {
	// Ans is the result of the most recent successful evaluation.
	Ans float64
	// Mem is the memory register driven by AddToMemory, SubtractFromMemory,
	// RecallMemory, and ClearMemory.
	Mem float64
	// Mode is the angle mode evaluations run in.
	Mode safeeval.AngleMode
	// Extra binds additional names visible to every evaluation. The names
	// ans and mem always refer to the session registers, even if Extra
	// contains them.
	Extra map[string]float64

	history []Record
}

// Result is the value of a successful evaluation along with its display form.
type Result struct {
	Value   float64
	Display string
}

// context builds an evaluation context with the session registers bound.
func (s *State) context() *safeeval.Context {
	opts := make([]safeeval.Option, 0, 4)
	opts = append(opts, safeeval.Mode(s.Mode))
	if len(s.Extra) > 0 {
		opts = append(opts, safeeval.SetVars(s.Extra))
	}
	opts = append(opts, safeeval.SetVar("ans", s.Ans), safeeval.SetVar("mem", s.Mem))
	return safeeval.NewContext(opts...)
}

// Evaluate parses and evaluates text with ans and mem bound to the session
// registers. On success it updates Ans, prepends a Record to the history, and
// returns the value with its display form. A failed evaluation leaves the
// session unchanged and is not recorded.
func (s *State) Evaluate(text string) (Result, error) {
	text = strings.TrimSpace(text)
	e, err := safeeval.Parse(text)
	if err != nil {
		return Result{}, err
	}
	return s.EvaluateExpr(e, text)
}

// EvaluateExpr evaluates an already parsed expression, recording text as its
// source in the history. It is otherwise identical to Evaluate.
func (s *State) EvaluateExpr(e *safeeval.Expr, text string) (Result, error) {
	v, err := s.context().Eval(e)
	if err != nil {
		return Result{}, err
	}
	r := Result{Value: v, Display: safeeval.Format(v)}
	s.Ans = v
	s.history = append([]Record{{
		Expression: strings.TrimSpace(text),
		Result:     v,
		Display:    r.Display,
		Time:       time.Now(),
		Mode:       s.Mode,
	}}, s.history...)
	return r, nil
}

// value evaluates text for the memory keys. Text that is blank or does not
// evaluate yields Ans instead, so pressing M+ right after an evaluation
// accumulates the displayed result.
func (s *State) value(text string) float64 {
	e, err := safeeval.Parse(text)
	if err != nil {
		return s.Ans
	}
	v, err := s.context().Eval(e)
	if err != nil {
		return s.Ans
	}
	return v
}

// AddToMemory evaluates text and adds the value to Mem, falling back to Ans
// when text does not evaluate. It returns the new Mem.
func (s *State) AddToMemory(text string) float64 {
	s.Mem += s.value(text)
	return s.Mem
}

// SubtractFromMemory evaluates text and subtracts the value from Mem, falling
// back to Ans when text does not evaluate. It returns the new Mem.
func (s *State) SubtractFromMemory(text string) float64 {
	s.Mem -= s.value(text)
	return s.Mem
}

// RecallMemory returns Mem.
func (s *State) RecallMemory() float64 {
	return s.Mem
}

// ClearMemory resets Mem to zero.
func (s *State) ClearMemory() {
	s.Mem = 0
}

// ToggleMode switches between radian and degree mode and returns the new mode.
func (s *State) ToggleMode() safeeval.AngleMode {
	if s.Mode == safeeval.Degrees {
		s.Mode = safeeval.Radians
	} else {
		s.Mode = safeeval.Degrees
	}
	return s.Mode
}
