package session_test

import (
	"errors"
	"math"
	"testing"

	"github.com/calcfront/safeeval"
	"github.com/calcfront/safeeval/session"
)

func TestEvaluate(t *testing.T) {
	var s session.State
	r, err := s.Evaluate("2 + 2")
	if err != nil {
		t.Fatalf("evaluate 2 + 2: %v", err)
	}
	if r.Value != 4 || r.Display != "4" {
		t.Errorf("2 + 2 gave %v displayed %q, want 4 displayed %q", r.Value, r.Display, "4")
	}
	if s.Ans != 4 {
		t.Errorf("Ans is %v after evaluating, want 4", s.Ans)
	}
	r, err = s.Evaluate("  ans * 10 ")
	if err != nil {
		t.Fatalf("evaluate ans * 10: %v", err)
	}
	if r.Value != 40 {
		t.Errorf("ans * 10 gave %v, want 40", r.Value)
	}
	h := s.History()
	if len(h) != 2 {
		t.Fatalf("history has %d records, want 2", len(h))
	}
	if h[0].Expression != "ans * 10" || h[1].Expression != "2 + 2" {
		t.Errorf("history records %q then %q, want newest first and trimmed", h[0].Expression, h[1].Expression)
	}
	if h[0].Result != 40 || h[0].Display != "40" {
		t.Errorf("newest record holds %v displayed %q, want 40 displayed %q", h[0].Result, h[0].Display, "40")
	}
	if h[0].Time.IsZero() {
		t.Error("newest record has a zero time")
	}
}

func TestEvaluateExpr(t *testing.T) {
	var s session.State
	e, err := safeeval.Parse("2 + ans")
	if err != nil {
		t.Fatalf("parse 2 + ans: %v", err)
	}
	s.Ans = 5
	r, err := s.EvaluateExpr(e, " 2 + ans ")
	if err != nil {
		t.Fatalf("evaluate 2 + ans: %v", err)
	}
	if r.Value != 7 || r.Display != "7" {
		t.Errorf("2 + ans gave %v displayed %q, want 7 displayed %q", r.Value, r.Display, "7")
	}
	if s.Ans != 7 {
		t.Errorf("Ans is %v after evaluating, want 7", s.Ans)
	}
	h := s.History()
	if len(h) != 1 || h[0].Expression != "2 + ans" {
		t.Fatalf("history is %+v, want one record with a trimmed expression", h)
	}
	// The same tree evaluates again as the registers move.
	r, err = s.EvaluateExpr(e, "2 + ans")
	if err != nil {
		t.Fatalf("reevaluate 2 + ans: %v", err)
	}
	if r.Value != 9 {
		t.Errorf("reevaluating gave %v, want 9", r.Value)
	}
}

func TestEvaluateError(t *testing.T) {
	var s session.State
	if _, err := s.Evaluate("10 / 2"); err != nil {
		t.Fatalf("evaluate 10 / 2: %v", err)
	}
	_, err := s.Evaluate("1 / 0")
	if err == nil {
		t.Fatal("1 / 0 evaluated with no error")
	}
	var dz *safeeval.DivisionByZeroError
	if !errors.As(err, &dz) {
		t.Errorf("1 / 0 gave %T, want *safeeval.DivisionByZeroError", err)
	}
	if s.Ans != 5 {
		t.Errorf("failed evaluation changed Ans to %v", s.Ans)
	}
	if n := len(s.History()); n != 1 {
		t.Errorf("failed evaluation was recorded: history has %d records, want 1", n)
	}
}

func TestMemory(t *testing.T) {
	var s session.State
	if m := s.AddToMemory("3 * 4"); m != 12 {
		t.Errorf("M+ 3 * 4 gave %v, want 12", m)
	}
	if m := s.SubtractFromMemory("2"); m != 10 {
		t.Errorf("M- 2 gave %v, want 10", m)
	}
	if m := s.RecallMemory(); m != 10 {
		t.Errorf("MR gave %v, want 10", m)
	}

	// Blank and unevaluable text falls back to the previous answer.
	if _, err := s.Evaluate("7"); err != nil {
		t.Fatalf("evaluate 7: %v", err)
	}
	if m := s.AddToMemory(""); m != 17 {
		t.Errorf("blank M+ gave %v, want 17", m)
	}
	if m := s.AddToMemory("bogus("); m != 24 {
		t.Errorf("unparseable M+ gave %v, want 24", m)
	}

	// The register is visible to evaluations as mem.
	r, err := s.Evaluate("mem * 2")
	if err != nil {
		t.Fatalf("evaluate mem * 2: %v", err)
	}
	if r.Value != 48 {
		t.Errorf("mem * 2 gave %v, want 48", r.Value)
	}

	if m := s.SubtractFromMemory("nosuch"); m != -24 {
		t.Errorf("M- with an unknown name gave %v, want -24", m)
	}

	s.ClearMemory()
	if m := s.RecallMemory(); m != 0 {
		t.Errorf("MC left %v in memory", m)
	}
}

func TestToggleMode(t *testing.T) {
	var s session.State
	if s.Mode != safeeval.Radians {
		t.Fatalf("fresh session is in %v mode, want rad", s.Mode)
	}
	if m := s.ToggleMode(); m != safeeval.Degrees {
		t.Errorf("toggling gave %v mode, want deg", m)
	}
	r, err := s.Evaluate("sin(30)")
	if err != nil {
		t.Fatalf("evaluate sin(30): %v", err)
	}
	if r.Display != "0.5" {
		t.Errorf("sin(30) in degree mode displays %q, want %q", r.Display, "0.5")
	}
	if h := s.History(); h[0].Mode != safeeval.Degrees {
		t.Errorf("record holds %v mode, want deg", h[0].Mode)
	}
	if m := s.ToggleMode(); m != safeeval.Radians {
		t.Errorf("toggling back gave %v mode, want rad", m)
	}
}

func TestExtra(t *testing.T) {
	s := session.State{Extra: map[string]float64{"tau": 2 * math.Pi}}
	r, err := s.Evaluate("tau / 2")
	if err != nil {
		t.Fatalf("evaluate tau / 2: %v", err)
	}
	if r.Value != math.Pi {
		t.Errorf("tau / 2 gave %v, want %v", r.Value, math.Pi)
	}

	// The session registers win over extra bindings of the same name.
	s.Extra["ans"] = 99
	if _, err := s.Evaluate("1 + 1"); err != nil {
		t.Fatalf("evaluate 1 + 1: %v", err)
	}
	r, err = s.Evaluate("ans")
	if err != nil {
		t.Fatalf("evaluate ans: %v", err)
	}
	if r.Value != 2 {
		t.Errorf("ans gave %v, want 2", r.Value)
	}
}

func TestHistoryCopy(t *testing.T) {
	var s session.State
	if _, err := s.Evaluate("1"); err != nil {
		t.Fatalf("evaluate 1: %v", err)
	}
	h := s.History()
	h[0].Expression = "mutated"
	if got := s.History()[0].Expression; got != "1" {
		t.Errorf("mutating the returned history changed the session record to %q", got)
	}
	s.ClearHistory()
	if n := len(s.History()); n != 0 {
		t.Errorf("history has %d records after clearing", n)
	}
}
