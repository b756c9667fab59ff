package session

import (
	"encoding/json"
	"io"
	"time"

	"github.com/calcfront/safeeval"
)

// Record is one history entry: a successfully evaluated expression with its
// result, when it was evaluated, and the angle mode it was evaluated in.
type Record struct {
	Expression string
	Result     float64
	Display    string
	Time       time.Time
	Mode       safeeval.AngleMode
}

// MarshalJSON writes the record in the calculator's download shape. The
// result field carries the display form as a JSON number, so integral values
// serialize without a decimal point; the time omits the zone.
func (r Record) MarshalJSON() ([]byte, error) {
	res := json.RawMessage(r.Display)
	if !json.Valid(res) {
		q, err := json.Marshal(r.Display)
		if err != nil {
			return nil, err
		}
		res = q
	}
	return json.Marshal(struct {
		Expression string          `json:"expression"`
		Result     json.RawMessage `json:"result"`
		Time       string          `json:"time"`
		Mode       string          `json:"mode"`
	}{r.Expression, res, r.Time.Format("2006-01-02T15:04:05"), r.Mode.String()})
}

// History returns a copy of the recorded evaluations, newest first.
func (s *State) History() []Record {
	h := make([]Record, len(s.history))
	copy(h, s.history)
	return h
}

// ClearHistory discards all recorded evaluations.
func (s *State) ClearHistory() {
	s.history = nil
}

// WriteHistory writes the history to w as an indented JSON array, newest
// first. An empty history writes an empty array.
func (s *State) WriteHistory(w io.Writer) error {
	h := s.history
	if h == nil {
		h = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(h)
}
