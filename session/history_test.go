package session

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/calcfront/safeeval"
)

func TestRecordJSON(t *testing.T) {
	cases := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "integral",
			rec: Record{
				Expression: "2+2",
				Result:     4,
				Display:    "4",
				Time:       time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC),
				Mode:       safeeval.Radians,
			},
			want: `{"expression":"2+2","result":4,"time":"2024-03-09T14:30:05","mode":"rad"}`,
		},
		{
			name: "rounded",
			rec: Record{
				Expression: "sin(30)",
				Result:     0.49999999999999994,
				Display:    "0.5",
				Time:       time.Date(2024, 3, 9, 14, 30, 6, 0, time.UTC),
				Mode:       safeeval.Degrees,
			},
			want: `{"expression":"sin(30)","result":0.5,"time":"2024-03-09T14:30:06","mode":"deg"}`,
		},
		{
			name: "exponent",
			rec: Record{
				Expression: "2**-20",
				Result:     9.5367431640625e-07,
				Display:    "9.536743164e-07",
				Time:       time.Date(2024, 3, 9, 14, 30, 7, 0, time.UTC),
				Mode:       safeeval.Radians,
			},
			want: `{"expression":"2**-20","result":9.536743164e-07,"time":"2024-03-09T14:30:07","mode":"rad"}`,
		},
		{
			// A display form that is not a JSON number serializes as a
			// string rather than corrupting the document.
			name: "quoted",
			rec: Record{
				Expression: "x",
				Display:    "NaN",
				Time:       time.Date(2024, 3, 9, 14, 30, 8, 0, time.UTC),
				Mode:       safeeval.Radians,
			},
			want: `{"expression":"x","result":"NaN","time":"2024-03-09T14:30:08","mode":"rad"}`,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, err := json.Marshal(c.rec)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(b) != c.want {
				t.Errorf("marshaled %s, want %s", b, c.want)
			}
		})
	}
}

func TestWriteHistory(t *testing.T) {
	s := State{history: []Record{
		{
			Expression: "ans+1",
			Result:     5,
			Display:    "5",
			Time:       time.Date(2024, 3, 9, 14, 31, 0, 0, time.UTC),
			Mode:       safeeval.Radians,
		},
		{
			Expression: "2*2",
			Result:     4,
			Display:    "4",
			Time:       time.Date(2024, 3, 9, 14, 30, 5, 0, time.UTC),
			Mode:       safeeval.Radians,
		},
	}}
	var b strings.Builder
	if err := s.WriteHistory(&b); err != nil {
		t.Fatalf("write history: %v", err)
	}
	want := `[
  {
    "expression": "ans+1",
    "result": 5,
    "time": "2024-03-09T14:31:00",
    "mode": "rad"
  },
  {
    "expression": "2*2",
    "result": 4,
    "time": "2024-03-09T14:30:05",
    "mode": "rad"
  }
]
`
	if b.String() != want {
		t.Errorf("wrote:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestWriteHistoryEmpty(t *testing.T) {
	var s State
	var b strings.Builder
	if err := s.WriteHistory(&b); err != nil {
		t.Fatalf("write history: %v", err)
	}
	if got := b.String(); got != "[]\n" {
		t.Errorf("empty history wrote %q, want %q", got, "[]\n")
	}
}
