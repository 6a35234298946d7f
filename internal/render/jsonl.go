package render

import (
	"context"
	"encoding/json"
	"io"

	"github.com/me/scoop/pkg/model"
)

// Record is one line of JSON-lines output.
type Record struct {
	Type    string         `json:"type"` // begin, event, end
	Mode    model.Mode     `json:"mode,omitempty"`
	Quantum int            `json:"quantum,omitempty"`
	Event   *model.Event   `json:"event,omitempty"`
	Summary *model.Summary `json:"summary,omitempty"`
}

// JSONLines writes one JSON object per line. It never paces.
type JSONLines struct {
	enc *json.Encoder
}

// NewJSONLines creates a JSON-lines renderer writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

func (j *JSONLines) Begin(mode model.Mode, quantum int) error {
	rec := Record{Type: "begin", Mode: mode}
	if mode.NeedsQuantum() {
		rec.Quantum = quantum
	}
	return j.enc.Encode(rec)
}

func (j *JSONLines) Event(ctx context.Context, ev model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return j.enc.Encode(Record{Type: "event", Event: &ev})
}

func (j *JSONLines) End(summary *model.Summary) error {
	return j.enc.Encode(Record{Type: "end", Summary: summary})
}
