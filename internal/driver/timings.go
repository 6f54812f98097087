package driver

import (
	"encoding/json"
	"fmt"

	"keel/internal/diag"
	"keel/internal/observ"
	"keel/internal/source"
)

type timingPayload struct {
	Kind    string              `json:"kind"`
	Path    string              `json:"path,omitempty"`
	TotalMS float64             `json:"total_ms"`
	Passes  []observ.PassReport `json:"passes"`
}

// appendTimingDiagnostic attaches the pass timings as an info diagnostic
// so every output format (pretty, JSON) carries them without a separate
// channel. The machine-readable payload rides in a note.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s for %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.ReportInfo(nil, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data)).
		Diagnostic()

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
