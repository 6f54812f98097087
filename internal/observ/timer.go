package observ

import (
	"fmt"
	"strings"
	"time"
)

// Pass records the duration and metadata of one pipeline pass.
type Pass struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer tracks the execution time of pipeline passes. It is a pass-through
// instrumentation layer: the pipeline behaves identically with a nil Timer.
type Timer struct {
	passes []Pass
}

// NewTimer creates a new empty Timer.
func NewTimer() *Timer { return &Timer{passes: make([]Pass, 0, 16)} }

// Begin starts a new pass and returns its index.
func (t *Timer) Begin(name string) int {
	t.passes = append(t.passes, Pass{Name: name, Start: time.Now()})
	return len(t.passes) - 1
}

// End finishes a pass by its index.
func (t *Timer) End(idx int, note string) {
	if idx < 0 || idx >= len(t.passes) {
		return
	}
	p := &t.passes[idx]
	p.Dur = time.Since(p.Start)
	p.Note = note
}

// PassReport is the serializable form of one timed pass.
type PassReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
}

// Report aggregates every timed pass.
type Report struct {
	TotalMS float64      `json:"total_ms"`
	Passes  []PassReport `json:"passes"`
}

// Report builds the aggregate over all recorded passes.
func (t *Timer) Report() Report {
	if len(t.passes) == 0 {
		return Report{}
	}
	report := Report{
		Passes: make([]PassReport, len(t.passes)),
	}
	var total time.Duration
	for i, pass := range t.passes {
		total += pass.Dur
		report.Passes[i] = PassReport{
			Name:       pass.Name,
			DurationMS: durationToMillis(pass.Dur),
			Note:       pass.Note,
		}
	}
	report.TotalMS = durationToMillis(total)
	return report
}

// Summary returns a human-readable rendering of all tracked passes.
func (r Report) Summary() string {
	var out strings.Builder
	out.WriteString("timings:\n")
	for _, p := range r.Passes {
		fmt.Fprintf(&out, "  %-24s %7.2f ms", p.Name, p.DurationMS)
		if p.Note != "" {
			out.WriteString("  // " + p.Note)
		}
		out.WriteByte('\n')
	}
	fmt.Fprintf(&out, "  %-24s %7.2f ms\n", "total", r.TotalMS)
	return out.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
