package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("collect")
	timer.End(idx, "3 types")
	idx = timer.Begin("resolve")
	timer.End(idx, "")

	report := timer.Report()
	if len(report.Passes) != 2 {
		t.Fatalf("passes = %d, want 2", len(report.Passes))
	}
	if report.Passes[0].Name != "collect" || report.Passes[0].Note != "3 types" {
		t.Fatalf("unexpected first pass %+v", report.Passes[0])
	}
	if report.Passes[1].Name != "resolve" {
		t.Fatalf("unexpected second pass %+v", report.Passes[1])
	}
}

func TestReportSummary(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("collect")
	timer.End(idx, "3 types")

	summary := timer.Report().Summary()
	if !strings.Contains(summary, "collect") {
		t.Fatalf("summary misses pass name:\n%s", summary)
	}
	if !strings.Contains(summary, "3 types") {
		t.Fatalf("summary misses pass note:\n%s", summary)
	}
	if !strings.Contains(summary, "total") {
		t.Fatalf("summary misses total line:\n%s", summary)
	}
}

func TestEmptyTimerReport(t *testing.T) {
	report := NewTimer().Report()
	if len(report.Passes) != 0 || report.TotalMS != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}
