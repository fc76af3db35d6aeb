package report

import (
	"testing"
	"time"
)

func TestMapSeverity(t *testing.T) {
	tests := []struct {
		in   Severity
		want UIStatus
	}{
		{SeverityLow, StatusNormal},
		{SeverityMedium, StatusAbnormal},
		{SeverityHigh, StatusCritical},
		{Severity("unknown"), StatusNormal},
		{Severity(""), StatusNormal},
	}
	for _, tt := range tests {
		if got := MapSeverity(tt.in); got != tt.want {
			t.Errorf("MapSeverity(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatusCountsAdd(t *testing.T) {
	var c StatusCounts
	for _, s := range []Severity{SeverityLow, SeverityLow, SeverityMedium, SeverityHigh, "garbage"} {
		c.Add(s)
	}
	if c.Normal != 3 {
		t.Errorf("normal = %d, want 3 (two low plus the degraded unknown)", c.Normal)
	}
	if c.Abnormal != 1 {
		t.Errorf("abnormal = %d, want 1", c.Abnormal)
	}
	if c.Critical != 1 {
		t.Errorf("critical = %d, want 1", c.Critical)
	}
}

func TestSummarize(t *testing.T) {
	uploaded := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	r := &Report{
		FileID:     "f-1",
		FileName:   "cbc.pdf",
		UploadedAt: uploaded,
		AISummary:  AISummary{Severity: SeverityMedium},
	}

	s := r.Summarize()
	if s.FileID != "f-1" || s.FileName != "cbc.pdf" || !s.UploadedAt.Equal(uploaded) {
		t.Errorf("summary = %+v", s)
	}
	if s.Severity != SeverityMedium || s.Status != StatusAbnormal {
		t.Errorf("summary severity/status = %q/%q, want medium/abnormal", s.Severity, s.Status)
	}
}

func TestAbnormalTestCount(t *testing.T) {
	r := &Report{TestResults: []TestResult{
		{Name: "Hemoglobin", Status: ResultLow},
		{Name: "WBC", Status: ResultNormal},
		{Name: "TSH", Status: ResultHigh},
		{Name: "Glucose", Status: ResultCritical},
	}}
	if n := r.AbnormalTestCount(); n != 3 {
		t.Errorf("abnormal count = %d, want 3", n)
	}
}
