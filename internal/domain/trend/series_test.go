package trend

import (
	"testing"
	"time"

	"github.com/labtrends/labtrends/internal/domain/report"
)

func reportAt(uploaded time.Time, results ...report.TestResult) *report.Report {
	return &report.Report{
		FileID:      "file-" + uploaded.Format("20060102"),
		UserEmail:   "pat@example.com",
		TestResults: results,
		UploadedAt:  uploaded,
	}
}

func hgb(value string) report.TestResult {
	return report.TestResult{Name: "Hemoglobin", Value: value, Unit: "g/dL"}
}

func TestBuildSeriesOrdersByUploadTime(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	// Deliberately out of order: persistence order does not follow upload time.
	history := []*report.Report{
		reportAt(mar, hgb("13.1")),
		reportAt(jan, hgb("11.9")),
		reportAt(feb, hgb("12.5")),
	}

	s := BuildSeries(history, MetricHemoglobin)
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	wantValues := []float64{11.9, 12.5, 13.1}
	wantLabels := []string{"Jan 2025", "Feb 2025", "Mar 2025"}
	for i, p := range s.Points {
		if p.Value != wantValues[i] {
			t.Errorf("point %d value = %v, want %v", i, p.Value, wantValues[i])
		}
		if p.DisplayLabel != wantLabels[i] {
			t.Errorf("point %d label = %q, want %q", i, p.DisplayLabel, wantLabels[i])
		}
	}
}

func TestBuildSeriesDoesNotMutateInput(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	history := []*report.Report{
		reportAt(feb, hgb("12.5")),
		reportAt(jan, hgb("11.9")),
	}

	BuildSeries(history, MetricHemoglobin)

	if !history[0].UploadedAt.Equal(feb) || !history[1].UploadedAt.Equal(jan) {
		t.Error("BuildSeries reordered the caller's slice")
	}
}

func TestBuildSeriesSkipsUnparseableValues(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	history := []*report.Report{
		reportAt(jan,
			hgb("11.9 g/dL"),
			report.TestResult{Name: "Hemoglobin", Value: "Pending"},
		),
	}

	s := BuildSeries(history, MetricHemoglobin)
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1 (non-numeric value must be skipped)", s.Len())
	}
	if s.Points[0].Value != 11.9 {
		t.Errorf("value = %v, want 11.9", s.Points[0].Value)
	}
}

func TestBuildSeriesDuplicateTestInOneReport(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	history := []*report.Report{
		reportAt(jan, hgb("11.9"), hgb("12.0")),
	}

	s := BuildSeries(history, MetricHemoglobin)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2 (duplicates mirror the source report)", s.Len())
	}
}

func TestBuildSeriesMultiMatchRegistersUnderEveryMetric(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	history := []*report.Report{
		reportAt(jan, report.TestResult{Name: "Fasting Glucose and Cholesterol panel", Value: "95"}),
	}

	byID := BuildAllSeries(history)
	if byID[MetricGlucose].Len() != 1 {
		t.Error("value not registered under glucose")
	}
	if byID[MetricCholesterol].Len() != 1 {
		t.Error("value not registered under cholesterol")
	}
	if byID[MetricHemoglobin].Len() != 0 {
		t.Error("value leaked into unrelated metric")
	}
}

func TestBuildSeriesIdempotent(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	history := []*report.Report{
		reportAt(jan, hgb("11.9")),
		reportAt(feb, hgb("12.5")),
	}

	first := BuildSeries(history, MetricHemoglobin)
	second := BuildSeries(history, MetricHemoglobin)

	if first.Len() != second.Len() {
		t.Fatalf("rebuild changed length: %d vs %d", first.Len(), second.Len())
	}
	for i := range first.Points {
		if first.Points[i] != second.Points[i] {
			t.Errorf("point %d differs across rebuilds", i)
		}
	}
}

func TestSeriesSeqRestartable(t *testing.T) {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	s := BuildSeries([]*report.Report{
		reportAt(jan, hgb("11.9")),
		reportAt(feb, hgb("12.5")),
	}, MetricHemoglobin)

	count := func() int {
		n := 0
		for range s.Seq() {
			n++
		}
		return n
	}

	if first, second := count(), count(); first != 2 || second != 2 {
		t.Errorf("iteration counts = %d, %d, want 2, 2", first, second)
	}

	// Early break must not poison later iteration.
	for range s.Seq() {
		break
	}
	if n := count(); n != 2 {
		t.Errorf("count after early break = %d, want 2", n)
	}
}

func TestBuildAllSeriesCoversRegistry(t *testing.T) {
	byID := BuildAllSeries(nil)
	for _, m := range Metrics() {
		s, ok := byID[m.ID]
		if !ok {
			t.Errorf("missing series for %s", m.ID)
			continue
		}
		if s.Len() != 0 {
			t.Errorf("series for %s not empty", m.ID)
		}
	}
}
