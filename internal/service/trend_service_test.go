package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/internal/domain/trend"
	"go.uber.org/zap"
)

func trendHistory() *mockReportRepo {
	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	return &mockReportRepo{reports: []*report.Report{
		{
			FileID:     "f-2",
			UserEmail:  "pat@example.com",
			UploadedAt: feb,
			TestResults: []report.TestResult{
				{Name: "WBC", Value: "7.1"},
				{Name: "Hemoglobin", Value: "12.5 g/dL"},
			},
		},
		{
			FileID:     "f-1",
			UserEmail:  "pat@example.com",
			UploadedAt: jan,
			TestResults: []report.TestResult{
				{Name: "WBC Count", Value: "6.2"},
				{Name: "Hemoglobin", Value: "11.9 g/dL"},
			},
		},
	}}
}

func TestTimeline(t *testing.T) {
	svc := NewTrendService(trendHistory(), zap.NewNop())

	tl, err := svc.Timeline(context.Background(), "pat@example.com", trend.MetricWBC)
	if err != nil {
		t.Fatalf("Timeline: %v", err)
	}

	if tl.Name != "White Blood Cells" || tl.Unit != "x10³/µL" {
		t.Errorf("metric metadata = %q/%q", tl.Name, tl.Unit)
	}
	if len(tl.Points) != 2 {
		t.Fatalf("points = %d, want 2 (aliases WBC and WBC Count both resolve)", len(tl.Points))
	}
	if tl.Points[0].Value != 6.2 || tl.Points[1].Value != 7.1 {
		t.Errorf("values = %v, %v, want chronological 6.2, 7.1", tl.Points[0].Value, tl.Points[1].Value)
	}
	if tl.Stats.PercentChange != 14.5 {
		t.Errorf("percent change = %v, want 14.5", tl.Stats.PercentChange)
	}
	if tl.Stats.Improving == nil || !*tl.Stats.Improving {
		t.Error("WBC rise should be improving")
	}
}

func TestTimelineUnknownMetric(t *testing.T) {
	svc := NewTrendService(trendHistory(), zap.NewNop())

	if _, err := svc.Timeline(context.Background(), "pat@example.com", "creatinine"); !errors.Is(err, ErrUnknownMetric) {
		t.Errorf("unknown metric = %v, want ErrUnknownMetric", err)
	}
}

func TestAllTimelinesRegistryOrderAndCoverage(t *testing.T) {
	svc := NewTrendService(trendHistory(), zap.NewNop())

	timelines, err := svc.AllTimelines(context.Background(), "pat@example.com")
	if err != nil {
		t.Fatal(err)
	}

	metrics := trend.Metrics()
	if len(timelines) != len(metrics) {
		t.Fatalf("timelines = %d, want %d (every registered metric)", len(timelines), len(metrics))
	}
	for i, tl := range timelines {
		if tl.Metric != metrics[i].ID {
			t.Errorf("timeline %d = %s, want registry order %s", i, tl.Metric, metrics[i].ID)
		}
	}

	byID := make(map[trend.MetricID]trend.Timeline, len(timelines))
	for _, tl := range timelines {
		byID[tl.Metric] = tl
	}
	if len(byID[trend.MetricHemoglobin].Points) != 2 {
		t.Errorf("hemoglobin points = %d, want 2", len(byID[trend.MetricHemoglobin].Points))
	}
	if len(byID[trend.MetricTSH].Points) != 0 {
		t.Errorf("tsh points = %d, want 0", len(byID[trend.MetricTSH].Points))
	}
	if byID[trend.MetricTSH].Stats.Latest != nil {
		t.Error("empty timeline must have nil latest")
	}
}

func TestAllTimelinesEmptyHistory(t *testing.T) {
	svc := NewTrendService(&mockReportRepo{}, zap.NewNop())

	timelines, err := svc.AllTimelines(context.Background(), "nobody@example.com")
	if err != nil {
		t.Fatal(err)
	}
	for _, tl := range timelines {
		if len(tl.Points) != 0 || tl.Stats.Latest != nil || tl.Stats.Improving != nil {
			t.Errorf("timeline %s not empty: %+v", tl.Metric, tl.Stats)
		}
	}
}
