package trend

import "testing"

func seriesOf(id MetricID, values ...float64) Series {
	s := Series{Metric: id}
	for _, v := range values {
		s.Points = append(s.Points, Point{Value: v})
	}
	return s
}

func TestEvaluateEmpty(t *testing.T) {
	stats := Evaluate(seriesOf(MetricHemoglobin))
	if stats.Latest != nil || stats.Previous != nil || stats.Improving != nil {
		t.Error("empty series must produce all-nil stats")
	}
	if stats.PercentChange != 0 {
		t.Errorf("percent change = %v, want 0", stats.PercentChange)
	}
}

func TestEvaluateSinglePoint(t *testing.T) {
	stats := Evaluate(seriesOf(MetricHemoglobin, 11.9))
	if stats.Latest == nil || *stats.Latest != 11.9 {
		t.Errorf("latest = %v, want 11.9", stats.Latest)
	}
	if stats.Previous != nil {
		t.Error("previous must be nil for a single point")
	}
	if stats.Improving != nil {
		t.Error("improving must be nil when previous is missing")
	}
	if stats.PercentChange != 0 {
		t.Errorf("percent change = %v, want 0", stats.PercentChange)
	}
}

func TestEvaluateWBCRise(t *testing.T) {
	stats := Evaluate(seriesOf(MetricWBC, 6.2, 7.1))
	if stats.Latest == nil || *stats.Latest != 7.1 {
		t.Fatalf("latest = %v, want 7.1", stats.Latest)
	}
	if stats.Previous == nil || *stats.Previous != 6.2 {
		t.Fatalf("previous = %v, want 6.2", stats.Previous)
	}
	if stats.PercentChange != 14.5 {
		t.Errorf("percent change = %v, want 14.5", stats.PercentChange)
	}
	if stats.Improving == nil || !*stats.Improving {
		t.Error("a WBC rise within range counts as improving (higher-is-better polarity)")
	}
}

func TestEvaluateLowerIsBetterPolarity(t *testing.T) {
	// Cholesterol falling is an improvement.
	stats := Evaluate(seriesOf(MetricCholesterol, 210, 190))
	if stats.Improving == nil || !*stats.Improving {
		t.Error("cholesterol drop should be improving")
	}
	if stats.PercentChange != -9.5 {
		t.Errorf("percent change = %v, want -9.5", stats.PercentChange)
	}

	// Cholesterol rising is not.
	stats = Evaluate(seriesOf(MetricCholesterol, 190, 210))
	if stats.Improving == nil || *stats.Improving {
		t.Error("cholesterol rise should not be improving")
	}
}

func TestEvaluateZeroPrevious(t *testing.T) {
	stats := Evaluate(seriesOf(MetricTSH, 0, 2.1))
	if stats.PercentChange != 0 {
		t.Errorf("percent change with zero previous = %v, want 0", stats.PercentChange)
	}
	if stats.Improving == nil {
		t.Error("improving should still be computed when previous is zero")
	}
}

func TestEvaluateRounding(t *testing.T) {
	// (7.0-6.0)/6.0*100 = 16.666... → 16.7
	stats := Evaluate(seriesOf(MetricWBC, 6.0, 7.0))
	if stats.PercentChange != 16.7 {
		t.Errorf("percent change = %v, want 16.7", stats.PercentChange)
	}
}

func TestEvaluateUsesTrailingPair(t *testing.T) {
	stats := Evaluate(seriesOf(MetricHemoglobin, 10, 11.9, 12.5))
	if *stats.Previous != 11.9 || *stats.Latest != 12.5 {
		t.Errorf("trailing pair = (%v, %v), want (11.9, 12.5)", *stats.Previous, *stats.Latest)
	}
}
