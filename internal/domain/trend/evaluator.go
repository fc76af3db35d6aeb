package trend

import "math"

// Stats are the derived numbers shown next to a timeline. Latest and Previous
// are nil when the series is too short; Improving is nil whenever either
// endpoint is missing, since no claim can be made.
type Stats struct {
	Latest        *float64 `json:"latest"`
	Previous      *float64 `json:"previous"`
	PercentChange float64  `json:"percent_change"`
	Improving     *bool    `json:"improving"`
}

// Evaluate computes the trailing statistics for a time-ordered series.
// PercentChange is (latest-previous)/previous*100 rounded to one decimal, and
// defined as 0 when previous is missing or zero. Whether a move counts as an
// improvement comes from the metric's polarity entry in the registry, not
// from any inline per-metric logic.
func Evaluate(s Series) Stats {
	var stats Stats

	n := len(s.Points)
	if n == 0 {
		return stats
	}

	latest := s.Points[n-1].Value
	stats.Latest = &latest

	if n < 2 {
		return stats
	}

	previous := s.Points[n-2].Value
	stats.Previous = &previous

	if previous != 0 {
		change := (latest - previous) / previous * 100
		stats.PercentChange = math.Round(change*10) / 10
	}

	improving := latest > previous
	if m, ok := Lookup(s.Metric); ok && m.LowerIsBetter {
		improving = latest < previous
	}
	stats.Improving = &improving

	return stats
}

// Timeline bundles a series with its evaluated statistics; it is the shape
// returned by the trend query surface.
type Timeline struct {
	Metric      MetricID `json:"metric"`
	Name        string   `json:"name"`
	Unit        string   `json:"unit"`
	NormalRange string   `json:"normal_range"`
	Points      []Point  `json:"points"`
	Stats       Stats    `json:"stats"`
}
