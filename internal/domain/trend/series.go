package trend

import (
	"iter"
	"sort"
	"time"

	"github.com/labtrends/labtrends/internal/domain/report"
)

// Point is one observation of a metric.
type Point struct {
	Timestamp    time.Time `json:"timestamp"`
	Value        float64   `json:"value"`
	DisplayLabel string    `json:"display_label"`
}

// Series is a metric's chronological timeline for one user. It is a derived
// view, rebuilt from the persisted report history on every query; nothing
// here is stored.
type Series struct {
	Metric MetricID `json:"metric"`
	Points []Point  `json:"points"`
}

// Seq yields the points in order. The sequence is finite and restartable.
func (s Series) Seq() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, p := range s.Points {
			if !yield(p) {
				return
			}
		}
	}
}

func (s Series) Len() int { return len(s.Points) }

// BuildSeries converts a user's full report history into the timeline for one
// metric. Reports are stable-sorted by uploaded_at (upload timestamps are not
// guaranteed to follow insertion order, so insertion order only breaks ties).
// Each test result that resolves to the metric contributes a point; a report
// listing the metric twice contributes twice, mirroring the source report.
// Non-numeric values are skipped, not coerced.
func BuildSeries(reports []*report.Report, id MetricID) Series {
	byID := map[MetricID]*Series{id: {Metric: id}}
	buildInto(reports, byID)
	return *byID[id]
}

// BuildAllSeries builds the timeline for every registered metric in one pass
// over the history.
func BuildAllSeries(reports []*report.Report) map[MetricID]Series {
	byID := make(map[MetricID]*Series, len(registry))
	for _, m := range registry {
		byID[m.ID] = &Series{Metric: m.ID}
	}
	buildInto(reports, byID)

	out := make(map[MetricID]Series, len(byID))
	for id, s := range byID {
		out[id] = *s
	}
	return out
}

func buildInto(reports []*report.Report, byID map[MetricID]*Series) {
	ordered := make([]*report.Report, len(reports))
	copy(ordered, reports)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].UploadedAt.Before(ordered[j].UploadedAt)
	})

	for _, rep := range ordered {
		label := rep.UploadedAt.Format("Jan 2006")
		for _, t := range rep.TestResults {
			value, ok := ParseValue(t.Value)
			if !ok {
				continue
			}
			// A name can resolve to several metrics; the value is recorded
			// under every one of them.
			for _, metricID := range Resolve(t.Name) {
				s, tracked := byID[metricID]
				if !tracked {
					continue
				}
				s.Points = append(s.Points, Point{
					Timestamp:    rep.UploadedAt,
					Value:        value,
					DisplayLabel: label,
				})
			}
		}
	}
}
