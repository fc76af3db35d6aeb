package service

import (
	"context"
	"fmt"

	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/internal/domain/trend"
	"go.uber.org/zap"
)

// TrendService answers the trend query surface: per-user, per-metric
// timelines with derived statistics. It is read-only and stateless; every
// call recomputes from the persisted report history.
type TrendService struct {
	reports report.Repository
	log     *zap.Logger
}

func NewTrendService(reports report.Repository, log *zap.Logger) *TrendService {
	return &TrendService{reports: reports, log: log}
}

// Timeline builds one metric's timeline for a user.
func (s *TrendService) Timeline(ctx context.Context, userEmail string, id trend.MetricID) (*trend.Timeline, error) {
	m, ok := trend.Lookup(id)
	if !ok {
		return nil, ErrUnknownMetric
	}

	history, err := s.reports.ListByUser(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("loading report history: %w", err)
	}

	series := trend.BuildSeries(history, id)
	return &trend.Timeline{
		Metric:      m.ID,
		Name:        m.Name,
		Unit:        m.Unit,
		NormalRange: m.NormalRange,
		Points:      series.Points,
		Stats:       trend.Evaluate(series),
	}, nil
}

// AllTimelines builds every registered metric's timeline in registry order
// from a single pass over the user's history.
func (s *TrendService) AllTimelines(ctx context.Context, userEmail string) ([]trend.Timeline, error) {
	history, err := s.reports.ListByUser(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("loading report history: %w", err)
	}

	byID := trend.BuildAllSeries(history)
	timelines := make([]trend.Timeline, 0, len(byID))
	for _, m := range trend.Metrics() {
		series := byID[m.ID]
		timelines = append(timelines, trend.Timeline{
			Metric:      m.ID,
			Name:        m.Name,
			Unit:        m.Unit,
			NormalRange: m.NormalRange,
			Points:      series.Points,
			Stats:       trend.Evaluate(series),
		})
	}
	return timelines, nil
}
