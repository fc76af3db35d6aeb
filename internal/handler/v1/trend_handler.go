package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/labtrends/labtrends/internal/domain"
	"github.com/labtrends/labtrends/internal/domain/trend"
	"github.com/labtrends/labtrends/internal/service"
	"github.com/labtrends/labtrends/pkg/metrics"
)

type TrendHandler struct {
	trendSvc      *service.TrendService
	connectionSvc *service.ConnectionService
	collector     *metrics.Collector
}

func NewTrendHandler(trendSvc *service.TrendService, connectionSvc *service.ConnectionService, collector *metrics.Collector) *TrendHandler {
	return &TrendHandler{trendSvc: trendSvc, connectionSvc: connectionSvc, collector: collector}
}

// ListMetrics returns the metric registry so clients render the same catalog
// the server resolves against.
func (h *TrendHandler) ListMetrics(c *gin.Context) {
	respondOK(c, trend.Metrics())
}

// AllTimelines returns every registered metric's timeline for the caller.
func (h *TrendHandler) AllTimelines(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	timelines, err := h.trendSvc.AllTimelines(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.collector.TrendQueries.Inc()
	respondOK(c, timelines)
}

// Timeline returns one metric's timeline for the caller.
func (h *TrendHandler) Timeline(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	timeline, err := h.trendSvc.Timeline(c.Request.Context(), claims.Email, trend.MetricID(c.Param("metric")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.collector.TrendQueries.Inc()
	respondOK(c, timeline)
}

// PatientTimelines lets a doctor read an assigned patient's trend timelines.
func (h *TrendHandler) PatientTimelines(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}
	patientEmail := c.Param("email")

	if claims.Role == domain.RoleDoctor {
		assigned, err := h.connectionSvc.IsAssigned(c.Request.Context(), claims.Email, patientEmail)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		if !assigned {
			respondServiceError(c, service.ErrForbidden)
			return
		}
	}

	timelines, err := h.trendSvc.AllTimelines(c.Request.Context(), patientEmail)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.collector.TrendQueries.Inc()
	respondOK(c, timelines)
}
