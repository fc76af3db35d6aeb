package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/internal/service"
)

type DashboardHandler struct {
	reportSvc     *service.ReportService
	connectionSvc *service.ConnectionService
}

func NewDashboardHandler(reportSvc *service.ReportService, connectionSvc *service.ConnectionService) *DashboardHandler {
	return &DashboardHandler{reportSvc: reportSvc, connectionSvc: connectionSvc}
}

type adminDashboard struct {
	StatusCounts   report.StatusCounts `json:"status_counts"`
	RecentActivity []report.Summary    `json:"recent_activity"`
}

// Admin aggregates every report in the system by UI status plus the latest
// uploads.
func (h *DashboardHandler) Admin(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.reportSvc.StatusCountsAll(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	recent, err := h.reportSvc.RecentActivity(ctx, parseQueryInt(c, "limit", 5))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, adminDashboard{
		StatusCounts:   counts,
		RecentActivity: summarize(recent),
	})
}

type doctorDashboard struct {
	PatientCount  int                 `json:"patient_count"`
	StatusCounts  report.StatusCounts `json:"status_counts"`
	RecentReports []report.Summary    `json:"recent_reports"`
}

// Doctor aggregates the calling doctor's assigned patients: report status
// counts and the newest uploads across the roster.
func (h *DashboardHandler) Doctor(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	emails, err := h.connectionSvc.PatientEmailsForDoctor(ctx, claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	counts, err := h.reportSvc.StatusCountsForUsers(ctx, emails)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	recent, err := h.reportSvc.RecentForUsers(ctx, emails, parseQueryInt(c, "limit", 5))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, doctorDashboard{
		PatientCount:  len(emails),
		StatusCounts:  counts,
		RecentReports: summarize(recent),
	})
}

func summarize(reports []*report.Report) []report.Summary {
	out := make([]report.Summary, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.Summarize())
	}
	return out
}
