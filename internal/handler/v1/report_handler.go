package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labtrends/labtrends/internal/domain"
	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/internal/service"
)

type ReportHandler struct {
	reportSvc     *service.ReportService
	connectionSvc *service.ConnectionService
}

func NewReportHandler(reportSvc *service.ReportService, connectionSvc *service.ConnectionService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, connectionSvc: connectionSvc}
}

type ingestRequest struct {
	FileName   string `json:"file_name" binding:"required"`
	StorageRef string `json:"storage_ref" binding:"required"`
}

// Ingest accepts an uploaded file reference and runs it through annotation
// and normalization. Annotator failure is not surfaced as an error: the report
// is created with the fallback summary and a 201 either way.
func (h *ReportHandler) Ingest(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req ingestRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.reportSvc.Ingest(c.Request.Context(), &report.IngestCommand{
		UserEmail:  claims.Email,
		FileName:   req.FileName,
		StorageRef: req.StorageRef,
	}, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, r)
}

// List returns the caller's reports: summaries by default, full documents
// with ?full=true.
func (h *ReportHandler) List(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	if c.Query("full") == "true" {
		reports, err := h.reportSvc.ListFull(c.Request.Context(), claims.Email)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respondOK(c, reports)
		return
	}

	summaries, err := h.reportSvc.ListSummaries(c.Request.Context(), claims.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, summaries)
}

func (h *ReportHandler) Get(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	r, err := h.reportSvc.Get(c.Request.Context(), c.Param("fileId"), claims.Email, string(claims.Role))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, r)
}

func (h *ReportHandler) Delete(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	err := h.reportSvc.Delete(c.Request.Context(), c.Param("fileId"), claims.Email, string(claims.Role), c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type commentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// AddComment attaches a doctor's note to a report.
func (h *ReportHandler) AddComment(c *gin.Context) {
	claims, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.reportSvc.AddDoctorComment(c.Request.Context(), c.Param("fileId"), req.Comment, claims.Email, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"file_id": c.Param("fileId")})
}

// PatientReports lets a doctor read an assigned patient's report history.
func (h *ReportHandler) PatientReports(c *gin.Context) {
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

	reports, err := h.reportSvc.ListFull(c.Request.Context(), patientEmail)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, reports)
}
