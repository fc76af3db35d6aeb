package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/pkg/metrics"
	"go.uber.org/zap"
)

// Annotator is the external AI annotation service. It is best-effort: any
// error is absorbed by the ingestion fallback, never surfaced as an upload
// failure.
type Annotator interface {
	Analyze(ctx context.Context, storageRef string) (*report.RawAnnotation, error)
}

type ReportService struct {
	repo      report.Repository
	annotator Annotator
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewReportService(
	repo report.Repository,
	annotator Annotator,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *ReportService {
	return &ReportService{
		repo:      repo,
		annotator: annotator,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// Ingest turns an uploaded file into a persisted canonical report. The
// annotator is awaited with its configured hard deadline; on failure the
// report is persisted with the fallback summary and an empty result set, and
// the ingest still succeeds. There is no retry: an annotator failure is final
// for this upload, the user may re-upload.
func (s *ReportService) Ingest(ctx context.Context, cmd *report.IngestCommand, callerRole string, ip string) (*report.Report, error) {
	if err := validateIngest(cmd); err != nil {
		return nil, err
	}

	r := &report.Report{
		FileID:     uuid.NewString(),
		UserEmail:  strings.ToLower(strings.TrimSpace(cmd.UserEmail)),
		FileName:   cmd.FileName,
		StorageRef: cmd.StorageRef,
		UploadedAt: time.Now().UTC(),
	}

	annStart := time.Now()
	raw, err := s.annotator.Analyze(ctx, cmd.StorageRef)
	s.collector.AnnotatorDuration.Observe(time.Since(annStart).Seconds())
	if err != nil {
		s.log.Warn("annotation failed, persisting report without analysis",
			zap.String("file_id", r.FileID),
			zap.Error(err),
		)
		s.collector.AnnotatorFailures.Inc()
		r.AISummary = report.FallbackSummary()
		r.TestResults = []report.TestResult{}
	} else {
		r.AISummary, r.TestResults = report.Normalize(*raw)
		r.EmbeddingRef = raw.EmbeddingRef
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.log.Error("failed to persist report", zap.Error(err))
		return nil, fmt.Errorf("creating report: %w", err)
	}

	s.collector.ReportsIngested.WithLabelValues(string(r.AISummary.UIStatus())).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserEmail:    r.UserEmail,
		UserRole:     callerRole,
		Action:       "create",
		ResourceType: "report",
		ResourceID:   r.FileID,
		IPAddress:    ip,
	})

	s.log.Info("report ingested",
		zap.String("file_id", r.FileID),
		zap.String("user", r.UserEmail),
		zap.String("severity", string(r.AISummary.Severity)),
	)

	return r, nil
}

func validateIngest(cmd *report.IngestCommand) error {
	var fields []string
	if strings.TrimSpace(cmd.UserEmail) == "" {
		fields = append(fields, "user_email is required")
	}
	if strings.TrimSpace(cmd.FileName) == "" {
		fields = append(fields, "file_name is required")
	}
	if strings.TrimSpace(cmd.StorageRef) == "" {
		fields = append(fields, "storage_ref is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ListSummaries returns the list-view projection of a user's reports.
func (s *ReportService) ListSummaries(ctx context.Context, userEmail string) ([]report.Summary, error) {
	reports, err := s.repo.ListByUser(ctx, userEmail)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	summaries := make([]report.Summary, 0, len(reports))
	for _, r := range reports {
		summaries = append(summaries, r.Summarize())
	}
	return summaries, nil
}

// ListFull returns a user's complete report history.
func (s *ReportService) ListFull(ctx context.Context, userEmail string) ([]*report.Report, error) {
	return s.repo.ListByUser(ctx, userEmail)
}

func (s *ReportService) Get(ctx context.Context, fileID string, callerEmail string, callerRole string) (*report.Report, error) {
	r, err := s.repo.GetByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	// Patients can only read their own reports.
	if callerRole == "patient" && r.UserEmail != callerEmail {
		return nil, ErrForbidden
	}
	return r, nil
}

func (s *ReportService) Delete(ctx context.Context, fileID string, callerEmail string, callerRole string, ip string) error {
	r, err := s.repo.GetByFileID(ctx, fileID)
	if err != nil {
		return err
	}
	if callerRole == "patient" && r.UserEmail != callerEmail {
		return ErrForbidden
	}

	if err := s.repo.DeleteByFileID(ctx, fileID); err != nil {
		return fmt.Errorf("deleting report: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserEmail:    callerEmail,
		UserRole:     callerRole,
		Action:       "delete",
		ResourceType: "report",
		ResourceID:   fileID,
		IPAddress:    ip,
	})

	return nil
}

// AddDoctorComment attaches a doctor's note to a report.
func (s *ReportService) AddDoctorComment(ctx context.Context, fileID, comment string, callerEmail string, ip string) error {
	if strings.TrimSpace(comment) == "" {
		return &ValidationError{Fields: []string{"comment is required"}}
	}
	if _, err := s.repo.GetByFileID(ctx, fileID); err != nil {
		return err
	}
	if err := s.repo.SetDoctorComment(ctx, fileID, comment); err != nil {
		return fmt.Errorf("saving comment: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserEmail:    callerEmail,
		UserRole:     "doctor",
		Action:       "update",
		ResourceType: "report",
		ResourceID:   fileID,
		IPAddress:    ip,
		Changes:      `{"doctor_comment":"set"}`,
	})

	return nil
}

// StatusCountsAll aggregates every report in the system by UI status, for the
// admin dashboard.
func (s *ReportService) StatusCountsAll(ctx context.Context) (report.StatusCounts, error) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		return report.StatusCounts{}, fmt.Errorf("listing reports: %w", err)
	}
	return tally(reports), nil
}

// StatusCountsForUsers aggregates the given users' reports by UI status, for
// the doctor dashboard.
func (s *ReportService) StatusCountsForUsers(ctx context.Context, userEmails []string) (report.StatusCounts, error) {
	if len(userEmails) == 0 {
		return report.StatusCounts{}, nil
	}
	reports, err := s.repo.ListByUsers(ctx, userEmails)
	if err != nil {
		return report.StatusCounts{}, fmt.Errorf("listing reports: %w", err)
	}
	return tally(reports), nil
}

// tally is the one aggregation loop shared by every dashboard; it defers to
// report.MapSeverity so call sites cannot diverge.
func tally(reports []*report.Report) report.StatusCounts {
	var counts report.StatusCounts
	for _, r := range reports {
		counts.Add(r.AISummary.Severity)
	}
	return counts
}

// RecentActivity returns the latest uploads across all users.
func (s *ReportService) RecentActivity(ctx context.Context, limit int) ([]*report.Report, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	return s.repo.ListRecent(ctx, limit)
}

// RecentForUsers returns the latest uploads for a set of patients, newest
// first, for the doctor's high-priority view.
func (s *ReportService) RecentForUsers(ctx context.Context, userEmails []string, limit int) ([]*report.Report, error) {
	if len(userEmails) == 0 {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	reports, err := s.repo.ListByUsers(ctx, userEmails)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	// ListByUsers returns uploaded_at ascending; take the tail, newest first.
	out := make([]*report.Report, 0, limit)
	for i := len(reports) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, reports[i])
	}
	return out, nil
}
