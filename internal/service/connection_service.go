package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labtrends/labtrends/internal/domain/connection"
	"github.com/labtrends/labtrends/internal/domain/profile"
	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/pkg/metrics"
	"go.uber.org/zap"
)

type ConnectionService struct {
	repo      connection.Repository
	reports   report.Repository
	profiles  profile.Repository
	auditSvc  *AuditService
	collector *metrics.Collector
	log       *zap.Logger
}

func NewConnectionService(
	repo connection.Repository,
	reports report.Repository,
	profiles profile.Repository,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *ConnectionService {
	return &ConnectionService{
		repo:      repo,
		reports:   reports,
		profiles:  profiles,
		auditSvc:  auditSvc,
		collector: collector,
		log:       log,
	}
}

// SendRequest creates a pending connection request with a snapshot of the
// patient's details. A patient may have several pending requests to different
// doctors at once; the assignment is keyed by patient and only ever written
// on accept, so concurrent pending requests cannot corrupt it.
func (s *ConnectionService) SendRequest(ctx context.Context, cmd *connection.SendRequestCommand, ip string) (*connection.ConnectionRequest, error) {
	if err := validateSendRequest(cmd); err != nil {
		return nil, err
	}

	patientEmail := strings.ToLower(strings.TrimSpace(cmd.PatientEmail))
	doctorEmail := strings.ToLower(strings.TrimSpace(cmd.DoctorEmail))

	patientName := "Unknown"
	patientPhone := "N/A"
	if p, err := s.profiles.GetPatientByEmail(ctx, patientEmail); err == nil {
		if p.Name != "" {
			patientName = p.Name
		}
		if p.Phone != "" {
			patientPhone = p.Phone
		}
	}

	reportsCount, err := s.reports.CountByUser(ctx, patientEmail)
	if err != nil {
		return nil, fmt.Errorf("counting patient reports: %w", err)
	}

	requestDate := cmd.RequestDate
	if requestDate.IsZero() {
		requestDate = time.Now().UTC()
	}

	req := &connection.ConnectionRequest{
		RequestID:    cmd.RequestID,
		DoctorEmail:  doctorEmail,
		PatientEmail: patientEmail,
		PatientName:  patientName,
		PatientPhone: patientPhone,
		Message:      cmd.Message,
		ReportsCount: reportsCount,
		RequestDate:  requestDate,
		Status:       connection.StatusPending,
	}

	if err := s.repo.CreateRequest(ctx, req); err != nil {
		s.log.Error("failed to create connection request", zap.Error(err))
		return nil, fmt.Errorf("creating request: %w", err)
	}

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserEmail:    patientEmail,
		UserRole:     "patient",
		Action:       "create",
		ResourceType: "connection_request",
		ResourceID:   req.RequestID,
		IPAddress:    ip,
	})

	return req, nil
}

func validateSendRequest(cmd *connection.SendRequestCommand) error {
	var fields []string
	if strings.TrimSpace(cmd.RequestID) == "" {
		fields = append(fields, "id is required")
	}
	if strings.TrimSpace(cmd.PatientEmail) == "" {
		fields = append(fields, "patient_email is required")
	}
	if strings.TrimSpace(cmd.DoctorEmail) == "" {
		fields = append(fields, "doctor_email is required")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Accept resolves a pending request in the doctor's favor and replaces the
// patient's doctor assignment. The state check in Accept is the guard: a
// request that is already terminal fails here before any side effect runs, so
// re-invocation or an out-of-order reject can never reapply side effects.
func (s *ConnectionService) Accept(ctx context.Context, requestID string, callerEmail string, ip string) (*connection.ConnectionRequest, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if callerEmail != "" && !strings.EqualFold(callerEmail, req.DoctorEmail) {
		return nil, ErrForbidden
	}

	if err := req.Accept(); err != nil {
		return nil, err
	}

	// Request update and assignment replace are one transaction per patient.
	if err := s.repo.SaveAccepted(ctx, req); err != nil {
		s.log.Error("failed to accept connection request", zap.Error(err))
		return nil, fmt.Errorf("accepting request: %w", err)
	}

	s.collector.ConnectionRequests.WithLabelValues(string(connection.StatusAccepted)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserEmail:    req.DoctorEmail,
		UserRole:     "doctor",
		Action:       "update",
		ResourceType: "connection_request",
		ResourceID:   req.RequestID,
		IPAddress:    ip,
		Changes:      `{"status":"accepted"}`,
	})

	return req, nil
}

// Reject resolves a pending request against the patient, removes any existing
// assignment for them, and records a rejection message naming the doctor.
// A missing assignment is a successful no-op deletion.
func (s *ConnectionService) Reject(ctx context.Context, requestID string, callerEmail string, ip string) (*connection.ConnectionRequest, error) {
	req, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if callerEmail != "" && !strings.EqualFold(callerEmail, req.DoctorEmail) {
		return nil, ErrForbidden
	}

	doctorName := ""
	if d, err := s.profiles.GetDoctorByEmail(ctx, req.DoctorEmail); err == nil {
		doctorName = d.Name
	}

	if err := req.Reject(doctorName); err != nil {
		return nil, err
	}

	if err := s.repo.SaveRejected(ctx, req); err != nil {
		s.log.Error("failed to reject connection request", zap.Error(err))
		return nil, fmt.Errorf("rejecting request: %w", err)
	}

	s.collector.ConnectionRequests.WithLabelValues(string(connection.StatusRejected)).Inc()

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserEmail:    req.DoctorEmail,
		UserRole:     "doctor",
		Action:       "update",
		ResourceType: "connection_request",
		ResourceID:   req.RequestID,
		IPAddress:    ip,
		Changes:      `{"status":"rejected"}`,
	})

	return req, nil
}

// RequestsForDoctor lists a doctor's inbox, optionally filtered by status.
func (s *ConnectionService) RequestsForDoctor(ctx context.Context, doctorEmail string, status connection.RequestStatus) ([]*connection.ConnectionRequest, error) {
	requests, err := s.repo.ListRequestsByDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	if status == "" {
		return requests, nil
	}
	filtered := requests[:0:0]
	for _, r := range requests {
		if r.Status == status {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// RequestsByStatus lists requests across all doctors, for the admin view.
func (s *ConnectionService) RequestsByStatus(ctx context.Context, status connection.RequestStatus) ([]*connection.ConnectionRequest, error) {
	if status != "" && !status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status must be pending, accepted or rejected"}}
	}
	return s.repo.ListRequestsByStatus(ctx, status)
}

// StatusForPatient is the patient-facing view of their latest request.
func (s *ConnectionService) StatusForPatient(ctx context.Context, patientEmail string) (*connection.ConnectionStatus, error) {
	req, err := s.repo.LatestRequestByPatient(ctx, patientEmail)
	if err != nil {
		if errors.Is(err, connection.ErrRequestNotFound) {
			return &connection.ConnectionStatus{HasRequest: false}, nil
		}
		return nil, err
	}

	doctorName := "Unknown Doctor"
	if d, err := s.profiles.GetDoctorByEmail(ctx, req.DoctorEmail); err == nil && d.Name != "" {
		doctorName = d.Name
	}

	return &connection.ConnectionStatus{
		HasRequest:       true,
		Status:           req.Status,
		DoctorEmail:      req.DoctorEmail,
		DoctorName:       doctorName,
		RejectionMessage: req.RejectionMessage,
	}, nil
}

// AssignedDoctor returns the patient's current doctor profile, or nil when no
// doctor is assigned.
func (s *ConnectionService) AssignedDoctor(ctx context.Context, patientEmail string) (*profile.DoctorProfile, error) {
	assignment, err := s.repo.GetAssignment(ctx, patientEmail)
	if err != nil {
		if errors.Is(err, connection.ErrAssignmentNotFound) {
			return nil, nil
		}
		return nil, err
	}
	d, err := s.profiles.GetDoctorByEmail(ctx, assignment.DoctorEmail)
	if err != nil {
		if errors.Is(err, profile.ErrDoctorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// PatientOverview is one row in a doctor's patient list.
type PatientOverview struct {
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	DateOfBirth  string              `json:"date_of_birth"`
	Gender       string              `json:"gender"`
	Conditions   []string            `json:"conditions"`
	ReportsCount int                 `json:"reports_count"`
	LastReport   *report.Summary     `json:"last_report,omitempty"`
	StatusCounts report.StatusCounts `json:"status_counts"`
}

// PatientsForDoctor assembles the doctor's patient roster with per-patient
// report roll-ups.
func (s *ConnectionService) PatientsForDoctor(ctx context.Context, doctorEmail string) ([]PatientOverview, error) {
	assignments, err := s.repo.ListAssignmentsByDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	if len(assignments) == 0 {
		return []PatientOverview{}, nil
	}

	overviews := make([]PatientOverview, 0, len(assignments))
	for _, a := range assignments {
		ov := PatientOverview{
			Email: a.PatientEmail,
			Name:  "Unknown",
			Phone: "N/A",
		}
		if p, err := s.profiles.GetPatientByEmail(ctx, a.PatientEmail); err == nil {
			if p.Name != "" {
				ov.Name = p.Name
			}
			if p.Phone != "" {
				ov.Phone = p.Phone
			}
			ov.DateOfBirth = p.DateOfBirth
			ov.Gender = p.Gender
			ov.Conditions = p.MedicalConditions
		}

		history, err := s.reports.ListByUser(ctx, a.PatientEmail)
		if err != nil {
			return nil, fmt.Errorf("loading patient reports: %w", err)
		}
		ov.ReportsCount = len(history)
		for _, r := range history {
			ov.StatusCounts.Add(r.AISummary.Severity)
		}
		if len(history) > 0 {
			last := history[len(history)-1].Summarize()
			ov.LastReport = &last
		}

		overviews = append(overviews, ov)
	}
	return overviews, nil
}

// IsAssigned reports whether the patient is currently assigned to the doctor.
func (s *ConnectionService) IsAssigned(ctx context.Context, doctorEmail, patientEmail string) (bool, error) {
	assignment, err := s.repo.GetAssignment(ctx, patientEmail)
	if err != nil {
		if errors.Is(err, connection.ErrAssignmentNotFound) {
			return false, nil
		}
		return false, err
	}
	return strings.EqualFold(assignment.DoctorEmail, doctorEmail), nil
}

// PatientEmailsForDoctor returns the emails of the doctor's assigned
// patients, for dashboard aggregation.
func (s *ConnectionService) PatientEmailsForDoctor(ctx context.Context, doctorEmail string) ([]string, error) {
	assignments, err := s.repo.ListAssignmentsByDoctor(ctx, doctorEmail)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	emails := make([]string, 0, len(assignments))
	for _, a := range assignments {
		emails = append(emails, a.PatientEmail)
	}
	return emails, nil
}
