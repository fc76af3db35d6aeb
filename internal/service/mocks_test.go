package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/labtrends/labtrends/internal/domain"
	"github.com/labtrends/labtrends/internal/domain/connection"
	"github.com/labtrends/labtrends/internal/domain/profile"
	"github.com/labtrends/labtrends/internal/domain/report"
	"github.com/labtrends/labtrends/pkg/metrics"
	"go.uber.org/zap"
)

// testCollector is shared: prometheus collectors register globally, so each
// test binary may construct the set only once.
var testCollector = metrics.NewCollector("servicetest")

func newTestAuditService() *AuditService {
	return NewAuditService(&mockAuditRepo{}, testCollector, zap.NewNop())
}

type mockAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func (m *mockAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

type mockReportRepo struct {
	reports []*report.Report
	err     error
}

func (m *mockReportRepo) Create(_ context.Context, r *report.Report) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, r)
	return nil
}

func (m *mockReportRepo) GetByFileID(_ context.Context, fileID string) (*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.reports {
		if r.FileID == fileID {
			return r, nil
		}
	}
	return nil, report.ErrReportNotFound
}

func (m *mockReportRepo) ListByUser(_ context.Context, userEmail string) ([]*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*report.Report
	for _, r := range m.reports {
		if r.UserEmail == userEmail {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

func (m *mockReportRepo) ListByUsers(_ context.Context, userEmails []string) ([]*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	wanted := make(map[string]bool, len(userEmails))
	for _, e := range userEmails {
		wanted[e] = true
	}
	var out []*report.Report
	for _, r := range m.reports {
		if wanted[r.UserEmail] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

func (m *mockReportRepo) ListAll(_ context.Context) ([]*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reports, nil
}

func (m *mockReportRepo) ListRecent(_ context.Context, limit int) ([]*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	sorted := make([]*report.Report, len(m.reports))
	copy(sorted, m.reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UploadedAt.After(sorted[j].UploadedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *mockReportRepo) CountByUser(_ context.Context, userEmail string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var n int64
	for _, r := range m.reports {
		if r.UserEmail == userEmail {
			n++
		}
	}
	return n, nil
}

func (m *mockReportRepo) SetDoctorComment(_ context.Context, fileID, comment string) error {
	if m.err != nil {
		return m.err
	}
	for _, r := range m.reports {
		if r.FileID == fileID {
			r.DoctorComment = comment
			return nil
		}
	}
	return report.ErrReportNotFound
}

func (m *mockReportRepo) DeleteByFileID(_ context.Context, fileID string) error {
	if m.err != nil {
		return m.err
	}
	for i, r := range m.reports {
		if r.FileID == fileID {
			m.reports = append(m.reports[:i], m.reports[i+1:]...)
			return nil
		}
	}
	return report.ErrReportNotFound
}

type mockConnectionRepo struct {
	requests    map[string]*connection.ConnectionRequest
	assignments map[string]*connection.AssignedDoctor // keyed by patient email
}

func newMockConnectionRepo() *mockConnectionRepo {
	return &mockConnectionRepo{
		requests:    make(map[string]*connection.ConnectionRequest),
		assignments: make(map[string]*connection.AssignedDoctor),
	}
}

func (m *mockConnectionRepo) CreateRequest(_ context.Context, r *connection.ConnectionRequest) error {
	if _, ok := m.requests[r.RequestID]; ok {
		return connection.ErrRequestAlreadyExists
	}
	m.requests[r.RequestID] = r
	return nil
}

func (m *mockConnectionRepo) GetRequestByID(_ context.Context, requestID string) (*connection.ConnectionRequest, error) {
	r, ok := m.requests[requestID]
	if !ok {
		return nil, connection.ErrRequestNotFound
	}
	return r, nil
}

func (m *mockConnectionRepo) ListRequestsByDoctor(_ context.Context, doctorEmail string) ([]*connection.ConnectionRequest, error) {
	var out []*connection.ConnectionRequest
	for _, r := range m.requests {
		if r.DoctorEmail == doctorEmail {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RequestDate.After(out[j].RequestDate)
	})
	return out, nil
}

func (m *mockConnectionRepo) ListRequestsByStatus(_ context.Context, status connection.RequestStatus) ([]*connection.ConnectionRequest, error) {
	var out []*connection.ConnectionRequest
	for _, r := range m.requests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockConnectionRepo) LatestRequestByPatient(_ context.Context, patientEmail string) (*connection.ConnectionRequest, error) {
	var latest *connection.ConnectionRequest
	for _, r := range m.requests {
		if r.PatientEmail != patientEmail {
			continue
		}
		if latest == nil || r.RequestDate.After(latest.RequestDate) {
			latest = r
		}
	}
	if latest == nil {
		return nil, connection.ErrRequestNotFound
	}
	return latest, nil
}

func (m *mockConnectionRepo) SaveAccepted(_ context.Context, r *connection.ConnectionRequest) error {
	m.requests[r.RequestID] = r
	m.assignments[r.PatientEmail] = &connection.AssignedDoctor{
		PatientEmail: r.PatientEmail,
		DoctorEmail:  r.DoctorEmail,
	}
	return nil
}

func (m *mockConnectionRepo) SaveRejected(_ context.Context, r *connection.ConnectionRequest) error {
	m.requests[r.RequestID] = r
	delete(m.assignments, r.PatientEmail)
	return nil
}

func (m *mockConnectionRepo) GetAssignment(_ context.Context, patientEmail string) (*connection.AssignedDoctor, error) {
	a, ok := m.assignments[patientEmail]
	if !ok {
		return nil, connection.ErrAssignmentNotFound
	}
	return a, nil
}

func (m *mockConnectionRepo) ListAssignmentsByDoctor(_ context.Context, doctorEmail string) ([]*connection.AssignedDoctor, error) {
	var out []*connection.AssignedDoctor
	for _, a := range m.assignments {
		if a.DoctorEmail == doctorEmail {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PatientEmail < out[j].PatientEmail
	})
	return out, nil
}

type mockProfileRepo struct {
	patients map[string]*profile.PatientProfile
	doctors  map[string]*profile.DoctorProfile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		patients: make(map[string]*profile.PatientProfile),
		doctors:  make(map[string]*profile.DoctorProfile),
	}
}

func (m *mockProfileRepo) UpsertPatient(_ context.Context, p *profile.PatientProfile) error {
	m.patients[strings.ToLower(p.Email)] = p
	return nil
}

func (m *mockProfileRepo) GetPatientByEmail(_ context.Context, email string) (*profile.PatientProfile, error) {
	p, ok := m.patients[strings.ToLower(email)]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (m *mockProfileRepo) ListPatientsByEmails(_ context.Context, emails []string) ([]*profile.PatientProfile, error) {
	var out []*profile.PatientProfile
	for _, e := range emails {
		if p, ok := m.patients[strings.ToLower(e)]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProfileRepo) UpsertDoctor(_ context.Context, d *profile.DoctorProfile) error {
	m.doctors[strings.ToLower(d.DoctorEmail)] = d
	return nil
}

func (m *mockProfileRepo) GetDoctorByEmail(_ context.Context, email string) (*profile.DoctorProfile, error) {
	d, ok := m.doctors[strings.ToLower(email)]
	if !ok {
		return nil, profile.ErrDoctorNotFound
	}
	return d, nil
}

func (m *mockProfileRepo) ListDoctors(_ context.Context) ([]*profile.DoctorProfile, error) {
	var out []*profile.DoctorProfile
	for _, d := range m.doctors {
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type stubAnnotator struct {
	raw *report.RawAnnotation
	err error
}

func (s *stubAnnotator) Analyze(_ context.Context, _ string) (*report.RawAnnotation, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}
