package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/labtrends/labtrends/internal/domain/profile"
	"go.uber.org/zap"
)

type ProfileService struct {
	repo profile.Repository
	log  *zap.Logger
}

func NewProfileService(repo profile.Repository, log *zap.Logger) *ProfileService {
	return &ProfileService{repo: repo, log: log}
}

func (s *ProfileService) GetPatient(ctx context.Context, email string) (*profile.PatientProfile, error) {
	return s.repo.GetPatientByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *ProfileService) SavePatient(ctx context.Context, p *profile.PatientProfile) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Email == "" {
		return &ValidationError{Fields: []string{"email is required"}}
	}
	if err := s.repo.UpsertPatient(ctx, p); err != nil {
		s.log.Error("failed to save patient profile", zap.Error(err))
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

func (s *ProfileService) GetDoctor(ctx context.Context, email string) (*profile.DoctorProfile, error) {
	return s.repo.GetDoctorByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *ProfileService) SaveDoctor(ctx context.Context, d *profile.DoctorProfile) error {
	d.DoctorEmail = strings.ToLower(strings.TrimSpace(d.DoctorEmail))
	if d.DoctorEmail == "" || strings.TrimSpace(d.Name) == "" {
		return &ValidationError{Fields: []string{"doctor_email and name are required"}}
	}
	if d.Status == "" {
		d.Status = profile.DoctorActive
	}
	if err := s.repo.UpsertDoctor(ctx, d); err != nil {
		s.log.Error("failed to save doctor profile", zap.Error(err))
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// ListDoctors returns every doctor card for the patient-facing directory.
func (s *ProfileService) ListDoctors(ctx context.Context) ([]*profile.DoctorProfile, error) {
	return s.repo.ListDoctors(ctx)
}
