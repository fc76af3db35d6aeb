package repository

import (
	"context"
	"errors"

	"github.com/labtrends/labtrends/internal/domain/profile"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) UpsertPatient(ctx context.Context, p *profile.PatientProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "phone", "date_of_birth", "gender", "blood_type",
			"height", "weight", "address", "medical_conditions",
			"allergies", "medications", "unit_preference", "updated_at",
		}),
	}).Create(p).Error
}

func (r *ProfileRepository) GetPatientByEmail(ctx context.Context, email string) (*profile.PatientProfile, error) {
	var p profile.PatientProfile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) ListPatientsByEmails(ctx context.Context, emails []string) ([]*profile.PatientProfile, error) {
	var profiles []*profile.PatientProfile
	err := r.db.WithContext(ctx).Where("email IN ?", emails).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) UpsertDoctor(ctx context.Context, d *profile.DoctorProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doctor_email"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "specialization", "phone", "license_number",
			"status", "join_date", "updated_at",
		}),
	}).Create(d).Error
}

func (r *ProfileRepository) GetDoctorByEmail(ctx context.Context, email string) (*profile.DoctorProfile, error) {
	var d profile.DoctorProfile
	err := r.db.WithContext(ctx).Where("doctor_email = ?", email).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, profile.ErrDoctorNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *ProfileRepository) ListDoctors(ctx context.Context) ([]*profile.DoctorProfile, error) {
	var doctors []*profile.DoctorProfile
	err := r.db.WithContext(ctx).
		Where("status = ?", profile.DoctorActive).
		Order("name ASC").
		Find(&doctors).Error
	return doctors, err
}
