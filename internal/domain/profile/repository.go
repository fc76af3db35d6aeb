package profile

import "context"

type Repository interface {
	UpsertPatient(ctx context.Context, p *PatientProfile) error
	GetPatientByEmail(ctx context.Context, email string) (*PatientProfile, error)
	ListPatientsByEmails(ctx context.Context, emails []string) ([]*PatientProfile, error)

	UpsertDoctor(ctx context.Context, d *DoctorProfile) error
	GetDoctorByEmail(ctx context.Context, email string) (*DoctorProfile, error)
	ListDoctors(ctx context.Context) ([]*DoctorProfile, error)
}
