package profile

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile carries the demographic and medical background a doctor sees
// next to a patient's reports. It is keyed by account email.
type PatientProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Email       string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Name        string `gorm:"column:name;type:varchar(200)"`
	Phone       string `gorm:"column:phone;type:varchar(30)"`
	DateOfBirth string `gorm:"column:date_of_birth;type:varchar(20)"`
	Gender      string `gorm:"column:gender;type:varchar(20)"`
	BloodType   string `gorm:"column:blood_type;type:varchar(5)"`
	Height      string `gorm:"column:height;type:varchar(20)"`
	Weight      string `gorm:"column:weight;type:varchar(20)"`
	Address     string `gorm:"column:address;type:text"`

	MedicalConditions []string `gorm:"column:medical_conditions;serializer:json"`
	Allergies         []string `gorm:"column:allergies;serializer:json"`
	Medications       []string `gorm:"column:medications;serializer:json"`

	UnitPreference string `gorm:"column:unit_preference;type:varchar(20);default:'metric'"`
}

func (PatientProfile) TableName() string {
	return "clinical.patient_profiles"
}

type DoctorStatus string

const (
	DoctorActive    DoctorStatus = "active"
	DoctorInactive  DoctorStatus = "inactive"
	DoctorSuspended DoctorStatus = "suspended"
)

// DoctorProfile is a doctor's public card shown to patients picking a doctor
// and used for the display name in rejection messages.
type DoctorProfile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	DoctorEmail    string `gorm:"column:doctor_email;type:varchar(255);uniqueIndex;not null"`
	Name           string `gorm:"column:name;type:varchar(200);not null"`
	Specialization string `gorm:"column:specialization;type:varchar(200)"`
	Phone          string `gorm:"column:phone;type:varchar(30)"`
	LicenseNumber  string `gorm:"column:license_number;type:varchar(100)"`

	Status   DoctorStatus `gorm:"column:status;type:varchar(20);not null;default:'active';index"`
	JoinDate string       `gorm:"column:join_date;type:varchar(20)"`
}

func (DoctorProfile) TableName() string {
	return "clinical.doctor_profiles"
}
