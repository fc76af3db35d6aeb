package connection

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// State transitions:
//
//	pending → accepted (assigns the doctor to the patient)
//	pending → rejected (removes any assignment, records a rejection message)
//
// accepted and rejected are terminal. A patient who wants to retry sends a
// new request with a new id.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are permitted.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ConnectionRequest is a patient's ask to be taken on by a doctor. Patient
// details are snapshotted at creation time so the doctor's inbox stays stable
// even if the profile changes later.
type ConnectionRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// RequestID is the client-supplied identifier, unique across requests.
	RequestID string `gorm:"column:request_id;type:varchar(64);uniqueIndex;not null"`

	DoctorEmail  string `gorm:"column:doctor_email;type:varchar(255);not null;index"`
	PatientEmail string `gorm:"column:patient_email;type:varchar(255);not null;index"`
	PatientName  string `gorm:"column:patient_name;type:varchar(200)"`
	PatientPhone string `gorm:"column:patient_phone;type:varchar(30)"`
	Message      string `gorm:"column:message;type:text"`

	// ReportsCount is the patient's report count at request time, shown in the
	// doctor's inbox.
	ReportsCount int64     `gorm:"column:reports_count;not null;default:0"`
	RequestDate  time.Time `gorm:"column:request_date;not null"`

	Status           RequestStatus `gorm:"column:status;type:varchar(20);not null;default:'pending';index"`
	RejectionMessage string        `gorm:"column:rejection_message;type:text"`

	ResolvedAt *time.Time `gorm:"column:resolved_at"`
}

func (ConnectionRequest) TableName() string {
	return "clinical.connection_requests"
}

func (r *ConnectionRequest) CanTransitionTo(newStatus RequestStatus) bool {
	allowed := map[RequestStatus][]RequestStatus{
		StatusPending:  {StatusAccepted, StatusRejected},
		StatusAccepted: {},
		StatusRejected: {},
	}
	for _, s := range allowed[r.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Accept marks the request accepted. The caller must then replace the
// patient's doctor assignment; the state check here is what keeps a late
// reject from clobbering an accepted assignment.
func (r *ConnectionRequest) Accept() error {
	if !r.CanTransitionTo(StatusAccepted) {
		return ErrRequestAlreadyResolved
	}
	now := time.Now()
	r.Status = StatusAccepted
	r.ResolvedAt = &now
	return nil
}

// Reject marks the request rejected and records a message naming the doctor.
// doctorName falls back to the doctor's email when no display name is on file.
func (r *ConnectionRequest) Reject(doctorName string) error {
	if !r.CanTransitionTo(StatusRejected) {
		return ErrRequestAlreadyResolved
	}
	if doctorName == "" {
		doctorName = r.DoctorEmail
	}
	now := time.Now()
	r.Status = StatusRejected
	r.RejectionMessage = fmt.Sprintf("Your request was rejected by Dr. %s", doctorName)
	r.ResolvedAt = &now
	return nil
}

// AssignedDoctor is the single active doctor relation for a patient.
// Last-writer-wins: created or overwritten by an accepted request, deleted by
// a rejected one. No history is kept.
type AssignedDoctor struct {
	PatientEmail string    `gorm:"column:patient_email;type:varchar(255);primaryKey"`
	DoctorEmail  string    `gorm:"column:doctor_email;type:varchar(255);not null;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (AssignedDoctor) TableName() string {
	return "clinical.assigned_doctors"
}

type SendRequestCommand struct {
	RequestID    string
	DoctorEmail  string
	PatientEmail string
	Message      string
	RequestDate  time.Time
}

// ConnectionStatus is the patient-facing view of their latest request.
type ConnectionStatus struct {
	HasRequest       bool          `json:"has_request"`
	Status           RequestStatus `json:"status,omitempty"`
	DoctorEmail      string        `json:"doctor_email,omitempty"`
	DoctorName       string        `json:"doctor_name,omitempty"`
	RejectionMessage string        `json:"rejection_message,omitempty"`
}
