package repository

import (
	"context"
	"errors"

	"github.com/labtrends/labtrends/internal/domain/connection"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

func (r *ConnectionRepository) CreateRequest(ctx context.Context, req *connection.ConnectionRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return connection.ErrRequestAlreadyExists
	}
	return err
}

func (r *ConnectionRepository) GetRequestByID(ctx context.Context, requestID string) (*connection.ConnectionRequest, error) {
	var req connection.ConnectionRequest
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connection.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *ConnectionRepository) ListRequestsByDoctor(ctx context.Context, doctorEmail string) ([]*connection.ConnectionRequest, error) {
	var requests []*connection.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("doctor_email = ?", doctorEmail).
		Order("request_date DESC").
		Find(&requests).Error
	return requests, err
}

func (r *ConnectionRepository) ListRequestsByStatus(ctx context.Context, status connection.RequestStatus) ([]*connection.ConnectionRequest, error) {
	q := r.db.WithContext(ctx).Order("request_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var requests []*connection.ConnectionRequest
	err := q.Find(&requests).Error
	return requests, err
}

func (r *ConnectionRepository) LatestRequestByPatient(ctx context.Context, patientEmail string) (*connection.ConnectionRequest, error) {
	var req connection.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("patient_email = ?", patientEmail).
		Order("request_date DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connection.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

// SaveAccepted writes the resolved request and replaces the patient's
// assignment in one transaction. The single-row upsert keyed by patient email
// is what keeps concurrent resolutions for the same patient from
// interleaving.
func (r *ConnectionRepository) SaveAccepted(ctx context.Context, req *connection.ConnectionRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		assignment := &connection.AssignedDoctor{
			PatientEmail: req.PatientEmail,
			DoctorEmail:  req.DoctorEmail,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "patient_email"}},
			DoUpdates: clause.AssignmentColumns([]string{"doctor_email", "updated_at"}),
		}).Create(assignment).Error
	})
}

// SaveRejected writes the resolved request and removes any assignment for the
// patient. Deleting a row that does not exist is a successful no-op.
func (r *ConnectionRepository) SaveRejected(ctx context.Context, req *connection.ConnectionRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		return tx.Where("patient_email = ?", req.PatientEmail).
			Delete(&connection.AssignedDoctor{}).Error
	})
}

func (r *ConnectionRepository) GetAssignment(ctx context.Context, patientEmail string) (*connection.AssignedDoctor, error) {
	var a connection.AssignedDoctor
	err := r.db.WithContext(ctx).Where("patient_email = ?", patientEmail).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, connection.ErrAssignmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ConnectionRepository) ListAssignmentsByDoctor(ctx context.Context, doctorEmail string) ([]*connection.AssignedDoctor, error) {
	var assignments []*connection.AssignedDoctor
	err := r.db.WithContext(ctx).
		Where("doctor_email = ?", doctorEmail).
		Find(&assignments).Error
	return assignments, err
}
