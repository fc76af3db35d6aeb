package repository

import (
	"context"
	"errors"

	"github.com/labtrends/labtrends/internal/domain/report"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *report.Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *ReportRepository) GetByFileID(ctx context.Context, fileID string) (*report.Report, error) {
	var rep report.Report
	err := r.db.WithContext(ctx).Where("file_id = ?", fileID).First(&rep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// ListByUser orders by uploaded_at with created_at as the tie-break, since
// upload timestamps come from clients and are not monotonic with insertion.
func (r *ReportRepository) ListByUser(ctx context.Context, userEmail string) ([]*report.Report, error) {
	var reports []*report.Report
	err := r.db.WithContext(ctx).
		Where("user_email = ?", userEmail).
		Order("uploaded_at ASC").
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) ListByUsers(ctx context.Context, userEmails []string) ([]*report.Report, error) {
	var reports []*report.Report
	err := r.db.WithContext(ctx).
		Where("user_email IN ?", userEmails).
		Order("uploaded_at ASC").
		Order("created_at ASC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) ListAll(ctx context.Context) ([]*report.Report, error) {
	var reports []*report.Report
	err := r.db.WithContext(ctx).
		Order("uploaded_at ASC").
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]*report.Report, error) {
	var reports []*report.Report
	err := r.db.WithContext(ctx).
		Order("uploaded_at DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) CountByUser(ctx context.Context, userEmail string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Where("user_email = ?", userEmail).
		Count(&count).Error
	return count, err
}

func (r *ReportRepository) SetDoctorComment(ctx context.Context, fileID, comment string) error {
	res := r.db.WithContext(ctx).
		Model(&report.Report{}).
		Where("file_id = ?", fileID).
		Update("doctor_comment", comment)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) DeleteByFileID(ctx context.Context, fileID string) error {
	res := r.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&report.Report{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return report.ErrReportNotFound
	}
	return nil
}
