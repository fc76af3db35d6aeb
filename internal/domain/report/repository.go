package report

import "context"

type Repository interface {
	Create(ctx context.Context, r *Report) error
	GetByFileID(ctx context.Context, fileID string) (*Report, error)
	// ListByUser returns the user's full history ordered by uploaded_at
	// ascending, ties broken by insertion order.
	ListByUser(ctx context.Context, userEmail string) ([]*Report, error)
	ListByUsers(ctx context.Context, userEmails []string) ([]*Report, error)
	ListAll(ctx context.Context) ([]*Report, error)
	ListRecent(ctx context.Context, limit int) ([]*Report, error)
	CountByUser(ctx context.Context, userEmail string) (int64, error)
	SetDoctorComment(ctx context.Context, fileID, comment string) error
	DeleteByFileID(ctx context.Context, fileID string) error
}
