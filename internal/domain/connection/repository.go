package connection

import "context"

type Repository interface {
	CreateRequest(ctx context.Context, r *ConnectionRequest) error
	GetRequestByID(ctx context.Context, requestID string) (*ConnectionRequest, error)
	ListRequestsByDoctor(ctx context.Context, doctorEmail string) ([]*ConnectionRequest, error)
	ListRequestsByStatus(ctx context.Context, status RequestStatus) ([]*ConnectionRequest, error)
	// LatestRequestByPatient returns the patient's most recent request, or
	// ErrRequestNotFound when they have never sent one.
	LatestRequestByPatient(ctx context.Context, patientEmail string) (*ConnectionRequest, error)

	// SaveAccepted persists the accepted request and replaces the patient's
	// doctor assignment in one transaction.
	SaveAccepted(ctx context.Context, r *ConnectionRequest) error
	// SaveRejected persists the rejected request and deletes any assignment
	// for the patient in one transaction. A missing assignment is not an
	// error.
	SaveRejected(ctx context.Context, r *ConnectionRequest) error

	GetAssignment(ctx context.Context, patientEmail string) (*AssignedDoctor, error)
	ListAssignmentsByDoctor(ctx context.Context, doctorEmail string) ([]*AssignedDoctor, error)
}
