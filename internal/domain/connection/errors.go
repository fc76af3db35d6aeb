package connection

import "errors"

var (
	ErrRequestNotFound        = errors.New("connection request not found")
	ErrRequestAlreadyExists   = errors.New("connection request id already exists")
	ErrRequestAlreadyResolved = errors.New("connection request has already been accepted or rejected")
	ErrAssignmentNotFound     = errors.New("no doctor is assigned to this patient")
)
