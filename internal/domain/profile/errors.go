package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrDoctorNotFound  = errors.New("doctor profile not found")
)
