package service

import (
	"errors"
	"strings"
)

var (
	ErrForbidden     = errors.New("forbidden: insufficient permissions")
	ErrUnknownMetric = errors.New("unknown metric id")
)

type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

type AuditEntry struct {
	UserEmail    string
	UserRole     string
	Action       string
	ResourceType string
	ResourceID   string
	IPAddress    string
	RequestID    string
	Changes      string
}
