package site

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a missing construction site.
	ErrNotFound = errors.New("construction site not found")
	// ErrDuplicateName signals a duplicate site name.
	ErrDuplicateName = errors.New("site name already registered")
	// ErrInvalidStatus indicates an unsupported site status.
	ErrInvalidStatus = errors.New("invalid site status")
)

// Status describes a site's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusPlanned   Status = "planned"
	StatusCompleted Status = "completed"
	StatusSuspended Status = "suspended"
)

// ValidStatus reports whether the status is supported.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusPlanned, StatusCompleted, StatusSuspended:
		return true
	}
	return false
}

// Site models a construction site where fleet vehicles operate.
type Site struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Description    string     `json:"description,omitempty"`
	Status         Status     `json:"status"`
	OrganizationID string     `json:"organization_id,omitempty"`
	DateStart      time.Time  `json:"date_start"`
	DateEnd        *time.Time `json:"date_end,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
