package driver

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a missing driver.
	ErrNotFound = errors.New("driver not found")
	// ErrDuplicateLicense signals a duplicate license number.
	ErrDuplicateLicense = errors.New("license number already registered")
	// ErrInvalidStatus indicates an unsupported driver status.
	ErrInvalidStatus = errors.New("invalid driver status")
)

// Status describes a driver's employment state.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusFired     Status = "fired"
	StatusVacation  Status = "vacation"
)

// ValidStatus reports whether the status is supported.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusSuspended, StatusFired, StatusVacation:
		return true
	}
	return false
}

// Driver models a fleet driver record.
type Driver struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	LicenseNumber   string    `json:"license_number"`
	LicenseCategory string    `json:"license_category"`
	LicenseExpiry   time.Time `json:"license_expiry"`
	Phone           string    `json:"phone"`
	Email           string    `json:"email"`
	Organization    string    `json:"organization,omitempty"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
