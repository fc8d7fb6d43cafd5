package vehicle

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a missing vehicle.
	ErrNotFound = errors.New("vehicle not found")
	// ErrDuplicateRegistration signals a duplicate registration number or VIN.
	ErrDuplicateRegistration = errors.New("registration number or VIN already registered")
	// ErrInvalidStatus indicates an unsupported vehicle status.
	ErrInvalidStatus = errors.New("invalid vehicle status")
)

// Status describes a vehicle's operational state.
type Status string

const (
	StatusActive Status = "active"
	StatusIdle   Status = "idle"
	StatusRepair Status = "repair"
)

// ValidStatus reports whether the status is supported.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusIdle, StatusRepair:
		return true
	}
	return false
}

// Vehicle models a fleet vehicle record. VIN is stored uppercased.
type Vehicle struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	VIN                string    `json:"vin"`
	Brand              string    `json:"brand"`
	Model              string    `json:"model"`
	Year               int       `json:"year"`
	Color              string    `json:"color,omitempty"`
	Organization       string    `json:"organization,omitempty"`
	Status             Status    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
