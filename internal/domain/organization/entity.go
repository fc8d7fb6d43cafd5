package organization

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a missing organization.
	ErrNotFound = errors.New("organization not found")
	// ErrDuplicate signals a duplicate organization name or INN.
	ErrDuplicate = errors.New("organization name or INN already registered")
	// ErrInvalidLegalForm indicates an unsupported legal form.
	ErrInvalidLegalForm = errors.New("invalid legal form")
)

// LegalForm describes the legal structure of an organization.
type LegalForm string

const (
	FormLLC   LegalForm = "LLC"
	FormJSC   LegalForm = "JSC"
	FormIE    LegalForm = "IE"
	FormPE    LegalForm = "PE"
	FormOther LegalForm = "OTHER"
)

// ValidLegalForm reports whether the legal form is supported.
func ValidLegalForm(f LegalForm) bool {
	switch f {
	case FormLLC, FormJSC, FormIE, FormPE, FormOther:
		return true
	}
	return false
}

// Organization models a contractor or owner company.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	INN       string    `json:"inn"`
	OGRN      string    `json:"ogrn"`
	LegalForm LegalForm `json:"legal_form"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Director  string    `json:"director,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
