// Package resident provides the Resident catalog (people living in apartments).
package resident

import (
	"context"
	"regexp"

	"domus/internal/core/apperror"
	"domus/internal/core/entity"
	"domus/internal/core/id"
)

// Role defines the resident's relation to the apartment.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleTenant Role = "tenant"
	RoleGuest  Role = "guest"
)

// Resident is a person attached to an apartment.
type Resident struct {
	entity.BaseEntity

	ApartmentID id.ID  `db:"apartment_id" json:"apartmentId"`
	Name        string `db:"name" json:"name"`
	Surname     string `db:"surname" json:"surname"`
	Phone       string `db:"phone" json:"phone,omitempty"`
	Email       string `db:"email" json:"email,omitempty"`
	Role        Role   `db:"role" json:"role"`

	// IsMainContact: at most one per apartment
	IsMainContact bool `db:"is_main_contact" json:"isMainContact"`
}

// New creates a Resident with defaults.
func New(apartmentID id.ID, name, surname string, role Role) *Resident {
	return &Resident{
		BaseEntity:  entity.NewBaseEntity(),
		ApartmentID: apartmentID,
		Name:        name,
		Surname:     surname,
		Role:        role,
	}
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate implements entity.Validatable.
func (r *Resident) Validate(ctx context.Context) error {
	if id.IsNil(r.ApartmentID) {
		return apperror.NewValidation("apartment is required").WithDetail("field", "apartmentId")
	}
	if r.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if r.Surname == "" {
		return apperror.NewValidation("surname is required").WithDetail("field", "surname")
	}
	switch r.Role {
	case RoleOwner, RoleTenant, RoleGuest:
	default:
		return apperror.NewValidation("invalid resident role").
			WithDetail("field", "role").
			WithDetail("value", string(r.Role))
	}
	if r.Email != "" && !emailRe.MatchString(r.Email) {
		return apperror.NewValidation("invalid email").WithDetail("field", "email")
	}
	return nil
}

// FullName returns "Name Surname".
func (r *Resident) FullName() string {
	return r.Name + " " + r.Surname
}
