// Package auth provides authentication and authorization domain logic.
package auth

import (
	"context"
	"time"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
)

// UserStatus is the account state.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

// User represents a back-office or resident account. Every user carries
// exactly one role; the role cannot be deleted while users reference it.
type User struct {
	ID                  id.ID      `db:"id" json:"id"`
	Email               string     `db:"email" json:"email"`
	PasswordHash        string     `db:"password_hash" json:"-"`
	Name                string     `db:"name" json:"name"`
	Surname             string     `db:"surname" json:"surname"`
	Phone               string     `db:"phone" json:"phone,omitempty"`
	RoleID              id.ID      `db:"role_id" json:"roleId"`
	ResidentID          *id.ID     `db:"resident_id" json:"residentId,omitempty"`
	Status              UserStatus `db:"status" json:"status"`
	BuildingAccess      []string   `db:"building_access" json:"buildingAccess,omitempty"`
	IsUsingMobileApp    bool       `db:"is_using_mobile_app" json:"isUsingMobileApp"`
	LastLoginAt         *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	FailedLoginAttempts int        `db:"failed_login_attempts" json:"-"`
	LockedUntil         *time.Time `db:"locked_until" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updatedAt"`
	Version             int        `db:"version" json:"version"`

	// Loaded relation
	Role *Role `db:"-" json:"role,omitempty"`
}

// NewUser creates an active user.
func NewUser(email, passwordHash string, roleID id.ID) *User {
	now := time.Now()
	return &User{
		ID:           id.New(),
		Email:        email,
		PasswordHash: passwordHash,
		RoleID:       roleID,
		Status:       UserActive,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}
}

// Validate validates user data. Role assignment is mandatory.
func (u *User) Validate(ctx context.Context) error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if id.IsNil(u.RoleID) {
		return apperror.NewValidation("role is required").WithDetail("field", "roleId")
	}
	switch u.Status {
	case UserActive, UserInactive, UserSuspended:
	default:
		return apperror.NewValidation("invalid user status").
			WithDetail("field", "status").
			WithDetail("value", string(u.Status))
	}
	return nil
}

// IsLocked returns true if the account is temporarily locked.
func (u *User) IsLocked() bool {
	if u.LockedUntil == nil {
		return false
	}
	return time.Now().Before(*u.LockedUntil)
}

// CanLogin checks if the user can login.
func (u *User) CanLogin() error {
	if u.Status != UserActive {
		return apperror.NewForbidden("account is disabled")
	}
	if u.IsLocked() {
		return apperror.NewForbidden("account is temporarily locked")
	}
	return nil
}

// RecordFailedLogin increments the failed login counter.
func (u *User) RecordFailedLogin(maxAttempts int, lockDuration time.Duration) {
	u.FailedLoginAttempts++
	if u.FailedLoginAttempts >= maxAttempts {
		lockUntil := time.Now().Add(lockDuration)
		u.LockedUntil = &lockUntil
	}
}

// RecordSuccessfulLogin resets the failed login counter.
func (u *User) RecordSuccessfulLogin() {
	u.FailedLoginAttempts = 0
	u.LockedUntil = nil
	now := time.Now()
	u.LastLoginAt = &now
}

// HasPermission checks the user's role permission set. The "*" wildcard
// grants everything.
func (u *User) HasPermission(permission string) bool {
	if u.Role == nil {
		return false
	}
	return u.Role.Grants(permission)
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	if u.Name == "" && u.Surname == "" {
		return u.Email
	}
	if u.Surname == "" {
		return u.Name
	}
	if u.Name == "" {
		return u.Surname
	}
	return u.Name + " " + u.Surname
}

// Role carries a flat permission string set.
type Role struct {
	ID          id.ID     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Permissions []string  `db:"permissions" json:"permissions"`
	IsSystem    bool      `db:"is_system" json:"isSystem"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// NewRole creates a role.
func NewRole(code, name string, permissions []string) *Role {
	now := time.Now()
	return &Role{
		ID:          id.New(),
		Code:        code,
		Name:        name,
		Permissions: permissions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Grants reports whether the role permits the action.
func (r *Role) Grants(permission string) bool {
	for _, p := range r.Permissions {
		if p == PermissionAll || p == permission {
			return true
		}
	}
	return false
}

// RefreshToken represents a refresh token for JWT renewal.
type RefreshToken struct {
	ID            id.ID      `db:"id"`
	UserID        id.ID      `db:"user_id"`
	TokenHash     string     `db:"token_hash"`
	ExpiresAt     time.Time  `db:"expires_at"`
	CreatedAt     time.Time  `db:"created_at"`
	RevokedAt     *time.Time `db:"revoked_at"`
	RevokedReason string     `db:"revoked_reason"`
	UserAgent     string     `db:"user_agent"`
	IPAddress     string     `db:"ip_address"`
}

// IsValid checks if the refresh token is usable.
func (t *RefreshToken) IsValid() bool {
	if t.RevokedAt != nil {
		return false
	}
	return time.Now().Before(t.ExpiresAt)
}

// TokenPair contains access and refresh tokens.
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	TokenType    string    `json:"tokenType"`
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUserRequest for user creation by an administrator.
type CreateUserRequest struct {
	Email          string   `json:"email"`
	Password       string   `json:"password"`
	Name           string   `json:"name,omitempty"`
	Surname        string   `json:"surname,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	RoleCode       string   `json:"roleCode"`
	ResidentID     *id.ID   `json:"residentId,omitempty"`
	BuildingAccess []string `json:"buildingAccess,omitempty"`
}
