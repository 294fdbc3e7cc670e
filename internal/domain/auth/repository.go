package auth

import (
	"context"

	"domus/internal/core/id"
)

// UserRepository stores user accounts. Update uses optimistic locking
// on the entity version.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID id.ID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, userID id.ID) error
	List(ctx context.Context, filter UserFilter) ([]User, int, error)

	// Exists reports whether the email is already taken.
	Exists(ctx context.Context, email string) (bool, error)

	// CountByRole counts users holding the role, so role deletion can
	// be refused while the role is in use.
	CountByRole(ctx context.Context, roleID id.ID) (int, error)
}

// RoleRepository stores roles and their permission sets.
type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, roleID id.ID) (*Role, error)
	GetByCode(ctx context.Context, code string) (*Role, error)
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, roleID id.ID) error
	List(ctx context.Context) ([]Role, error)
}

// TokenRepository stores refresh tokens by hash.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error
	RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error
	CleanupExpiredTokens(ctx context.Context) (int, error)
}

// UserFilter narrows user listings.
type UserFilter struct {
	Search   string
	Status   *UserStatus
	RoleCode string
	Limit    int
	Offset   int
}
