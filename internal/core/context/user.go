// Package context carries request-scoped identity and trace values
// through context.Context, so domain services can read who acts
// without depending on the HTTP layer.
package context

import (
	"context"
)

// UserContext is the authenticated caller as resolved from the access
// token. BuildingIDs scopes the account to specific buildings; an
// empty list means the whole portfolio.
type UserContext struct {
	UserID      string
	Email       string
	Role        string
	Permissions []string
	BuildingIDs []string
}

type userContextKey struct{}

func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns the caller, or nil outside an authenticated request.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns the caller's id, or "" when the context carries no
// user. Ledger and audit writers use it to stamp who acted.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// HasPermission reports whether the caller holds the permission. The
// "*" wildcard grants everything.
func HasPermission(ctx context.Context, permission string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	for _, p := range u.Permissions {
		if p == "*" || p == permission {
			return true
		}
	}
	return false
}

// HasBuildingAccess reports whether the caller may operate on the
// building.
func HasBuildingAccess(ctx context.Context, buildingID string) bool {
	u := GetUser(ctx)
	if u == nil {
		return false
	}
	if len(u.BuildingIDs) == 0 {
		return true
	}
	for _, allowed := range u.BuildingIDs {
		if allowed == buildingID {
			return true
		}
	}
	return false
}
