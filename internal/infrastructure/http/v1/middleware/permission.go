package middleware

import (
	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	appctx "domus/internal/core/context"
)

// RequirePermission middleware checks if user has required permission.
// The "*" wildcard in the user's permission set grants everything.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if appctx.GetUser(ctx) == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		if !appctx.HasPermission(ctx, permission) {
			_ = c.Error(
				apperror.NewForbidden("insufficient permissions").
					WithDetail("required_permission", permission),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyPermission middleware checks if user has any of the required permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if appctx.GetUser(ctx) == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		for _, required := range permissions {
			if appctx.HasPermission(ctx, required) {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_permissions", permissions),
		)
		c.Abort()
	}
}

// RequireBuildingAccess checks building-scoped access using the given
// path parameter. Users with an empty building list may access all.
func RequireBuildingAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if appctx.GetUser(ctx) == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		buildingID := c.Param(param)
		if buildingID != "" && !appctx.HasBuildingAccess(ctx, buildingID) {
			_ = c.Error(
				apperror.NewForbidden("no access to building").
					WithDetail("building_id", buildingID),
			)
			c.Abort()
			return
		}

		c.Next()
	}
}
