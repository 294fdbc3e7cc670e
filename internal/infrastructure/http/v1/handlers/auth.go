package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"domus/internal/core/apperror"
	appctx "domus/internal/core/context"
	"domus/internal/core/id"
	"domus/internal/domain/auth"
	"domus/internal/infrastructure/http/v1/dto"
)

// AuthHandler handles authentication and user administration endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), req.ToCredentials())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Tokens: tokens,
		User:   user,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	if err := h.service.Logout(ctx, userID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// CreateUser handles POST /users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser handles GET /users/:id
func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	var query dto.UserListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	users, total, err := h.service.ListUsers(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      users,
		TotalCount: int64(total),
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
}

// ChangeUserRole handles PUT /users/:id/role
func (h *AuthHandler) ChangeUserRole(c *gin.Context) {
	userID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.ChangeRole(c.Request.Context(), userID, req.RoleCode); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "role updated")
}

// ListRoles handles GET /roles
func (h *AuthHandler) ListRoles(c *gin.Context) {
	roles, err := h.service.ListRoles(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, roles)
}

// CreateRole handles POST /roles
func (h *AuthHandler) CreateRole(c *gin.Context) {
	var req dto.CreateRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, err := h.service.CreateRole(c.Request.Context(), req.Code, req.Name, req.Description, req.Permissions)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, role)
}

// DeleteRole handles DELETE /roles/:id
func (h *AuthHandler) DeleteRole(c *gin.Context) {
	roleID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRole(c.Request.Context(), roleID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) currentUserID(c *gin.Context) (id.ID, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return id.Nil(), false
	}
	userID, err := id.Parse(user.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return id.Nil(), false
	}
	return userID, true
}
