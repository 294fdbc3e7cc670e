package dto

import (
	"domus/internal/core/id"
	"domus/internal/domain/auth"
)

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials maps the request to domain credentials.
func (r LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{Email: r.Email, Password: r.Password}
}

// LoginResponse carries tokens and the authenticated user.
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   *auth.User      `json:"user"`
}

// RefreshTokenRequest exchanges a refresh token for a new pair.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// CreateUserRequest registers a back-office user.
type CreateUserRequest struct {
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	Name           string   `json:"name"`
	Surname        string   `json:"surname"`
	Phone          string   `json:"phone"`
	RoleCode       string   `json:"roleCode" binding:"required"`
	ResidentID     *id.ID   `json:"residentId"`
	BuildingAccess []string `json:"buildingAccess"`
}

// ToDomain maps the request to the domain create request.
func (r CreateUserRequest) ToDomain() auth.CreateUserRequest {
	return auth.CreateUserRequest{
		Email:          r.Email,
		Password:       r.Password,
		Name:           r.Name,
		Surname:        r.Surname,
		Phone:          r.Phone,
		RoleCode:       r.RoleCode,
		ResidentID:     r.ResidentID,
		BuildingAccess: r.BuildingAccess,
	}
}

// ChangeRoleRequest assigns a different role to a user.
type ChangeRoleRequest struct {
	RoleCode string `json:"roleCode" binding:"required"`
}

// CreateRoleRequest defines a custom role.
type CreateRoleRequest struct {
	Code        string   `json:"code" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions" binding:"required"`
}

// UserListQuery filters the user listing.
type UserListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	RoleCode string `form:"roleCode"`
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}

// ToFilter maps the query to a domain filter.
func (q UserListQuery) ToFilter() auth.UserFilter {
	f := auth.UserFilter{
		Search:   q.Search,
		RoleCode: q.RoleCode,
		Limit:    q.Limit,
		Offset:   q.Offset,
	}
	if q.Status != "" {
		s := auth.UserStatus(q.Status)
		f.Status = &s
	}
	return f
}
