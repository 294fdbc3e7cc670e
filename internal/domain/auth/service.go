package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"domus/internal/core/apperror"
	appctx "domus/internal/core/context"
	"domus/internal/core/id"
	"domus/internal/core/tx"
	"domus/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts   int
	LockDuration       time.Duration
	PasswordMinLength  int
	RefreshTokenExpiry time.Duration
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:   5,
		LockDuration:       15 * time.Minute,
		PasswordMinLength:  8,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
	}
}

// Service provides authentication and authorization logic.
type Service struct {
	users      UserRepository
	roles      RoleRepository
	tokens     TokenRepository
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	users UserRepository,
	roles RoleRepository,
	tokens TokenRepository,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		users:      users,
		roles:      roles,
		tokens:     tokens,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// CreateUser creates an account. Role assignment is mandatory at creation.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	if req.RoleCode == "" {
		return nil, apperror.NewValidation("role is required").WithDetail("field", "roleCode")
	}

	role, err := s.roles.GetByCode(ctx, req.RoleCode)
	if err != nil {
		return nil, apperror.NewNotFound("role", req.RoleCode)
	}

	exists, err := s.users.Exists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(req.Email, string(passwordHash), role.ID)
	user.Name = req.Name
	user.Surname = req.Surname
	user.Phone = req.Phone
	user.ResidentID = req.ResidentID
	user.BuildingAccess = req.BuildingAccess
	user.Role = role

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created",
		"user_id", user.ID,
		"email", user.Email,
		"role", role.Code)

	return user, nil
}

// Login authenticates a user and returns tokens.
func (s *Service) Login(ctx context.Context, creds Credentials) (*TokenPair, *User, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		_ = s.users.Update(ctx, user)
		return nil, nil, apperror.NewUnauthorized("invalid credentials")
	}

	if err := s.loadRole(ctx, user); err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	user.RecordSuccessfulLogin()
	_ = s.users.Update(ctx, user)

	logger.Info(ctx, "user logged in",
		"user_id", user.ID,
		"email", user.Email)

	return tokens, user, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	token, err := s.tokens.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid refresh token")
	}
	if !token.IsValid() {
		return nil, apperror.NewUnauthorized("refresh token expired or revoked")
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return nil, apperror.NewUnauthorized("user not found")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}
	if err := s.loadRole(ctx, user); err != nil {
		return nil, err
	}

	_ = s.tokens.RevokeRefreshToken(ctx, token.ID, "refreshed")

	return s.generateTokenPair(ctx, user)
}

// Logout revokes all of the user's refresh tokens.
func (s *Service) Logout(ctx context.Context, userID id.ID) error {
	return s.tokens.RevokeAllUserTokens(ctx, userID, "logout")
}

// CleanupExpiredTokens removes expired and long-revoked refresh tokens.
// Invoked periodically by the worker.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int, error) {
	return s.tokens.CleanupExpiredTokens(ctx)
}

// ChangeRole switches a user to another role.
func (s *Service) ChangeRole(ctx context.Context, userID id.ID, roleCode string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperror.NewNotFound("user", userID.String())
	}
	role, err := s.roles.GetByCode(ctx, roleCode)
	if err != nil {
		return apperror.NewNotFound("role", roleCode)
	}

	user.RoleID = role.ID
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	changedBy := appctx.GetUserID(ctx)
	logger.Info(ctx, "role changed",
		"user_id", userID,
		"role", roleCode,
		"changed_by", changedBy)
	return nil
}

// GetUserByID retrieves a user with their role loaded.
func (s *Service) GetUserByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err := s.loadRole(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers lists users with filtering.
func (s *Service) ListUsers(ctx context.Context, filter UserFilter) ([]User, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.users.List(ctx, filter)
}

// ListRoles lists all roles.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.roles.List(ctx)
}

// CreateRole creates a custom role.
func (s *Service) CreateRole(ctx context.Context, code, name, description string, permissions []string) (*Role, error) {
	if code == "" || name == "" {
		return nil, apperror.NewValidation("role code and name are required")
	}
	role := NewRole(code, name, permissions)
	role.Description = description

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

// DeleteRole deletes a role. System roles and roles in use are protected.
func (s *Service) DeleteRole(ctx context.Context, roleID id.ID) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return apperror.NewNotFound("role", roleID.String())
	}
	if role.IsSystem {
		return apperror.NewValidation("system roles cannot be deleted").
			WithDetail("role", role.Code)
	}

	count, err := s.users.CountByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("count role users: %w", err)
	}
	if count > 0 {
		return apperror.NewRestrictDelete("role", role.Code, "users")
	}

	return s.roles.Delete(ctx, roleID)
}

// generateTokenPair creates access and refresh tokens.
func (s *Service) generateTokenPair(ctx context.Context, user *User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshTokenRaw, err := generateRandomToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &RefreshToken{
		ID:        id.New(),
		UserID:    user.ID,
		TokenHash: hashToken(refreshTokenRaw),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := s.tokens.SaveRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenRaw,
		ExpiresAt:    expiresAt,
		TokenType:    "Bearer",
	}, nil
}

func (s *Service) loadRole(ctx context.Context, user *User) error {
	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return fmt.Errorf("load role: %w", err)
	}
	user.Role = role
	return nil
}

// hashToken creates a SHA256 hash of a token.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// generateRandomToken generates a random token string.
func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
