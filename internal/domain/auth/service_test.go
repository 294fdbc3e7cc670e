package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domus/internal/core/apperror"
	"domus/internal/core/id"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeUserRepo struct {
	byID    map[id.ID]*User
	byEmail map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[id.ID]*User), byEmail: make(map[string]*User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	u, ok := r.byID[userID]
	if !ok {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	cp := *u
	r.byID[u.ID] = &cp
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, userID id.ID) error {
	if u, ok := r.byID[userID]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, userID)
	}
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, f UserFilter) ([]User, int, error) {
	var out []User
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (r *fakeUserRepo) Exists(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, roleID id.ID) (int, error) {
	n := 0
	for _, u := range r.byID {
		if u.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

type fakeRoleRepo struct {
	byID   map[id.ID]*Role
	byCode map[string]*Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{byID: make(map[id.ID]*Role), byCode: make(map[string]*Role)}
}

func (r *fakeRoleRepo) Create(ctx context.Context, role *Role) error {
	cp := *role
	r.byID[role.ID] = &cp
	r.byCode[role.Code] = &cp
	return nil
}

func (r *fakeRoleRepo) GetByID(ctx context.Context, roleID id.ID) (*Role, error) {
	role, ok := r.byID[roleID]
	if !ok {
		return nil, apperror.NewNotFound("role", roleID.String())
	}
	cp := *role
	return &cp, nil
}

func (r *fakeRoleRepo) GetByCode(ctx context.Context, code string) (*Role, error) {
	role, ok := r.byCode[code]
	if !ok {
		return nil, apperror.NewNotFound("role", code)
	}
	cp := *role
	return &cp, nil
}

func (r *fakeRoleRepo) Update(ctx context.Context, role *Role) error {
	cp := *role
	r.byID[role.ID] = &cp
	r.byCode[role.Code] = &cp
	return nil
}

func (r *fakeRoleRepo) Delete(ctx context.Context, roleID id.ID) error {
	if role, ok := r.byID[roleID]; ok {
		delete(r.byCode, role.Code)
		delete(r.byID, roleID)
	}
	return nil
}

func (r *fakeRoleRepo) List(ctx context.Context) ([]Role, error) {
	var out []Role
	for _, role := range r.byID {
		out = append(out, *role)
	}
	return out, nil
}

type fakeTokenRepo struct {
	byHash map[string]*RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{byHash: make(map[string]*RefreshToken)}
}

func (r *fakeTokenRepo) SaveRefreshToken(ctx context.Context, t *RefreshToken) error {
	cp := *t
	r.byHash[t.TokenHash] = &cp
	return nil
}

func (r *fakeTokenRepo) GetRefreshToken(ctx context.Context, hash string) (*RefreshToken, error) {
	t, ok := r.byHash[hash]
	if !ok {
		return nil, apperror.NewNotFound("refresh token", hash)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTokenRepo) RevokeRefreshToken(ctx context.Context, tokenID id.ID, reason string) error {
	for _, t := range r.byHash {
		if t.ID == tokenID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokeAllUserTokens(ctx context.Context, userID id.ID, reason string) error {
	for _, t := range r.byHash {
		if t.UserID == userID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (r *fakeTokenRepo) CleanupExpiredTokens(ctx context.Context) (int, error) {
	return 0, nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo, *fakeRoleRepo) {
	t.Helper()
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	ctx := context.Background()

	for _, sr := range SystemRoles() {
		role := NewRole(sr.Code, sr.Name, sr.Permissions)
		role.IsSystem = true
		require.NoError(t, roles.Create(ctx, role))
	}

	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret-not-for-production"))
	svc := NewService(users, roles, newFakeTokenRepo(), passthroughTx{}, jwtSvc, DefaultServiceConfig())
	return svc, users, roles
}

func TestCreateUser_RoleMandatory(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Email:    "ivan@example.com",
		Password: "correct-horse",
	})
	require.Error(t, err)

	u, err := svc.CreateUser(ctx, CreateUserRequest{
		Email:    "ivan@example.com",
		Password: "correct-horse",
		RoleCode: "manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager", u.Role.Code)
	assert.Equal(t, UserActive, u.Status)
	assert.NotEqual(t, "correct-horse", u.PasswordHash)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{Email: "a@example.com", Password: "long-enough", RoleCode: "cashier"}
	_, err := svc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, req)
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
}

func TestLogin_IssuesValidToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Email:          "cashier@example.com",
		Password:       "super-secret-1",
		RoleCode:       "cashier",
		BuildingAccess: []string{"b-1"},
	})
	require.NoError(t, err)

	tokens, user, err := svc.Login(ctx, Credentials{Email: "cashier@example.com", Password: "super-secret-1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.RefreshToken)
	require.NotNil(t, user.LastLoginAt)

	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret-not-for-production"))
	uc, err := jwtSvc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "cashier", uc.Role)
	assert.Contains(t, uc.Permissions, PermPaymentsWrite)
	assert.Equal(t, []string{"b-1"}, uc.BuildingIDs)
}

func TestLogin_WrongPasswordLocksAccount(t *testing.T) {
	svc, users, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, CreateUserRequest{
		Email: "x@example.com", Password: "right-password", RoleCode: "manager",
	})
	require.NoError(t, err)

	for i := 0; i < DefaultServiceConfig().MaxLoginAttempts; i++ {
		_, _, err = svc.Login(ctx, Credentials{Email: "x@example.com", Password: "wrong"})
		require.Error(t, err)
	}

	stored, _ := users.GetByID(ctx, u.ID)
	assert.True(t, stored.IsLocked())

	// Even the correct password fails while locked.
	_, _, err = svc.Login(ctx, Credentials{Email: "x@example.com", Password: "right-password"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "locked"))
}

func TestRefreshToken_RotatesAndRevokes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Email: "r@example.com", Password: "some-password", RoleCode: "resident",
	})
	require.NoError(t, err)

	tokens, _, err := svc.Login(ctx, Credentials{Email: "r@example.com", Password: "some-password"})
	require.NoError(t, err)

	next, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, next.RefreshToken)

	// The old refresh token is now revoked.
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	require.Error(t, err)
}

func TestRoleGrants(t *testing.T) {
	var admin, maintenance *Role
	for _, sr := range SystemRoles() {
		role := NewRole(sr.Code, sr.Name, sr.Permissions)
		switch sr.Code {
		case "admin":
			admin = role
		case "maintenance":
			maintenance = role
		}
	}
	require.NotNil(t, admin)
	require.NotNil(t, maintenance)

	assert.True(t, admin.Grants(PermUsersWrite))
	assert.True(t, admin.Grants("anything:at-all"))

	assert.True(t, maintenance.Grants(PermBuildingsRead))
	assert.False(t, maintenance.Grants(PermPaymentsWrite))
}

func TestDeleteRole_Restrictions(t *testing.T) {
	svc, _, roles := newTestService(t)
	ctx := context.Background()

	// System role is protected.
	adminRole, err := roles.GetByCode(ctx, "admin")
	require.NoError(t, err)
	require.Error(t, svc.DeleteRole(ctx, adminRole.ID))

	// Role in use is protected.
	custom, err := svc.CreateRole(ctx, "auditor", "Auditor", "", []string{PermReportsRead})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, CreateUserRequest{
		Email: "aud@example.com", Password: "some-password", RoleCode: "auditor",
	})
	require.NoError(t, err)

	err = svc.DeleteRole(ctx, custom.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRestrictDelete, appErr.Code)

	// Unused custom role deletes fine.
	unused, err := svc.CreateRole(ctx, "viewer", "Viewer", "", []string{PermBuildingsRead})
	require.NoError(t, err)
	assert.NoError(t, svc.DeleteRole(ctx, unused.ID))
}
