package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "domus/internal/core/context"
	"domus/internal/domain/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withUser injects an authenticated user the way Auth does, without
// going through token parsing.
func withUser(user *appctx.UserContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(appctx.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestRequirePermission(t *testing.T) {
	cashier := &appctx.UserContext{
		UserID:      "u-1",
		Role:        "cashier",
		Permissions: []string{auth.PermPaymentsRead, auth.PermPaymentsWrite},
	}
	admin := &appctx.UserContext{
		UserID:      "u-2",
		Role:        "admin",
		Permissions: []string{auth.PermissionAll},
	}

	tests := []struct {
		name       string
		user       *appctx.UserContext
		permission string
		wantStatus int
	}{
		{"granted", cashier, auth.PermPaymentsWrite, http.StatusOK},
		{"denied", cashier, auth.PermUsersWrite, http.StatusForbidden},
		{"wildcard grants everything", admin, auth.PermUsersWrite, http.StatusOK},
		{"anonymous", nil, auth.PermPaymentsRead, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			if tt.user != nil {
				r.Use(withUser(tt.user))
			}
			r.GET("/x", RequirePermission(tt.permission), okHandler)

			w := doRequest(r, http.MethodGet, "/x")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireAnyPermission(t *testing.T) {
	user := &appctx.UserContext{
		UserID:      "u-1",
		Permissions: []string{auth.PermReportsRead},
	}

	r := gin.New()
	r.Use(ErrorHandler(), withUser(user))
	r.GET("/either", RequireAnyPermission(auth.PermTransactionsRead, auth.PermReportsRead), okHandler)
	r.GET("/neither", RequireAnyPermission(auth.PermUsersRead, auth.PermUsersWrite), okHandler)

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/either").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/neither").Code)
}

func TestRequireBuildingAccess(t *testing.T) {
	scoped := &appctx.UserContext{UserID: "u-1", BuildingIDs: []string{"b-1"}}
	unscoped := &appctx.UserContext{UserID: "u-2"}

	newRouter := func(user *appctx.UserContext) *gin.Engine {
		r := gin.New()
		r.Use(ErrorHandler(), withUser(user))
		r.GET("/buildings/:buildingId", RequireBuildingAccess("buildingId"), okHandler)
		return r
	}

	assert.Equal(t, http.StatusOK,
		doRequest(newRouter(scoped), http.MethodGet, "/buildings/b-1").Code)
	assert.Equal(t, http.StatusForbidden,
		doRequest(newRouter(scoped), http.MethodGet, "/buildings/b-2").Code)

	// Empty building list means access to all buildings.
	assert.Equal(t, http.StatusOK,
		doRequest(newRouter(unscoped), http.MethodGet, "/buildings/b-2").Code)
}

func TestAuth_ValidToken(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("middleware-test-secret"))

	role := auth.NewRole("manager", "Manager", []string{auth.PermBuildingsRead})
	user := auth.NewUser("m@example.com", "irrelevant-hash", role.ID)
	user.Role = role

	token, _, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)

	r := gin.New()
	r.Use(ErrorHandler(), Auth(jwtSvc))
	r.GET("/me", func(c *gin.Context) {
		u := appctx.GetUser(c.Request.Context())
		require.NotNil(t, u)
		c.JSON(http.StatusOK, gin.H{"userId": u.UserID, "role": u.Role})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
	assert.Contains(t, w.Body.String(), "manager")
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	jwtSvc := auth.NewJWTService(auth.DefaultJWTConfig("middleware-test-secret"))

	r := gin.New()
	r.Use(ErrorHandler(), Auth(jwtSvc))
	r.GET("/me", okHandler)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
