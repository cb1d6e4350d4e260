package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims     *service.Claims
	sessionErr error
}

func (s stubValidator) ValidateToken(tokenStr string) (*service.Claims, error) {
	if tokenStr != "good" {
		return nil, errors.New("bad token")
	}
	return s.claims, nil
}

func (s stubValidator) ValidateSession(context.Context, *service.Claims) error {
	return s.sessionErr
}

func adminClaims(role model.AdminRole) *service.Claims {
	return &service.Claims{
		TokenType:   service.TokenTypeAdmin,
		UserID:      "64b000000000000000000001",
		Role:        role,
		Permissions: role.PermissionCodes(),
	}
}

func serve(r *gin.Engine, path, token string) int {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRequireAdminJWT(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	tests := []struct {
		name  string
		auth  stubValidator
		token string
		want  int
	}{
		{"missing token", stubValidator{claims: adminClaims(model.RoleStaff)}, "", http.StatusUnauthorized},
		{"bad token", stubValidator{claims: adminClaims(model.RoleStaff)}, "forged", http.StatusUnauthorized},
		{"logged out", stubValidator{claims: adminClaims(model.RoleStaff), sessionErr: service.ErrSessionNotFound}, "good", http.StatusUnauthorized},
		{"account revoked", stubValidator{claims: adminClaims(model.RoleStaff), sessionErr: service.ErrSessionRevoked}, "good", http.StatusUnauthorized},
		{"wrong token type", stubValidator{claims: &service.Claims{TokenType: "student"}}, "good", http.StatusForbidden},
		{"valid", stubValidator{claims: adminClaims(model.RoleStaff)}, "good", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/admin", RequireAdminJWT(tt.auth), ok)
			if got := serve(r, "/admin", tt.token); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }

	r := gin.New()
	r.GET("/admins", RequireAdminJWT(stubValidator{claims: adminClaims(model.RoleDataEntry)}), RequirePermission(model.PermissionAdminsRead), ok)
	r.GET("/results", RequireAdminJWT(stubValidator{claims: adminClaims(model.RoleDataEntry)}), RequirePermission(model.PermissionResultsWrite), ok)
	r.GET("/either", RequireAdminJWT(stubValidator{claims: adminClaims(model.RoleDataEntry)}),
		RequireAnyPermission(model.PermissionDashboardRead, model.PermissionContentWrite), ok)
	r.GET("/anonymous", RequirePermission(model.PermissionContentWrite), ok)

	if got := serve(r, "/admins", "good"); got != http.StatusForbidden {
		t.Errorf("data entry on admins: %d, want 403", got)
	}
	if got := serve(r, "/results", "good"); got != http.StatusNoContent {
		t.Errorf("data entry on results: %d, want 204", got)
	}
	if got := serve(r, "/either", "good"); got != http.StatusNoContent {
		t.Errorf("any permission: %d, want 204", got)
	}
	if got := serve(r, "/anonymous", ""); got != http.StatusUnauthorized {
		t.Errorf("no claims: %d, want 401", got)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request inside the window should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.2.3.4") {
		t.Error("bucket should refill after the interval")
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/contact", NewRateLimiter(ctx, 1, time.Hour).Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/contact", nil))
		codes[i] = w.Code
		if i == 1 && w.Header().Get("Retry-After") == "" {
			t.Error("limited response should carry Retry-After")
		}
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [201 429]", codes)
	}
}
