package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/helpdesk/backend/internal/domain/identity"
	"github.com/helpdesk/backend/internal/infrastructure/auth"
	"github.com/helpdesk/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testSecret   = "test-secret-key-at-least-32-chars"
	testIssuer   = "https://idp.example.com"
	testAudience = "helpdesk-backend"
)

func newTestVerifier() *auth.TokenVerifier {
	return auth.NewTokenVerifier(config.JWTConfig{
		Secret:   testSecret,
		Issuer:   testIssuer,
		Audience: testAudience,
	})
}

// mintToken signs a token the way the external identity provider would
func mintToken(t *testing.T, mutate func(*auth.Claims)) string {
	t.Helper()

	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		TenantID: uuid.NewString(),
		Email:    "user@example.com",
		Role:     string(identity.RoleTenantUser),
	}
	if mutate != nil {
		mutate(claims)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newProtectedRouter(verifier *auth.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuthMiddleware(verifier))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetJWTUserID(c), "tenant": GetJWTTenantID(c)})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestJWTAuthMiddlewareValidToken(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	token := mintToken(t, func(c *auth.Claims) {
		c.Subject = userID.String()
		c.TenantID = tenantID.String()
	})

	r := newProtectedRouter(newTestVerifier())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
	assert.Contains(t, w.Body.String(), tenantID.String())
}

func TestJWTAuthMiddlewareMissingHeader(t *testing.T) {
	r := newProtectedRouter(newTestVerifier())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}

func TestJWTAuthMiddlewareInvalidHeaderFormat(t *testing.T) {
	r := newProtectedRouter(newTestVerifier())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_UNAUTHORIZED")
}

func TestJWTAuthMiddlewareExpiredToken(t *testing.T) {
	token := mintToken(t, func(c *auth.Claims) {
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	})

	r := newProtectedRouter(newTestVerifier())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_EXPIRED")
}

func TestJWTAuthMiddlewareGarbageToken(t *testing.T) {
	r := newProtectedRouter(newTestVerifier())
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_TOKEN_INVALID")
}

func TestJWTAuthMiddlewareSkipPaths(t *testing.T) {
	r := newProtectedRouter(newTestVerifier())
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(JWTRoleKey, string(identity.RoleSuperAdmin))
	})
	r.Use(RequireRole(identity.RoleSuperAdmin))
	r.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleRejectsOtherRoles(t *testing.T) {
	for _, role := range []identity.Role{identity.RoleTenantAdmin, identity.RoleTenantUser} {
		t.Run(string(role), func(t *testing.T) {
			r := gin.New()
			r.Use(func(c *gin.Context) {
				c.Set(JWTRoleKey, string(role))
			})
			r.Use(RequireRole(identity.RoleSuperAdmin))
			r.GET("/admin", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"status": "ok"})
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
		})
	}
}

func TestGetJWTClaimsRoundTrip(t *testing.T) {
	token := mintToken(t, nil)
	verifier := newTestVerifier()

	r := gin.New()
	r.Use(JWTAuthMiddleware(verifier))
	r.GET("/claims", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, "user@example.com", claims.Email)
		assert.Equal(t, identity.RoleTenantUser, GetJWTRole(c))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/claims", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
