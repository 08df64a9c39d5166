package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newClaims(id string, role models.UserRole) *models.JWTClaims {
	claims := &models.JWTClaims{Role: role}
	claims.Subject = id
	return claims
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Claims(c).UserID()})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestJWTRejectsMissingAndInvalidTokens(t *testing.T) {
	r := newRouter(JWT(stubValidator{}))

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer nope"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestJWTAttachesClaims(t *testing.T) {
	r := newRouter(JWT(stubValidator{"good": newClaims("user-1", models.RoleStudent)}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer good")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "user-1", body["user"])
}

func TestRequireRoles(t *testing.T) {
	validator := stubValidator{
		"admin":   newClaims("admin-1", models.RoleAdmin),
		"student": newClaims("student-1", models.RoleStudent),
	}
	r := newRouter(JWT(validator), RequireRoles(models.RoleAdmin))

	cases := map[string]int{"admin": http.StatusOK, "student": http.StatusForbidden}
	for token, want := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, token)
	}
}

type recordedRequest struct {
	method, path string
	status       int
}

type observerFunc func(method, path string, status int, duration time.Duration)

func (f observerFunc) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	f(method, path, status, duration)
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var got []recordedRequest
	r := gin.New()
	r.Use(Metrics(observerFunc(func(method, path string, status int, _ time.Duration) {
		got = append(got, recordedRequest{method, path, status})
	})))
	r.GET("/api/citra/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/citra/CITRA3001", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, got, 2)
	assert.Equal(t, recordedRequest{http.MethodGet, "/api/citra/:id", http.StatusNoContent}, got[0])
	assert.Equal(t, "unmatched", got[1].path)
	assert.Equal(t, http.StatusNotFound, got[1].status)
}

func TestResponseMetaCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	var meta map[string]interface{}
	r.GET("/x", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ExtractMeta(c)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
}
