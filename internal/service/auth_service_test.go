package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	appErrors "github.com/alifhakimiazwan/RateMyCitra/pkg/errors"
)

func TestValidateToken(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret", Issuer: "ratemycitra"}, zap.NewNop())
	token, err := svc.IssueToken("user-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(AuthConfig{Secret: "other"}, nil)
	token, err := issuer.IssueToken("user-1", models.RoleStudent, time.Hour)
	require.NoError(t, err)

	_, err = NewAuthService(AuthConfig{Secret: "secret"}, nil).ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService(AuthConfig{Secret: "secret"}, nil)
	token, err := svc.IssueToken("user-1", models.RoleStudent, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRejectsIssuerMismatch(t *testing.T) {
	token, err := NewAuthService(AuthConfig{Secret: "secret", Issuer: "elsewhere"}, nil).IssueToken("user-1", models.RoleStudent, time.Hour)
	require.NoError(t, err)

	_, err = NewAuthService(AuthConfig{Secret: "secret", Issuer: "ratemycitra"}, nil).ValidateToken(token)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}

func TestValidateTokenRequiresSubject(t *testing.T) {
	claims := &models.JWTClaims{Role: "student", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewAuthService(AuthConfig{Secret: "secret"}, nil).ValidateToken(signed)
	assert.True(t, errors.Is(err, appErrors.ErrUnauthorized))
}
