// internal/pkg/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/digitalstore-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func gateConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "digitalstore"},
		Admin: config.AdminConfig{
			Username: "admin",
			Password: "secret",
		},
		Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			AccessTokenExpiry: time.Hour,
		},
	}
}

func TestGateAuthenticatePlaintext(t *testing.T) {
	gate := NewGate(gateConfig())

	assert.NoError(t, gate.Authenticate("admin", "secret"))
	assert.Error(t, gate.Authenticate("admin", "wrong"))
	assert.Error(t, gate.Authenticate("root", "secret"))
	assert.Error(t, gate.Authenticate("", ""))
}

func TestGateAuthenticateBcryptHash(t *testing.T) {
	cfg := gateConfig()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg.Admin.PasswordHash = string(hash)
	cfg.Admin.Password = ""

	gate := NewGate(cfg)

	assert.NoError(t, gate.Authenticate("admin", "hunter2"))
	assert.Error(t, gate.Authenticate("admin", "secret"))
}

func TestGateHashPasswordRoundTrip(t *testing.T) {
	gate := NewGate(gateConfig())

	hash, err := gate.HashPassword("roundtrip")
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("roundtrip")))
}

func TestJWTGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager(gateConfig())

	token, err := manager.GenerateAccessToken("admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.Username)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "admin:admin", claims.Subject)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	manager := NewJWTManager(gateConfig())

	token, err := manager.GenerateAccessToken("admin")
	require.NoError(t, err)

	other := gateConfig()
	other.JWT.Secret = "different-secret"

	_, err = NewJWTManager(other).ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	cfg := gateConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute

	manager := NewJWTManager(cfg)

	token, err := manager.GenerateAccessToken("admin")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(gateConfig())

	_, err := manager.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer token", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123"},
		{name: "missing scheme", header: "abc123", want: ""},
		{name: "wrong scheme", header: "Basic abc123", want: ""},
		{name: "empty header", header: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTokenFromHeader(tt.header))
		})
	}
}
