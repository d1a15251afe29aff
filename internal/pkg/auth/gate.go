// internal/pkg/auth/gate.go
package auth

import (
	"crypto/subtle"
	"fmt"

	"github.com/your-org/digitalstore-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// Gate is the shared-credential capability check guarding the admin console.
// A single username/password pair is configured; there are no user accounts.
type Gate struct {
	config *config.Config
}

// NewGate creates a new admin credential gate
func NewGate(cfg *config.Config) *Gate {
	return &Gate{
		config: cfg,
	}
}

// Authenticate verifies the shared admin credential. The bcrypt hash is
// preferred; the plaintext fallback exists for local development only.
func (g *Gate) Authenticate(username, password string) error {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(g.config.Admin.Username)) == 1

	var passwordMatch bool
	if g.config.Admin.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(g.config.Admin.PasswordHash), []byte(password))
		passwordMatch = err == nil
	} else {
		passwordMatch = subtle.ConstantTimeCompare([]byte(password), []byte(g.config.Admin.Password)) == 1
	}

	if !usernameMatch || !passwordMatch {
		return fmt.Errorf("invalid credentials")
	}

	return nil
}

// HashPassword hashes a password with the configured bcrypt cost. Used to
// generate ADMIN_PASSWORD_HASH values.
func (g *Gate) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), g.config.Security.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
