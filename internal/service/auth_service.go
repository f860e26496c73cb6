package service

import (
	"crypto/subtle"
	"errors"

	"github.com/parisxmas/health-index-server/internal/auth"
)

// ErrInvalidCredentials is returned for any credential mismatch. Which half
// was wrong is deliberately not distinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the single admin identity, injected at startup. Only the
// bcrypt hash of the password is held for the process lifetime.
type Credentials struct {
	Username     string
	PasswordHash string
}

// adminID is the principal id embedded in issued tokens.
const adminID = "admin_id"

// AuthService authenticates the one configured admin identity and issues
// session tokens. There is no user store.
type AuthService struct {
	creds     Credentials
	jwtSecret string
}

func NewAuthService(creds Credentials, jwtSecret string) *AuthService {
	return &AuthService{creds: creds, jwtSecret: jwtSecret}
}

// Login returns a signed session token on an exact credential match.
func (s *AuthService) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	passOK := auth.CheckPassword(password, s.creds.PasswordHash)
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}
	return auth.GenerateToken(s.jwtSecret, adminID, s.creds.Username)
}
