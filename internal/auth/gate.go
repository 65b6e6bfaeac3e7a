package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/refineryiq/server/pkg/logger"
)

// ErrInvalidCredentials is the single failure for any login mismatch. An
// unknown email and a wrong password are indistinguishable to the caller so
// accounts cannot be enumerated.
var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Credential struct {
	User         User
	PasswordHash []byte // bcrypt
}

// claims is the decoded session token payload. Exp is absolute epoch
// milliseconds.
type claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Exp    int64  `json:"exp"`
}

// Gate owns the session token: it mints one on login, replaces it wholesale,
// and deletes it on logout. Validation is pure decode-and-check, so any
// token the gate minted stays verifiable without a registry.
type Gate struct {
	mu    sync.Mutex
	ttl   time.Duration
	creds map[string]Credential

	token string
	user  *User
}

func NewGate(ttl time.Duration, creds []Credential) *Gate {
	byEmail := make(map[string]Credential, len(creds))
	for _, c := range creds {
		byEmail[c.User.Email] = c
	}
	return &Gate{ttl: ttl, creds: byEmail}
}

// dummyHash keeps login latency comparable whether or not the email exists.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("refineryiq-dummy"), bcrypt.DefaultCost)

// Login checks the credential record for email and mints a session token
// with a fixed expiry from issuance time. Both unknown-email and
// wrong-password paths return the identical ErrInvalidCredentials.
func (g *Gate) Login(email, password string) (string, User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cred, ok := g.creds[email]
	hash := cred.PasswordHash
	if !ok {
		hash = dummyHash
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !ok {
		logger.Warn("login rejected", zap.String("email", email))
		return "", User{}, ErrInvalidCredentials
	}

	token := encodeToken(claims{
		UserID: cred.User.ID,
		Email:  cred.User.Email,
		Role:   cred.User.Role,
		Exp:    time.Now().Add(g.ttl).UnixMilli(),
	})

	user := cred.User
	g.token = token
	g.user = &user

	logger.Info("session opened", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return token, user, nil
}

// Logout clears the stored session unconditionally and always succeeds.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.token = ""
	g.user = nil
}

// CurrentUser resolves the principal of the stored session, absent when no
// session is open or the token has expired.
func (g *Gate) CurrentUser() (User, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.user == nil || !tokenValid(g.token) {
		return User{}, false
	}
	return *g.user, true
}

// IsValid reports whether token decodes and has not expired. A malformed
// token is simply invalid, never an error.
func (g *Gate) IsValid(token string) bool {
	return tokenValid(token)
}

// Principal decodes the user identity carried by a valid token.
func (g *Gate) Principal(token string) (User, bool) {
	c, err := decodeToken(token)
	if err != nil || c.Exp <= time.Now().UnixMilli() {
		return User{}, false
	}
	return User{ID: c.UserID, Email: c.Email, Role: c.Role}, true
}

func tokenValid(token string) bool {
	c, err := decodeToken(token)
	if err != nil {
		return false
	}
	return c.Exp > time.Now().UnixMilli()
}

func encodeToken(c claims) string {
	payload, _ := json.Marshal(c)
	return base64.StdEncoding.EncodeToString(payload)
}

func decodeToken(token string) (claims, error) {
	var c claims
	payload, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(payload, &c); err != nil {
		return c, err
	}
	return c, nil
}

// DefaultCredentials seeds the demo principals. Passwords are hashed at
// startup; nothing stores or compares plaintext.
func DefaultCredentials() []Credential {
	seeded := []struct {
		user     User
		password string
	}{
		{User{ID: "user-001", Email: "operator@refineryiq.com", Name: "Plant Operator", Role: "operator"}, "operator123"},
		{User{ID: "user-002", Email: "engineer@refineryiq.com", Name: "Process Engineer", Role: "engineer"}, "engineer123"},
		{User{ID: "user-003", Email: "admin@refineryiq.com", Name: "Site Administrator", Role: "admin"}, "admin123"},
	}

	creds := make([]Credential, 0, len(seeded))
	for _, s := range seeded {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatal("failed to hash seeded credential", zap.Error(err))
		}
		creds = append(creds, Credential{User: s.user, PasswordHash: hash})
	}
	return creds
}
