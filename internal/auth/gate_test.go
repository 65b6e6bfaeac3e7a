package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testCredentials(t *testing.T) []Credential {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return []Credential{
		{
			User:         User{ID: "u1", Email: "op@example.com", Name: "Op", Role: "operator"},
			PasswordHash: hash,
		},
	}
}

func TestLogin_Success(t *testing.T) {
	g := NewGate(24*time.Hour, testCredentials(t))

	token, user, err := g.Login("op@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "u1", user.ID)

	assert.True(t, g.IsValid(token))

	current, ok := g.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "op@example.com", current.Email)
}

func TestLogin_WrongPasswordAndUnknownEmailAreIndistinguishable(t *testing.T) {
	g := NewGate(24*time.Hour, testCredentials(t))

	_, _, wrongPass := g.Login("op@example.com", "nope")
	_, _, unknown := g.Login("ghost@example.com", "s3cret")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLogout_ClearsSessionUnconditionally(t *testing.T) {
	g := NewGate(24*time.Hour, testCredentials(t))

	_, _, err := g.Login("op@example.com", "s3cret")
	require.NoError(t, err)

	g.Logout()
	_, ok := g.CurrentUser()
	assert.False(t, ok)

	// Logging out with no session open is still fine.
	g.Logout()
}

func TestIsValid_ExpiryBoundary(t *testing.T) {
	g := NewGate(time.Hour, nil)

	future := encodeToken(claims{UserID: "u1", Exp: time.Now().UnixMilli() + 60_000})
	assert.True(t, g.IsValid(future))

	past := encodeToken(claims{UserID: "u1", Exp: time.Now().UnixMilli() - 1})
	assert.False(t, g.IsValid(past))
}

func TestIsValid_MalformedTokens(t *testing.T) {
	g := NewGate(time.Hour, nil)

	assert.False(t, g.IsValid(""))
	assert.False(t, g.IsValid("not base64 at all!!"))
	// Valid base64, not JSON.
	assert.False(t, g.IsValid("aGVsbG8gd29ybGQ="))
}

func TestPrincipal_CarriesTokenIdentity(t *testing.T) {
	g := NewGate(time.Hour, testCredentials(t))

	token, _, err := g.Login("op@example.com", "s3cret")
	require.NoError(t, err)

	user, ok := g.Principal(token)
	require.True(t, ok)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "operator", user.Role)

	_, ok = g.Principal("garbage")
	assert.False(t, ok)
}

func TestLogin_ReplacesSessionWholesale(t *testing.T) {
	creds := testCredentials(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("other"), bcrypt.MinCost)
	require.NoError(t, err)
	creds = append(creds, Credential{
		User:         User{ID: "u2", Email: "eng@example.com", Name: "Eng", Role: "engineer"},
		PasswordHash: hash,
	})
	g := NewGate(24*time.Hour, creds)

	_, _, err = g.Login("op@example.com", "s3cret")
	require.NoError(t, err)
	_, _, err = g.Login("eng@example.com", "other")
	require.NoError(t, err)

	current, ok := g.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "u2", current.ID)
}
