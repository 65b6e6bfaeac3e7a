package session

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/refineryiq/server/internal/auth"
)

func protectedApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)
	gate := auth.NewGate(time.Hour, []auth.Credential{
		{User: auth.User{ID: "u1", Email: "op@example.com", Role: "operator"}, PasswordHash: hash},
	})
	token, _, err := gate.Login("op@example.com", "pw")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Middleware(gate))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		user, ok := UserFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(user.ID)
	})
	return app, token
}

func TestMiddleware_AllowsValidToken(t *testing.T) {
	app, token := protectedApp(t)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddleware_RejectsMissingOrBadToken(t *testing.T) {
	app, _ := protectedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
