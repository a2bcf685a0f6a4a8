package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Laboratorio-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Laboratorio-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = int64(7)
	testIssuer    = "laboratorio-api-test"
	testExpMin    = 60
)

// buildGuardedApp construye una app mínima con AuthMiddleware + RequireRole y un handler dummy.
func buildGuardedApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id": apphttp.GetUserID(c),
				"role":    apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenFor(t *testing.T, userID int64, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, userID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func getProtected(t *testing.T, app *fiber.App, authHeader string) (*http.Response, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return resp, env
}

func TestRequireRole_RolPermitido(t *testing.T) {
	app := buildGuardedApp("admin", "approver")
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", tokenFor(t, testUserID, "approver"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		UserID int64  `json:"user_id"`
		Role   string `json:"role"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body.UserID)
	assert.Equal(t, "approver", body.Role)
}

func TestRequireRole_RolAjeno_403(t *testing.T) {
	resp, env := getProtected(t, buildGuardedApp("admin", "approver"), tokenFor(t, testUserID, "member"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, env.Success)
	assert.Equal(t, http.StatusForbidden, env.Code)
}

func TestRequireRole_NoDistingueMayusculas(t *testing.T) {
	resp, _ := getProtected(t, buildGuardedApp("Admin"), tokenFor(t, testUserID, "admin"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_TokenSinRol_401(t *testing.T) {
	resp, env := getProtected(t, buildGuardedApp("admin"), tokenFor(t, testUserID, ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "el token no incluye rol", env.Message)
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		header string
	}{
		{"sin header", ""},
		{"sin Bearer", "Token abc"},
		{"token vacío", "Bearer   "},
		{"token malformado", "Bearer token.invalido.aqui"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, env := getProtected(t, buildGuardedApp("admin"), tc.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, http.StatusUnauthorized, env.Code)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestAuthMiddleware_SecretDistinto_401(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret", testUserID, "admin", testIssuer, testExpMin)
	require.NoError(t, err)
	resp, _ := getProtected(t, buildGuardedApp("admin"), "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
