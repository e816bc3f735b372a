package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apphttp "github.com/matchaverde/inventory-api/internal/interfaces/http"
	"github.com/matchaverde/inventory-api/pkg/config"
	pkgjwt "github.com/matchaverde/inventory-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUsername  = "operadora"
	testPassword  = "matcha-2026"
	testIssuer    = "matcha-inventory-test"
	testExpMin    = 60
)

func testAuthConfig(t *testing.T) config.AuthConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return config.AuthConfig{
		Username:     testUsername,
		PasswordHash: string(hash),
		JWTSecret:    testJWTSecret,
		JWTExpMin:    testExpMin,
		JWTIssuer:    testIssuer,
	}
}

// buildTestApp arma una app Fiber mínima: login público y una ruta protegida
// que devuelve el usuario del token.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Post("/login", apphttp.NewAuthHandler(testAuthConfig(t)).Login)
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user": apphttp.GetUser(c)})
	})
	return app
}

func doLogin(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_CredencialValida_EmiteTokenUsable(t *testing.T) {
	app := buildTestApp(t)

	resp := doLogin(t, app, testUsername, testPassword)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["token"], "el login debe devolver un token")

	// El token emitido debe abrir la ruta protegida.
	protected := doProtected(t, app, "Bearer "+body["token"])
	defer protected.Body.Close()
	assert.Equal(t, http.StatusOK, protected.StatusCode)

	var me map[string]string
	require.NoError(t, json.NewDecoder(protected.Body).Decode(&me))
	assert.Equal(t, testUsername, me["user"])
}

func TestLogin_PasswordIncorrecto_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doLogin(t, app, testUsername, "password-equivocado")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "UNAUTHORIZED")
}

func TestLogin_UsuarioDesconocido_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doLogin(t, app, "intruso", testPassword)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	resp := doProtected(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_FormatoSinBearer_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	tok, err := pkgjwt.Generate(testJWTSecret, testUsername, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doProtected(t, app, tok) // sin el prefijo "Bearer "
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenFirmadoConOtroSecret_Retorna401(t *testing.T) {
	app := buildTestApp(t)
	tok, err := pkgjwt.Generate("otro-secret", testUsername, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doProtected(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
