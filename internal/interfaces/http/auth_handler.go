package http

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/gofiber/fiber/v2"

	"github.com/matchaverde/inventory-api/internal/application/dto"
	"github.com/matchaverde/inventory-api/pkg/config"
	"github.com/matchaverde/inventory-api/pkg/jwt"
)

// AuthHandler emite tokens contra la credencial única de operación
// (usuario + hash bcrypt configurados por entorno; no hay tabla de usuarios).
type AuthHandler struct {
	cfg config.AuthConfig
}

// NewAuthHandler construye el handler.
func NewAuthHandler(cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login valida la credencial y devuelve un JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Username != h.cfg.Username ||
		bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(in.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	token, err := jwt.Generate(h.cfg.JWTSecret, in.Username, h.cfg.JWTIssuer, h.cfg.JWTExpMin)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}
