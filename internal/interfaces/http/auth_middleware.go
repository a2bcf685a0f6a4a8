package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Laboratorio-api/pkg/jwt"
)

// Claves de c.Locals con el principal autenticado.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
)

// bearerToken extrae el token del header Authorization; el segundo valor es el motivo del rechazo.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "Authorization header requerido"
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "formato: Bearer <token>"
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", "token vacío"
	}
	return token, ""
}

// AuthMiddleware exige un JWT vigente y deja el principal en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, reason := bearerToken(c.Get(fiber.HeaderAuthorization))
		if reason != "" {
			return fail(c, fiber.StatusUnauthorized, reason)
		}
		userID, role, err := jwt.Parse(jwtSecret, token)
		if err != nil {
			return fail(c, fiber.StatusUnauthorized, "token inválido o expirado")
		}
		c.Locals(LocalUserID, userID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol del token está entre los indicados.
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToLower(r)] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return fail(c, fiber.StatusUnauthorized, "el token no incluye rol")
		}
		if _, ok := allowed[strings.ToLower(role)]; !ok {
			return fail(c, fiber.StatusForbidden, "permisos insuficientes")
		}
		return c.Next()
	}
}

// GetUserID devuelve el usuario autenticado, 0 fuera de las rutas protegidas.
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// userIDPtr principal como puntero para los campos opcionales del libro.
func userIDPtr(c *fiber.Ctx) *int64 {
	id := GetUserID(c)
	if id == 0 {
		return nil
	}
	return &id
}
