package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSecret se devuelve al firmar o validar sin JWT_SECRET.
var ErrNoSecret = errors.New("jwt: secret vacío")

// Claims del token de sesión. El rol viaja en el token para que RequireRole no consulte la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// userID prefiere el claim propio y cae a sub para tokens emitidos sin user_id.
func (c *Claims) userID() (int64, error) {
	raw := c.UserID
	if raw == "" {
		raw = c.Subject
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("jwt: user_id %q inválido", raw)
	}
	return id, nil
}

// Generate firma con HS256 un token para userID con vigencia de expMinutes.
func Generate(secret string, userID int64, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	sub := strconv.FormatInt(userID, 10)
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: sub,
		Role:   role,
	}).SignedString([]byte(secret))
}

// Parse valida firma y vencimiento y devuelve el principal del token.
func Parse(secret, tokenString string) (int64, string, error) {
	if secret == "" {
		return 0, "", ErrNoSecret
	}
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if _, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}); err != nil {
		return 0, "", err
	}
	id, err := claims.userID()
	if err != nil {
		return 0, "", err
	}
	return id, claims.Role, nil
}
