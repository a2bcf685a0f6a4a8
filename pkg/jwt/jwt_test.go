package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, 42, "approver", "laboratorio-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "approver", role)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := Generate(testSecret, 1, "admin", "laboratorio-test", -1)
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(testSecret, 1, "admin", "laboratorio-test", 60)
	require.NoError(t, err)

	_, _, err = Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestParse_UserIDNoNumerico(t *testing.T) {
	claims := Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "abc",
		Role:             "admin",
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SinExpiracion(t *testing.T) {
	claims := Claims{UserID: "5", Role: "admin"}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, _, err = Parse(testSecret, tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenRequiredClaimMissing)
}

func TestParse_SubjectComoRespaldo(t *testing.T) {
	claims := Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   "9",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	id, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.Empty(t, role)
}

func TestSinSecret(t *testing.T) {
	_, err := Generate("", 1, "admin", "x", 60)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, _, err = Parse("", "a.b.c")
	assert.ErrorIs(t, err, ErrNoSecret)
}
