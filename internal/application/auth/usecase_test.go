package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Laboratorio-api/internal/application/auth"
	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/memory"
	"github.com/jhoicas/Laboratorio-api/pkg/jwt"
)

const secret = "test-secret"

func newUseCase() (*auth.AuthUseCase, *memory.Store) {
	s := memory.NewStore()
	uc := auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "test"}, ports.FixedClock(time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)))
	return uc, s
}

func TestEnsureAdmin_CreaYRestablece(t *testing.T) {
	uc, s := newUseCase()
	ctx := context.Background()

	created, err := uc.EnsureAdmin(ctx, "admin", "admin123", "Administrador", "admin@lab.local")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := s.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleAdmin, u.Role)
	assert.NotEqual(t, "admin123", u.PasswordHash)

	created, err = uc.EnsureAdmin(ctx, "admin", "nueva-clave", "", "")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	res, err := uc.Login(ctx, dto.LoginRequest{Username: "admin", Password: "nueva-clave"})
	require.NoError(t, err)
	assert.Equal(t, "admin", res.User.Username)

	id, role, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, entity.RoleAdmin, role)

	_, err = uc.EnsureAdmin(ctx, "otro", "123", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProfile(t *testing.T) {
	uc, s := newUseCase()
	ctx := context.Background()
	u := &entity.User{Username: "ana", FullName: "Ana", Role: entity.RoleMember}
	require.NoError(t, s.Users().Create(ctx, u))

	got, err := uc.Profile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FullName)

	_, err = uc.Profile(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
