package repository

import (
	"context"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// UserRepository puerto de lectura del subsistema de usuarios.
// GetBy* devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
