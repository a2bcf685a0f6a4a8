package repository

import (
	"context"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetBy* devuelven (nil, nil) si no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetByName(ctx context.Context, name string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
	// List devuelve todas las categorías ordenadas por sort_order y luego id.
	List(ctx context.Context) ([]*entity.Category, error)
	CountChildren(ctx context.Context, id int64) (int, error)
}
