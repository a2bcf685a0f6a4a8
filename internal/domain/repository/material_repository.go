package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// MaterialFilter filtros del listado de materiales. Status se evalúa sobre el estado derivado.
type MaterialFilter struct {
	CategoryID *int64
	Keyword    string // subcadena en nombre o código
	Status     string
	Location   string // subcadena
	Limit      int
	Offset     int
}

// MaterialRepository define el puerto de persistencia para Material (DIP).
// GetBy* devuelven (nil, nil) si no existe.
type MaterialRepository interface {
	Create(ctx context.Context, material *entity.Material) error
	GetByID(ctx context.Context, id int64) (*entity.Material, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
	// Update modifica todos los campos excepto stock_quantity.
	Update(ctx context.Context, material *entity.Material) error
	UpdateStock(ctx context.Context, id, quantity int64, updatedAt time.Time) error
	Delete(ctx context.Context, id int64) error
	// List devuelve la página pedida y el total que cumple el filtro, ordenado por nombre.
	List(ctx context.Context, filter MaterialFilter) ([]*entity.Material, int, error)
	CountByCategory(ctx context.Context, categoryID int64) (int, error)
}
