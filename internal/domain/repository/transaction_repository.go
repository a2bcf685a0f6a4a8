package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// TransactionFilter filtros del libro de inventario. From/To inclusivos.
type TransactionFilter struct {
	MaterialID *int64
	Type       string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// TransactionRepository puerto del libro de inventario (solo inserción y lectura).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// List devuelve la página pedida (más reciente primero) y el total que cumple el filtro.
	List(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, int, error)
	CountByMaterial(ctx context.Context, materialID int64) (int, error)
	// LatestByMaterial devuelve la última entrada del material o (nil, nil) si no tiene.
	LatestByMaterial(ctx context.Context, materialID int64) (*entity.Transaction, error)
}
