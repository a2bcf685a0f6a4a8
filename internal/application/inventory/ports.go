package inventory

import (
	"context"

	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

// Repos repositorios atados a una misma transacción de BD.
type Repos struct {
	Categories   repository.CategoryRepository
	Materials    repository.MaterialRepository
	Transactions repository.TransactionRepository
	Requisitions repository.RequisitionRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Garantiza atomicidad del libro de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
