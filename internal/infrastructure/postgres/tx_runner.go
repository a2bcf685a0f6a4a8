package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL READ COMMITTED.
// La serialización por material la dan los SELECT ... FOR UPDATE de los repositorios.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Run ejecuta fn con los repositorios atados a la tx. Commit si fn devuelve nil, Rollback en otro caso;
// el error de fn se devuelve sin envolver para conservar su Kind de dominio.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return pgx.BeginTxFunc(ctx, r.pool, r.opts, func(tx pgx.Tx) error {
		return fn(inventory.Repos{
			Categories:   NewCategoryRepository(tx),
			Materials:    NewMaterialRepository(tx),
			Transactions: NewTransactionRepository(tx),
			Requisitions: NewRequisitionRepository(tx),
		})
	})
}
