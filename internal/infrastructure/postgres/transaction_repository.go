package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, material_id, transaction_type, quantity, before_quantity, after_quantity,
	user_id, request_id, notes, created_at`

// TransactionRepo libro de inventario sobre PostgreSQL. No expone UPDATE ni DELETE.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(&t.ID, &t.MaterialID, &t.Type, &t.Quantity, &t.BeforeQuantity, &t.AfterQuantity,
		&t.UserID, &t.RequestID, &t.Notes, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta una entrada del libro.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO material_transactions (material_id, transaction_type, quantity, before_quantity, after_quantity,
			user_id, request_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		t.MaterialID, t.Type, t.Quantity, t.BeforeQuantity, t.AfterQuantity, t.UserID, t.RequestID, t.Notes, t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return writeError(err, "insert transaction", nil, domain.NotFound("material o solicitud inexistente"))
	}
	return nil
}

// List devuelve la página pedida, más reciente primero, y el total.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	var conds []string
	var args []any
	pos := 1
	add := func(cond string, arg any) {
		conds = append(conds, fmt.Sprintf(cond, pos))
		args = append(args, arg)
		pos++
	}
	if f.MaterialID != nil {
		add("material_id = $%d", *f.MaterialID)
	}
	if f.Type != "" {
		add("transaction_type = $%d", f.Type)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM material_transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + ` FROM material_transactions` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// CountByMaterial cuenta las entradas de un material.
func (r *TransactionRepo) CountByMaterial(ctx context.Context, materialID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM material_transactions WHERE material_id = $1`, materialID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// LatestByMaterial devuelve la última entrada del material (por id, que crece con cada inserción).
func (r *TransactionRepo) LatestByMaterial(ctx context.Context, materialID int64) (*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM material_transactions WHERE material_id = $1 ORDER BY id DESC LIMIT 1`
	t, err := scanTransaction(r.q.QueryRow(ctx, query, materialID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest transaction: %w", err)
	}
	return t, nil
}
