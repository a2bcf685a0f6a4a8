package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

const materialColumns = `id, code, name, category_id, description, unit, stock_quantity, min_stock, max_stock,
	unit_price, location, supplier, created_at, updated_at`

// Condición SQL equivalente a entity.StockStatus para cada estado derivado.
var materialStatusSQL = map[string]string{
	entity.MaterialStatusOutOfStock: `stock_quantity <= 0`,
	entity.MaterialStatusLowStock:   `stock_quantity > 0 AND min_stock IS NOT NULL AND stock_quantity <= min_stock`,
	entity.MaterialStatusAvailable:  `stock_quantity > 0 AND (min_stock IS NULL OR stock_quantity > min_stock)`,
}

// MaterialRepo implementación del puerto MaterialRepository sobre PostgreSQL (usable con pool o tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	err := row.Scan(
		&m.ID, &m.Code, &m.Name, &m.CategoryID, &m.Description, &m.Unit, &m.StockQuantity,
		&m.MinStock, &m.MaxStock, &m.UnitPrice, &m.Location, &m.Supplier, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un material con su stock base.
func (r *MaterialRepo) Create(ctx context.Context, m *entity.Material) error {
	query := `
		INSERT INTO materials (code, name, category_id, description, unit, stock_quantity, min_stock, max_stock,
			unit_price, location, supplier, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.Code, m.Name, m.CategoryID, m.Description, m.Unit, m.StockQuantity, m.MinStock, m.MaxStock,
		m.UnitPrice, m.Location, m.Supplier, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return writeError(err, "insert material",
			domain.Conflict("ya existe un material con el código %q", m.Code),
			domain.NotFound("categoría %d no encontrada", m.CategoryID))
	}
	return nil
}

func (r *MaterialRepo) getOne(ctx context.Context, where string, arg any) (*entity.Material, error) {
	m, err := scanMaterial(r.q.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// GetByID obtiene un material por ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*entity.Material, error) {
	return r.getOne(ctx, `id = $1`, id)
}

// GetByIDForUpdate obtiene el material y bloquea la fila (SELECT FOR UPDATE). Solo tiene efecto dentro de una tx.
func (r *MaterialRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.getOne(ctx, `id = $1 FOR UPDATE`, id)
}

// GetByCode obtiene un material por código.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.getOne(ctx, `code = $1`, code)
}

// Update actualiza todos los campos excepto stock_quantity.
func (r *MaterialRepo) Update(ctx context.Context, m *entity.Material) error {
	query := `
		UPDATE materials
		SET code = $2, name = $3, category_id = $4, description = $5, unit = $6, min_stock = $7, max_stock = $8,
			unit_price = $9, location = $10, supplier = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Code, m.Name, m.CategoryID, m.Description, m.Unit, m.MinStock, m.MaxStock,
		m.UnitPrice, m.Location, m.Supplier, m.UpdatedAt,
	)
	if err != nil {
		return writeError(err, "update material",
			domain.Conflict("ya existe un material con el código %q", m.Code),
			domain.NotFound("categoría %d no encontrada", m.CategoryID))
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("material %d no encontrado", m.ID)
	}
	return nil
}

// UpdateStock fija stock_quantity. Solo lo invoca el libro de inventario dentro de su tx.
func (r *MaterialRepo) UpdateStock(ctx context.Context, id, quantity int64, updatedAt time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE materials SET stock_quantity = $2, updated_at = $3 WHERE id = $1`, id, quantity, updatedAt)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("material %d no encontrado", id)
	}
	return nil
}

// Delete elimina un material; la FK del libro impide borrar materiales con movimientos.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return writeError(err, "delete material", nil, domain.HasDependents("el material tiene movimientos registrados"))
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("material %d no encontrado", id)
	}
	return nil
}

// List aplica los filtros en SQL (incluido el estado derivado) para que el total coincida con la página.
func (r *MaterialRepo) List(ctx context.Context, f repository.MaterialFilter) ([]*entity.Material, int, error) {
	var conds []string
	var args []any
	pos := 1
	if f.CategoryID != nil {
		conds = append(conds, fmt.Sprintf("category_id = $%d", pos))
		args = append(args, *f.CategoryID)
		pos++
	}
	if f.Keyword != "" {
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR code ILIKE $%d)", pos, pos))
		args = append(args, likePattern(f.Keyword))
		pos++
	}
	if f.Location != "" {
		conds = append(conds, fmt.Sprintf("location ILIKE $%d", pos))
		args = append(args, likePattern(f.Location))
		pos++
	}
	if cond, ok := materialStatusSQL[f.Status]; ok {
		conds = append(conds, cond)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM materials`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}

	query := `SELECT ` + materialColumns + ` FROM materials` + where +
		fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// CountByCategory cuenta los materiales de una categoría.
func (r *MaterialRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM materials WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count materials by category: %w", err)
	}
	return n, nil
}
