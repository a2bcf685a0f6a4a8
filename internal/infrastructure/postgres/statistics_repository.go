package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepo)(nil)

// StatisticsRepo consultas agregadas de solo lectura.
type StatisticsRepo struct {
	q Querier
}

// NewStatisticsRepository construye el adaptador.
func NewStatisticsRepository(q Querier) *StatisticsRepo {
	return &StatisticsRepo{q: q}
}

// GetStockSummary totales de materiales, opcionalmente de una categoría.
func (r *StatisticsRepo) GetStockSummary(ctx context.Context, categoryID *int64) (repository.StockSummary, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(stock_quantity * COALESCE(unit_price, 0)), 0),
			COUNT(*) FILTER (WHERE ` + materialStatusSQL[entity.MaterialStatusLowStock] + `),
			COUNT(*) FILTER (WHERE ` + materialStatusSQL[entity.MaterialStatusOutOfStock] + `)
		FROM materials
		WHERE ($1::BIGINT IS NULL OR category_id = $1)`
	var s repository.StockSummary
	err := r.q.QueryRow(ctx, query, categoryID).Scan(&s.TotalMaterials, &s.TotalValue, &s.LowStockCount, &s.OutOfStockCount)
	if err != nil {
		return s, fmt.Errorf("stock summary: %w", err)
	}
	return s, nil
}

// GetOutboundQuantity suma la cantidad de salidas desde since.
func (r *StatisticsRepo) GetOutboundQuantity(ctx context.Context, since time.Time, categoryID *int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(t.quantity), 0)
		FROM material_transactions t
		JOIN materials m ON m.id = t.material_id
		WHERE t.transaction_type = 'out'
			AND t.created_at >= $1
			AND ($2::BIGINT IS NULL OR m.category_id = $2)`
	var total int64
	if err := r.q.QueryRow(ctx, query, since, categoryID).Scan(&total); err != nil {
		return 0, fmt.Errorf("outbound quantity: %w", err)
	}
	return total, nil
}

// GetTopOutboundMaterials materiales con más salidas registradas (histórico completo).
func (r *StatisticsRepo) GetTopOutboundMaterials(ctx context.Context, limit int) ([]repository.TopMaterialResult, error) {
	query := `
		SELECT m.id, m.name, COUNT(t.id) AS request_count
		FROM materials m
		JOIN material_transactions t ON t.material_id = m.id
		WHERE t.transaction_type = 'out'
		GROUP BY m.id, m.name
		ORDER BY request_count DESC, m.id
		LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top outbound materials: %w", err)
	}
	defer rows.Close()
	var out []repository.TopMaterialResult
	for rows.Next() {
		var t repository.TopMaterialResult
		if err := rows.Scan(&t.MaterialID, &t.MaterialName, &t.RequestCount); err != nil {
			return nil, fmt.Errorf("scan top material: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetCategoryDistribution número de materiales y valor por categoría (solo categorías con materiales).
func (r *StatisticsRepo) GetCategoryDistribution(ctx context.Context) ([]repository.CategoryValueResult, error) {
	query := `
		SELECT c.id, c.name, COUNT(m.id), COALESCE(SUM(m.stock_quantity * COALESCE(m.unit_price, 0)), 0)
		FROM material_categories c
		JOIN materials m ON m.category_id = c.id
		GROUP BY c.id, c.name, c.sort_order
		ORDER BY c.sort_order, c.id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("category distribution: %w", err)
	}
	defer rows.Close()
	var out []repository.CategoryValueResult
	for rows.Next() {
		var c repository.CategoryValueResult
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.MaterialCount, &c.TotalValue); err != nil {
			return nil, fmt.Errorf("scan category distribution: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
