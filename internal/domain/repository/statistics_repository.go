package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary totales del registro de materiales.
type StockSummary struct {
	TotalMaterials  int
	TotalValue      decimal.Decimal // Σ stock_quantity × coalesce(unit_price, 0)
	LowStockCount   int
	OutOfStockCount int
}

// TopMaterialResult material con su número de salidas.
type TopMaterialResult struct {
	MaterialID   int64
	MaterialName string
	RequestCount int
}

// CategoryValueResult agregado por categoría (solo categorías con materiales).
type CategoryValueResult struct {
	CategoryID    int64
	CategoryName  string
	MaterialCount int
	TotalValue    decimal.Decimal
}

// StatisticsRepository consultas de solo lectura sobre materiales y libro de inventario.
type StatisticsRepository interface {
	GetStockSummary(ctx context.Context, categoryID *int64) (StockSummary, error)
	// GetOutboundQuantity suma las cantidades de salidas desde since.
	GetOutboundQuantity(ctx context.Context, since time.Time, categoryID *int64) (int64, error)
	GetTopOutboundMaterials(ctx context.Context, limit int) ([]TopMaterialResult, error)
	GetCategoryDistribution(ctx context.Context) ([]CategoryValueResult, error)
}
