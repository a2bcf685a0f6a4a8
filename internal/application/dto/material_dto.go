package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest entrada para crear un material. stock_quantity es el stock base inicial.
type CreateMaterialRequest struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	CategoryID    int64            `json:"category_id"`
	Description   string           `json:"description"`
	Unit          string           `json:"unit"`
	StockQuantity int64            `json:"stock_quantity"`
	MinStock      *int64           `json:"min_stock"`
	MaxStock      *int64           `json:"max_stock"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Location      string           `json:"location"`
	Supplier      string           `json:"supplier"`
}

// UpdateMaterialRequest actualización parcial. stock_quantity no se acepta aquí (usar ajustes de stock).
type UpdateMaterialRequest struct {
	Code        *string         `json:"code"`
	Name        *string         `json:"name"`
	CategoryID  *int64          `json:"category_id"`
	Description *string         `json:"description"`
	Unit        *string         `json:"unit"`
	MinStock    OptionalInt64   `json:"min_stock"`
	MaxStock    OptionalInt64   `json:"max_stock"`
	UnitPrice   OptionalDecimal `json:"unit_price"`
	Location    *string         `json:"location"`
	Supplier    *string         `json:"supplier"`
}

// MaterialListQuery filtros de GET /materials.
type MaterialListQuery struct {
	PageRequest
	CategoryID *int64
	Keyword    string
	Status     string
	Location   string
}

// MaterialResponse salida de un material con su estado derivado.
type MaterialResponse struct {
	ID            int64            `json:"id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	CategoryID    int64            `json:"category_id"`
	Description   string           `json:"description"`
	Unit          string           `json:"unit"`
	StockQuantity int64            `json:"stock_quantity"`
	MinStock      *int64           `json:"min_stock"`
	MaxStock      *int64           `json:"max_stock"`
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Location      string           `json:"location"`
	Supplier      string           `json:"supplier"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ReconcileResponse compara el stock del material con la última entrada del libro.
type ReconcileResponse struct {
	MaterialID     int64  `json:"material_id"`
	StockQuantity  int64  `json:"stock_quantity"`
	LedgerQuantity *int64 `json:"ledger_quantity"` // nil si no hay entradas (stock base)
	Entries        int    `json:"entries"`
	Consistent     bool   `json:"consistent"`
}
