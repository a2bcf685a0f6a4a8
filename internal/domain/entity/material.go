package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un material; nunca se persisten.
const (
	MaterialStatusAvailable  = "available"
	MaterialStatusLowStock   = "low_stock"
	MaterialStatusOutOfStock = "out_of_stock"
)

// Material representa un SKU del laboratorio.
// StockQuantity solo cambia vía movimientos del libro de transacciones.
type Material struct {
	ID            int64
	Code          string // único; inmutable cuando existen transacciones
	Name          string
	CategoryID    int64
	Description   string
	Unit          string
	StockQuantity int64
	MinStock      *int64
	MaxStock      *int64
	UnitPrice     *decimal.Decimal
	Location      string
	Supplier      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Status calcula el estado a partir del stock y del mínimo configurado.
func (m *Material) Status() string {
	return StockStatus(m.StockQuantity, m.MinStock)
}

// StockStatus regla de estado: sin stock, bajo mínimo (inclusive) o disponible.
func StockStatus(quantity int64, minStock *int64) string {
	switch {
	case quantity <= 0:
		return MaterialStatusOutOfStock
	case minStock != nil && quantity <= *minStock:
		return MaterialStatusLowStock
	default:
		return MaterialStatusAvailable
	}
}

// StockValue devuelve cantidad × precio unitario (cero si no hay precio).
func (m *Material) StockValue() decimal.Decimal {
	if m.UnitPrice == nil {
		return decimal.Zero
	}
	return m.UnitPrice.Mul(decimal.NewFromInt(m.StockQuantity))
}

// IsValidMaterialStatus indica si s es uno de los estados derivados.
func IsValidMaterialStatus(s string) bool {
	switch s {
	case MaterialStatusAvailable, MaterialStatusLowStock, MaterialStatusOutOfStock:
		return true
	}
	return false
}
