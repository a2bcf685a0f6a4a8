package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Periodos válidos para las estadísticas de salidas.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// StatisticsQuery filtros de GET /materials/statistics.
type StatisticsQuery struct {
	Period     string
	CategoryID *int64
}

// TopMaterialDTO material más solicitado (por número de salidas).
type TopMaterialDTO struct {
	MaterialID   int64  `json:"material_id"`
	MaterialName string `json:"material_name"`
	RequestCount int    `json:"request_count"`
}

// CategoryDistributionDTO agregado por categoría.
type CategoryDistributionDTO struct {
	CategoryID    int64           `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	MaterialCount int             `json:"material_count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// StatisticsResponse estadísticas de inventario. PeriodOut se serializa como "<period>_out".
type StatisticsResponse struct {
	Period                string
	TotalMaterials        int
	TotalValue            decimal.Decimal
	LowStockCount         int
	OutOfStockCount       int
	PeriodOut             int64
	TopRequestedMaterials []TopMaterialDTO
	CategoryDistribution  []CategoryDistributionDTO
}

// MarshalJSON conserva la clave dinámica day_out/week_out/month_out del contrato HTTP.
func (s StatisticsResponse) MarshalJSON() ([]byte, error) {
	top := s.TopRequestedMaterials
	if top == nil {
		top = []TopMaterialDTO{}
	}
	dist := s.CategoryDistribution
	if dist == nil {
		dist = []CategoryDistributionDTO{}
	}
	return json.Marshal(map[string]any{
		"period":                  s.Period,
		"total_materials":         s.TotalMaterials,
		"total_value":             s.TotalValue,
		"low_stock_count":         s.LowStockCount,
		"out_of_stock_count":      s.OutOfStockCount,
		s.Period + "_out":         s.PeriodOut,
		"top_requested_materials": top,
		"category_distribution":   dist,
	})
}
