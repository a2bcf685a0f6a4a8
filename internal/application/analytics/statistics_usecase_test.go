package analytics_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Laboratorio-api/internal/application/analytics"
	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/infrastructure/memory"
)

var cst = time.FixedZone("CST", 8*3600)

func TestPeriodStart(t *testing.T) {
	// 2026-03-05 es jueves.
	now := time.Date(2026, 3, 5, 15, 4, 5, 0, cst)

	day, err := analytics.PeriodStart(dto.PeriodDay, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, cst), day)

	week, err := analytics.PeriodStart(dto.PeriodWeek, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, cst), week)

	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, cst)
	week, _ = analytics.PeriodStart(dto.PeriodWeek, sunday)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, cst), week)

	month, err := analytics.PeriodStart(dto.PeriodMonth, now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, cst), month)

	_, err = analytics.PeriodStart("year", now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetStatistics_SinDatos(t *testing.T) {
	s := memory.NewStore()
	uc := analytics.NewStatisticsUseCase(s.Statistics(), ports.FixedClock(time.Date(2026, 3, 5, 12, 0, 0, 0, cst)))

	res, err := uc.GetStatistics(context.Background(), dto.StatisticsQuery{})
	require.NoError(t, err)
	assert.Equal(t, dto.PeriodMonth, res.Period)
	assert.Zero(t, res.TotalMaterials)
	assert.True(t, res.TotalValue.IsZero())
	assert.Empty(t, res.TopRequestedMaterials)

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"month_out":0`)
	assert.Contains(t, string(b), `"category_distribution":[]`)
}

func TestGetStatistics_ConMovimientos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, cst)
	clock := func() time.Time { return now }
	stock := inventory.NewStockUseCase(s, s.Transactions(), nil, nil, clock, zerolog.Nop())

	reactivos := &entity.Category{Name: "Reactivos"}
	vidrio := &entity.Category{Name: "Vidrio", SortOrder: 1}
	require.NoError(t, s.Categories().Create(ctx, reactivos))
	require.NoError(t, s.Categories().Create(ctx, vidrio))
	price := decimal.RequireFromString("1.25")
	minStock := int64(5)
	etanol := &entity.Material{Code: "E", Name: "Etanol", CategoryID: reactivos.ID, Unit: "L", StockQuantity: 20, UnitPrice: &price}
	vaso := &entity.Material{Code: "V", Name: "Vaso", CategoryID: vidrio.ID, Unit: "u", StockQuantity: 4, MinStock: &minStock}
	require.NoError(t, s.Materials().Create(ctx, etanol))
	require.NoError(t, s.Materials().Create(ctx, vaso))

	// Salida del mes pasado: cuenta para el ranking pero no para month_out.
	now = time.Date(2026, 2, 20, 10, 0, 0, 0, cst)
	_, err := stock.Record(ctx, inventory.MovementInput{MaterialID: etanol.ID, Type: entity.TransactionTypeOut, Quantity: 2})
	require.NoError(t, err)
	now = time.Date(2026, 3, 5, 12, 0, 0, 0, cst)
	_, err = stock.Record(ctx, inventory.MovementInput{MaterialID: etanol.ID, Type: entity.TransactionTypeOut, Quantity: 3})
	require.NoError(t, err)
	_, err = stock.Record(ctx, inventory.MovementInput{MaterialID: vaso.ID, Type: entity.TransactionTypeOut, Quantity: 1})
	require.NoError(t, err)
	_, err = stock.Record(ctx, inventory.MovementInput{MaterialID: vaso.ID, Type: entity.TransactionTypeIn, Quantity: 10})
	require.NoError(t, err)

	uc := analytics.NewStatisticsUseCase(s.Statistics(), clock)
	res, err := uc.GetStatistics(ctx, dto.StatisticsQuery{Period: dto.PeriodMonth})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalMaterials)
	assert.Equal(t, int64(4), res.PeriodOut)
	assert.Equal(t, "18.75", res.TotalValue.String()) // 15 × 1.25
	assert.Zero(t, res.LowStockCount)
	require.Len(t, res.TopRequestedMaterials, 2)
	assert.Equal(t, etanol.ID, res.TopRequestedMaterials[0].MaterialID)
	assert.Equal(t, 2, res.TopRequestedMaterials[0].RequestCount)
	require.Len(t, res.CategoryDistribution, 2)
	assert.Equal(t, "Reactivos", res.CategoryDistribution[0].CategoryName)

	res, err = uc.GetStatistics(ctx, dto.StatisticsQuery{Period: dto.PeriodDay, CategoryID: &vidrio.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalMaterials)
	assert.Equal(t, int64(1), res.PeriodOut)
	assert.True(t, res.TotalValue.IsZero())

	_, err = uc.GetStatistics(ctx, dto.StatisticsQuery{Period: "siglo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
