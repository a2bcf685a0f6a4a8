// Package analytics contiene el motor de estadísticas de inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

const topRequestedMaterials = 5 // materiales en el ranking de más solicitados

// StatisticsUseCase genera las estadísticas de inventario (solo lectura, sin caché).
type StatisticsUseCase struct {
	statsRepo repository.StatisticsRepository
	clock     ports.Clock
}

// NewStatisticsUseCase construye el caso de uso.
func NewStatisticsUseCase(statsRepo repository.StatisticsRepository, clock ports.Clock) *StatisticsUseCase {
	return &StatisticsUseCase{statsRepo: statsRepo, clock: clock}
}

// GetStatistics construye las estadísticas del periodo (day | week | month; por defecto month).
//
// Cuatro consultas en paralelo:
//  1. GetStockSummary          → totales, valor, bajo mínimo, sin stock
//  2. GetOutboundQuantity      → <period>_out
//  3. GetTopOutboundMaterials  → top 5 por número de salidas
//  4. GetCategoryDistribution  → agregado por categoría
func (uc *StatisticsUseCase) GetStatistics(ctx context.Context, q dto.StatisticsQuery) (*dto.StatisticsResponse, error) {
	period := q.Period
	if period == "" {
		period = dto.PeriodMonth
	}
	since, err := PeriodStart(period, uc.clock())
	if err != nil {
		return nil, err
	}

	type summaryResult struct {
		v   repository.StockSummary
		err error
	}
	type outResult struct {
		v   int64
		err error
	}
	type topResult struct {
		v   []repository.TopMaterialResult
		err error
	}
	type distResult struct {
		v   []repository.CategoryValueResult
		err error
	}

	summaryCh := make(chan summaryResult, 1)
	outCh := make(chan outResult, 1)
	topCh := make(chan topResult, 1)
	distCh := make(chan distResult, 1)

	go func() {
		v, err := uc.statsRepo.GetStockSummary(ctx, q.CategoryID)
		summaryCh <- summaryResult{v, err}
	}()
	go func() {
		v, err := uc.statsRepo.GetOutboundQuantity(ctx, since, q.CategoryID)
		outCh <- outResult{v, err}
	}()
	go func() {
		v, err := uc.statsRepo.GetTopOutboundMaterials(ctx, topRequestedMaterials)
		topCh <- topResult{v, err}
	}()
	go func() {
		v, err := uc.statsRepo.GetCategoryDistribution(ctx)
		distCh <- distResult{v, err}
	}()

	summary := <-summaryCh
	out := <-outCh
	top := <-topCh
	dist := <-distCh

	if summary.err != nil {
		return nil, fmt.Errorf("estadísticas: resumen de stock: %w", summary.err)
	}
	if out.err != nil {
		return nil, fmt.Errorf("estadísticas: salidas del periodo: %w", out.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("estadísticas: materiales más solicitados: %w", top.err)
	}
	if dist.err != nil {
		return nil, fmt.Errorf("estadísticas: distribución por categoría: %w", dist.err)
	}

	res := &dto.StatisticsResponse{
		Period:                period,
		TotalMaterials:        summary.v.TotalMaterials,
		TotalValue:            summary.v.TotalValue.Round(2),
		LowStockCount:         summary.v.LowStockCount,
		OutOfStockCount:       summary.v.OutOfStockCount,
		PeriodOut:             out.v,
		TopRequestedMaterials: make([]dto.TopMaterialDTO, 0, len(top.v)),
		CategoryDistribution:  make([]dto.CategoryDistributionDTO, 0, len(dist.v)),
	}
	for _, t := range top.v {
		res.TopRequestedMaterials = append(res.TopRequestedMaterials, dto.TopMaterialDTO{
			MaterialID:   t.MaterialID,
			MaterialName: t.MaterialName,
			RequestCount: t.RequestCount,
		})
	}
	for _, d := range dist.v {
		res.CategoryDistribution = append(res.CategoryDistribution, dto.CategoryDistributionDTO{
			CategoryID:    d.CategoryID,
			CategoryName:  d.CategoryName,
			MaterialCount: d.MaterialCount,
			TotalValue:    d.TotalValue.Round(2),
		})
	}
	return res, nil
}

// PeriodStart devuelve el inicio del periodo en la zona de now:
// day = medianoche, week = lunes 00:00, month = día 1 00:00.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case dto.PeriodDay:
		return midnight, nil
	case dto.PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7 // lunes = 0
		return midnight.AddDate(0, 0, -offset), nil
	case dto.PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	default:
		return time.Time{}, domain.Validation("periodo inválido: %q (day | week | month)", period)
	}
}
