package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.StatisticsRepository = (*StatisticsRepository)(nil)

// StatisticsRepository agregados calculados sobre los datos en memoria.
type StatisticsRepository struct {
	b backend
}

func (r *StatisticsRepository) GetStockSummary(_ context.Context, categoryID *int64) (repository.StockSummary, error) {
	s := repository.StockSummary{TotalValue: decimal.Zero}
	err := r.b.read(func(d *data) error {
		for _, m := range d.materials {
			if categoryID != nil && m.CategoryID != *categoryID {
				continue
			}
			s.TotalMaterials++
			s.TotalValue = s.TotalValue.Add(m.StockValue())
			switch m.Status() {
			case entity.MaterialStatusLowStock:
				s.LowStockCount++
			case entity.MaterialStatusOutOfStock:
				s.OutOfStockCount++
			}
		}
		return nil
	})
	return s, err
}

func (r *StatisticsRepository) GetOutboundQuantity(_ context.Context, since time.Time, categoryID *int64) (int64, error) {
	var total int64
	err := r.b.read(func(d *data) error {
		for _, t := range d.transactions {
			if t.Type != entity.TransactionTypeOut || t.CreatedAt.Before(since) {
				continue
			}
			if categoryID != nil {
				m, ok := d.materials[t.MaterialID]
				if !ok || m.CategoryID != *categoryID {
					continue
				}
			}
			total += t.Quantity
		}
		return nil
	})
	return total, err
}

func (r *StatisticsRepository) GetTopOutboundMaterials(_ context.Context, limit int) ([]repository.TopMaterialResult, error) {
	var out []repository.TopMaterialResult
	err := r.b.read(func(d *data) error {
		counts := map[int64]int{}
		for _, t := range d.transactions {
			if t.Type == entity.TransactionTypeOut {
				counts[t.MaterialID]++
			}
		}
		for id, n := range counts {
			m, ok := d.materials[id]
			if !ok {
				continue
			}
			out = append(out, repository.TopMaterialResult{MaterialID: id, MaterialName: m.Name, RequestCount: n})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestCount != out[j].RequestCount {
			return out[i].RequestCount > out[j].RequestCount
		}
		return out[i].MaterialID < out[j].MaterialID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

func (r *StatisticsRepository) GetCategoryDistribution(_ context.Context) ([]repository.CategoryValueResult, error) {
	var out []repository.CategoryValueResult
	err := r.b.read(func(d *data) error {
		byCategory := map[int64]*repository.CategoryValueResult{}
		for _, m := range d.materials {
			c, ok := d.categories[m.CategoryID]
			if !ok {
				continue
			}
			agg := byCategory[c.ID]
			if agg == nil {
				agg = &repository.CategoryValueResult{CategoryID: c.ID, CategoryName: c.Name, TotalValue: decimal.Zero}
				byCategory[c.ID] = agg
			}
			agg.MaterialCount++
			agg.TotalValue = agg.TotalValue.Add(m.StockValue())
		}
		for _, agg := range byCategory {
			out = append(out, *agg)
		}
		sort.Slice(out, func(i, j int) bool {
			ci, cj := d.categories[out[i].CategoryID], d.categories[out[j].CategoryID]
			if ci.SortOrder != cj.SortOrder {
				return ci.SortOrder < cj.SortOrder
			}
			return ci.ID < cj.ID
		})
		return nil
	})
	return out, err
}
