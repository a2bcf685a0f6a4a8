package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository libro de inventario en memoria (solo inserción).
type TransactionRepository struct {
	b backend
}

func (r *TransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	return r.b.write(func(d *data) error {
		if _, ok := d.materials[t.MaterialID]; !ok {
			return domain.NotFound("material %d no encontrado", t.MaterialID)
		}
		if t.RequestID != nil {
			if _, ok := d.requisitions[*t.RequestID]; !ok {
				return domain.NotFound("solicitud %d no encontrada", *t.RequestID)
			}
		}
		d.nextTransaction++
		t.ID = d.nextTransaction
		d.transactions = append(d.transactions, *t)
		return nil
	})
}

func (r *TransactionRepository) List(_ context.Context, f repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	var matched []*entity.Transaction
	err := r.b.read(func(d *data) error {
		for _, t := range d.transactions {
			if f.MaterialID != nil && t.MaterialID != *f.MaterialID {
				continue
			}
			if f.Type != "" && t.Type != f.Type {
				continue
			}
			if f.From != nil && t.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && t.CreatedAt.After(*f.To) {
				continue
			}
			t := t
			matched = append(matched, &t)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return page(matched, f.Limit, f.Offset), len(matched), nil
}

func (r *TransactionRepository) CountByMaterial(_ context.Context, materialID int64) (int, error) {
	n := 0
	err := r.b.read(func(d *data) error {
		for _, t := range d.transactions {
			if t.MaterialID == materialID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *TransactionRepository) LatestByMaterial(_ context.Context, materialID int64) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.b.read(func(d *data) error {
		// Las inserciones se confirman en orden, la última coincidencia es la más reciente.
		for i := len(d.transactions) - 1; i >= 0; i-- {
			if d.transactions[i].MaterialID == materialID {
				t := d.transactions[i]
				out = &t
				return nil
			}
		}
		return nil
	})
	return out, err
}
