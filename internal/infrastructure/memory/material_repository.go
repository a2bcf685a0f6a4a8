package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepository)(nil)

// MaterialRepository implementación en memoria.
type MaterialRepository struct {
	b backend
}

func (r *MaterialRepository) Create(_ context.Context, m *entity.Material) error {
	return r.b.write(func(d *data) error {
		if _, ok := d.categories[m.CategoryID]; !ok {
			return domain.NotFound("categoría %d no encontrada", m.CategoryID)
		}
		for _, existing := range d.materials {
			if existing.Code == m.Code {
				return domain.Conflict("ya existe un material con el código %q", m.Code)
			}
		}
		d.nextMaterial++
		m.ID = d.nextMaterial
		d.materials[m.ID] = *m
		return nil
	})
}

func (r *MaterialRepository) GetByID(_ context.Context, id int64) (*entity.Material, error) {
	var out *entity.Material
	err := r.b.read(func(d *data) error {
		if m, ok := d.materials[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate no necesita bloqueo propio: dentro de Run el Store ya está bloqueado.
func (r *MaterialRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRepository) GetByCode(_ context.Context, code string) (*entity.Material, error) {
	var out *entity.Material
	err := r.b.read(func(d *data) error {
		for _, m := range d.materials {
			if m.Code == code {
				m := m
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MaterialRepository) Update(_ context.Context, m *entity.Material) error {
	return r.b.write(func(d *data) error {
		current, ok := d.materials[m.ID]
		if !ok {
			return domain.NotFound("material %d no encontrado", m.ID)
		}
		if _, ok := d.categories[m.CategoryID]; !ok {
			return domain.NotFound("categoría %d no encontrada", m.CategoryID)
		}
		for id, existing := range d.materials {
			if id != m.ID && existing.Code == m.Code {
				return domain.Conflict("ya existe un material con el código %q", m.Code)
			}
		}
		updated := *m
		updated.StockQuantity = current.StockQuantity
		updated.CreatedAt = current.CreatedAt
		d.materials[m.ID] = updated
		return nil
	})
}

func (r *MaterialRepository) UpdateStock(_ context.Context, id, quantity int64, updatedAt time.Time) error {
	return r.b.write(func(d *data) error {
		m, ok := d.materials[id]
		if !ok {
			return domain.NotFound("material %d no encontrado", id)
		}
		if quantity < 0 {
			return domain.InvalidState("el stock no puede ser negativo")
		}
		m.StockQuantity = quantity
		m.UpdatedAt = updatedAt
		d.materials[id] = m
		return nil
	})
}

func (r *MaterialRepository) Delete(_ context.Context, id int64) error {
	return r.b.write(func(d *data) error {
		if _, ok := d.materials[id]; !ok {
			return domain.NotFound("material %d no encontrado", id)
		}
		for _, t := range d.transactions {
			if t.MaterialID == id {
				return domain.HasDependents("el material tiene movimientos registrados")
			}
		}
		delete(d.materials, id)
		return nil
	})
}

func (r *MaterialRepository) List(_ context.Context, f repository.MaterialFilter) ([]*entity.Material, int, error) {
	var matched []*entity.Material
	err := r.b.read(func(d *data) error {
		keyword := strings.ToLower(f.Keyword)
		location := strings.ToLower(f.Location)
		for _, m := range d.materials {
			if f.CategoryID != nil && m.CategoryID != *f.CategoryID {
				continue
			}
			if keyword != "" && !strings.Contains(strings.ToLower(m.Name), keyword) && !strings.Contains(strings.ToLower(m.Code), keyword) {
				continue
			}
			if location != "" && !strings.Contains(strings.ToLower(m.Location), location) {
				continue
			}
			if f.Status != "" && m.Status() != f.Status {
				continue
			}
			m := m
			matched = append(matched, &m)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})
	return page(matched, f.Limit, f.Offset), len(matched), nil
}

func (r *MaterialRepository) CountByCategory(_ context.Context, categoryID int64) (int, error) {
	n := 0
	err := r.b.read(func(d *data) error {
		for _, m := range d.materials {
			if m.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}
