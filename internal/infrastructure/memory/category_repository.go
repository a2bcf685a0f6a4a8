package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implementación en memoria.
type CategoryRepository struct {
	b backend
}

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	return r.b.write(func(d *data) error {
		for _, existing := range d.categories {
			if existing.Name == c.Name {
				return domain.Conflict("ya existe una categoría con el nombre %q", c.Name)
			}
		}
		if c.ParentID != nil {
			if _, ok := d.categories[*c.ParentID]; !ok {
				return domain.NotFound("categoría padre %d no encontrada", *c.ParentID)
			}
		}
		d.nextCategory++
		c.ID = d.nextCategory
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	err := r.b.read(func(d *data) error {
		if c, ok := d.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepository) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	err := r.b.read(func(d *data) error {
		for _, c := range d.categories {
			if c.Name == name {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepository) Update(_ context.Context, c *entity.Category) error {
	return r.b.write(func(d *data) error {
		if _, ok := d.categories[c.ID]; !ok {
			return domain.NotFound("categoría %d no encontrada", c.ID)
		}
		for id, existing := range d.categories {
			if id != c.ID && existing.Name == c.Name {
				return domain.Conflict("ya existe una categoría con el nombre %q", c.Name)
			}
		}
		d.categories[c.ID] = *c
		return nil
	})
}

func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	return r.b.write(func(d *data) error {
		if _, ok := d.categories[id]; !ok {
			return domain.NotFound("categoría %d no encontrada", id)
		}
		for _, c := range d.categories {
			if c.ParentID != nil && *c.ParentID == id {
				return domain.HasDependents("la categoría tiene subcategorías")
			}
		}
		for _, m := range d.materials {
			if m.CategoryID == id {
				return domain.HasDependents("la categoría tiene materiales asociados")
			}
		}
		delete(d.categories, id)
		return nil
	})
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.b.read(func(d *data) error {
		out = make([]*entity.Category, 0, len(d.categories))
		for _, c := range d.categories {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *CategoryRepository) CountChildren(_ context.Context, id int64) (int, error) {
	n := 0
	err := r.b.read(func(d *data) error {
		for _, c := range d.categories {
			if c.ParentID != nil && *c.ParentID == id {
				n++
			}
		}
		return nil
	})
	return n, err
}
