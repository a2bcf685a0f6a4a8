package inventory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

// CategoryUseCase casos de uso del árbol de categorías.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	materials  repository.MaterialRepository
	clock      ports.Clock
	log        zerolog.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(
	categories repository.CategoryRepository,
	materials repository.MaterialRepository,
	clock ports.Clock,
	log zerolog.Logger,
) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, materials: materials, clock: clock, log: log}
}

// List devuelve todas las categorías (lista plana) ordenadas por sort_order.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	return out, nil
}

// Create crea una categoría. El nombre es único; el padre, si se indica, debe existir.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("el nombre de la categoría es obligatorio")
	}
	if err := uc.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if err := uc.ensureExists(ctx, *in.ParentID); err != nil {
			return nil, err
		}
	}

	now := uc.clock()
	c := &entity.Category{
		Name:        name,
		Description: in.Description,
		ParentID:    in.ParentID,
		SortOrder:   in.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Update aplica una actualización parcial. Un nuevo padre no puede ser la propia categoría
// ni uno de sus descendientes.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("categoría %d no encontrada", id)
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.Validation("el nombre de la categoría es obligatorio")
		}
		if name != c.Name {
			if err := uc.ensureNameFree(ctx, name, id); err != nil {
				return nil, err
			}
		}
		c.Name = name
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.ParentID.Set {
		if in.ParentID.Value != nil {
			if err := uc.ensureValidParent(ctx, id, *in.ParentID.Value); err != nil {
				return nil, err
			}
		}
		c.ParentID = in.ParentID.Value
	}

	c.UpdatedAt = uc.clock()
	if err := uc.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	out := toCategoryResponse(c)
	return &out, nil
}

// Delete elimina una categoría sin subcategorías ni materiales.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.ensureExists(ctx, id); err != nil {
		return err
	}
	children, err := uc.categories.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.HasDependents("la categoría tiene %d subcategorías", children)
	}
	materials, err := uc.materials.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if materials > 0 {
		return domain.HasDependents("la categoría tiene %d materiales asociados", materials)
	}
	if err := uc.categories.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("category_id", id).Msg("categoría eliminada")
	return nil
}

func (uc *CategoryUseCase) ensureExists(ctx context.Context, id int64) error {
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("categoría %d no encontrada", id)
	}
	return nil
}

func (uc *CategoryUseCase) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := uc.categories.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.Conflict("ya existe una categoría con el nombre %q", name)
	}
	return nil
}

// ensureValidParent recorre los ancestros del nuevo padre; encontrar id significa un ciclo.
func (uc *CategoryUseCase) ensureValidParent(ctx context.Context, id, parentID int64) error {
	if parentID == id {
		return domain.InvalidState("una categoría no puede ser su propio padre")
	}
	seen := map[int64]bool{}
	cur := parentID
	for {
		c, err := uc.categories.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if c == nil {
			if cur == parentID {
				return domain.NotFound("categoría padre %d no encontrada", parentID)
			}
			return nil
		}
		if c.ParentID == nil || seen[cur] {
			return nil
		}
		seen[cur] = true
		if *c.ParentID == id {
			return domain.InvalidState("la categoría %d es descendiente de %d", parentID, id)
		}
		cur = *c.ParentID
	}
}
