package inventory

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Laboratorio-api/internal/domain/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

// MaterialUseCase casos de uso del registro de materiales. El stock nunca se modifica aquí:
// solo a través de StockUseCase, que deja rastro en el libro.
type MaterialUseCase struct {
	txRunner     TxRunner
	materials    repository.MaterialRepository
	categories   repository.CategoryRepository
	transactions repository.TransactionRepository
	clock        ports.Clock
	log          zerolog.Logger
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(
	txRunner TxRunner,
	materials repository.MaterialRepository,
	categories repository.CategoryRepository,
	transactions repository.TransactionRepository,
	clock ports.Clock,
	log zerolog.Logger,
) *MaterialUseCase {
	return &MaterialUseCase{
		txRunner:     txRunner,
		materials:    materials,
		categories:   categories,
		transactions: transactions,
		clock:        clock,
		log:          log,
	}
}

// Create registra un material. stock_quantity es el stock base y no genera entrada en el libro.
func (uc *MaterialUseCase) Create(ctx context.Context, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	if code == "" || name == "" || unit == "" || in.CategoryID <= 0 {
		return nil, domain.Validation("code, name, category_id y unit son obligatorios")
	}
	if in.StockQuantity < 0 {
		return nil, domain.Validation("stock_quantity no puede ser negativo")
	}
	if err := validateLimits(in.MinStock, in.MaxStock, in.UnitPrice); err != nil {
		return nil, err
	}
	if err := uc.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if err := uc.ensureCodeFree(ctx, code, 0); err != nil {
		return nil, err
	}

	now := uc.clock()
	m := &entity.Material{
		Code:          code,
		Name:          name,
		CategoryID:    in.CategoryID,
		Description:   in.Description,
		Unit:          unit,
		StockQuantity: in.StockQuantity,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		UnitPrice:     in.UnitPrice,
		Location:      in.Location,
		Supplier:      in.Supplier,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.materials.Create(ctx, m); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("material_id", m.ID).Str("code", m.Code).Int64("stock", m.StockQuantity).Msg("material creado")
	out := toMaterialResponse(m)
	return &out, nil
}

// GetByID devuelve un material con su estado derivado.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id int64) (*dto.MaterialResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toMaterialResponse(m)
	return &out, nil
}

// List devuelve una página de materiales ordenados por nombre.
func (uc *MaterialUseCase) List(ctx context.Context, q dto.MaterialListQuery) (*dto.PageResult[dto.MaterialResponse], error) {
	q.Normalize()
	if q.Status != "" && !entity.IsValidMaterialStatus(q.Status) {
		return nil, domain.Validation("estado de material inválido: %q", q.Status)
	}
	list, total, err := uc.materials.List(ctx, repository.MaterialFilter{
		CategoryID: q.CategoryID,
		Keyword:    strings.TrimSpace(q.Keyword),
		Status:     q.Status,
		Location:   strings.TrimSpace(q.Location),
		Limit:      q.Limit,
		Offset:     q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMaterialResponse(m))
	}
	return &dto.PageResult[dto.MaterialResponse]{Items: items, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

// Update aplica una actualización parcial sobre todo excepto el stock.
// El código queda fijo en cuanto el material tiene movimientos; la fila se bloquea igual que en
// StockUseCase.Record para que ningún movimiento entre entre la verificación y la escritura.
func (uc *MaterialUseCase) Update(ctx context.Context, id int64, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	var out dto.MaterialResponse
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		m, err := lockMaterial(ctx, r.Materials, id)
		if err != nil {
			return err
		}
		if err := uc.apply(ctx, r, m, in); err != nil {
			return err
		}
		m.UpdatedAt = uc.clock()
		if err := r.Materials.Update(ctx, m); err != nil {
			return err
		}
		fresh, err := r.Materials.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = toMaterialResponse(fresh)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// apply valida y copia sobre m los campos presentes en la petición.
func (uc *MaterialUseCase) apply(ctx context.Context, r Repos, m *entity.Material, in dto.UpdateMaterialRequest) error {
	if in.Code != nil {
		code := strings.TrimSpace(*in.Code)
		if code == "" {
			return domain.Validation("el código es obligatorio")
		}
		if code != m.Code {
			n, err := r.Transactions.CountByMaterial(ctx, m.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return domain.InvalidState("el código no puede cambiar: el material tiene %d movimientos", n)
			}
			if err := codeFree(ctx, r.Materials, code, m.ID); err != nil {
				return err
			}
			m.Code = code
		}
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Validation("el nombre es obligatorio")
		}
		m.Name = name
	}
	if in.Unit != nil {
		unit := strings.TrimSpace(*in.Unit)
		if unit == "" {
			return domain.Validation("la unidad es obligatoria")
		}
		m.Unit = unit
	}
	if in.CategoryID != nil && *in.CategoryID != m.CategoryID {
		if err := categoryExists(ctx, r.Categories, *in.CategoryID); err != nil {
			return err
		}
		m.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	if in.MinStock.Set {
		m.MinStock = in.MinStock.Value
	}
	if in.MaxStock.Set {
		m.MaxStock = in.MaxStock.Value
	}
	if in.UnitPrice.Set {
		m.UnitPrice = in.UnitPrice.Value
	}
	if in.Location != nil {
		m.Location = *in.Location
	}
	if in.Supplier != nil {
		m.Supplier = *in.Supplier
	}
	return validateLimits(m.MinStock, m.MaxStock, m.UnitPrice)
}

// Delete elimina un material que nunca tuvo movimientos.
func (uc *MaterialUseCase) Delete(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		if _, err := lockMaterial(ctx, r.Materials, id); err != nil {
			return err
		}
		n, err := r.Transactions.CountByMaterial(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.HasDependents("el material tiene %d movimientos registrados", n)
		}
		return r.Materials.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("material_id", id).Msg("material eliminado")
	return nil
}

// Reconcile compara el stock actual con el after_quantity de la última entrada del libro.
func (uc *MaterialUseCase) Reconcile(ctx context.Context, id int64) (*dto.ReconcileResponse, error) {
	m, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := uc.transactions.CountByMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.ReconcileResponse{MaterialID: id, StockQuantity: m.StockQuantity, Entries: n, Consistent: true}
	if n == 0 {
		return out, nil
	}
	last, err := uc.transactions.LatestByMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if last != nil {
		q := last.AfterQuantity
		out.LedgerQuantity = &q
		out.Consistent = q == m.StockQuantity && domaininv.Consistent(last)
	}
	if !out.Consistent {
		uc.log.Warn().Int64("material_id", id).Int64("stock", m.StockQuantity).Msg("stock no coincide con el libro")
	}
	return out, nil
}

func (uc *MaterialUseCase) get(ctx context.Context, id int64) (*entity.Material, error) {
	m, err := uc.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("material %d no encontrado", id)
	}
	return m, nil
}

func (uc *MaterialUseCase) ensureCategory(ctx context.Context, id int64) error {
	return categoryExists(ctx, uc.categories, id)
}

func (uc *MaterialUseCase) ensureCodeFree(ctx context.Context, code string, selfID int64) error {
	return codeFree(ctx, uc.materials, code, selfID)
}

func lockMaterial(ctx context.Context, materials repository.MaterialRepository, id int64) (*entity.Material, error) {
	m, err := materials.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("material %d no encontrado", id)
	}
	return m, nil
}

func categoryExists(ctx context.Context, categories repository.CategoryRepository, id int64) error {
	c, err := categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("categoría %d no encontrada", id)
	}
	return nil
}

func codeFree(ctx context.Context, materials repository.MaterialRepository, code string, selfID int64) error {
	existing, err := materials.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.Conflict("ya existe un material con el código %q", code)
	}
	return nil
}

func validateLimits(minStock, maxStock *int64, unitPrice *decimal.Decimal) error {
	if minStock != nil && *minStock < 0 {
		return domain.Validation("min_stock no puede ser negativo")
	}
	if maxStock != nil && *maxStock < 0 {
		return domain.Validation("max_stock no puede ser negativo")
	}
	if minStock != nil && maxStock != nil && *minStock > *maxStock {
		return domain.Validation("min_stock no puede ser mayor que max_stock")
	}
	if unitPrice != nil && unitPrice.IsNegative() {
		return domain.Validation("unit_price no puede ser negativo")
	}
	return nil
}
