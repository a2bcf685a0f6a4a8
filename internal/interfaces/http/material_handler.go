package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Laboratorio-api/internal/application/analytics"
	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
)

// MaterialHandler maneja materiales, ajustes de stock y estadísticas.
type MaterialHandler struct {
	materials *inventory.MaterialUseCase
	stock     *inventory.StockUseCase
	stats     *analytics.StatisticsUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(materials *inventory.MaterialUseCase, stock *inventory.StockUseCase, stats *analytics.StatisticsUseCase) *MaterialHandler {
	return &MaterialHandler{materials: materials, stock: stock, stats: stats}
}

// List godoc
// @Summary      Listar materiales paginados
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        page         query  int     false  "Página (por defecto 1)"
// @Param        limit        query  int     false  "Tamaño de página (máx. 100)"
// @Param        category_id  query  int     false  "Filtrar por categoría"
// @Param        keyword      query  string  false  "Subcadena del nombre o del código"
// @Param        status       query  string  false  "available | low_stock | out_of_stock"
// @Param        location     query  string  false  "Ubicación (coincidencia parcial)"
// @Success      200  {object}  dto.Envelope
// @Router       /api/v1/materials [get]
func (h *MaterialHandler) List(c *fiber.Ctx) error {
	categoryID, err := queryInt64(c, "category_id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.materials.List(c.UserContext(), dto.MaterialListQuery{
		PageRequest: pageRequest(c),
		CategoryID:  categoryID,
		Keyword:     c.Query("keyword"),
		Status:      c.Query("status"),
		Location:    c.Query("location"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "materiales obtenidos", out)
}

// Create godoc
// @Summary      Crear material
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMaterialRequest  true  "Datos del material"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/v1/materials [post]
func (h *MaterialHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.materials.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "material creado", out)
}

// GetByID godoc
// @Summary      Obtener material por ID
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del material"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/materials/{id} [get]
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	out, err := h.materials.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "material obtenido", out)
}

// Update godoc
// @Summary      Actualizar material (stock_quantity se ignora)
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID del material"
// @Param        body  body  dto.UpdateMaterialRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/v1/materials/{id} [put]
func (h *MaterialHandler) Update(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	var in dto.UpdateMaterialRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.materials.Update(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "material actualizado", out)
}

// Delete godoc
// @Summary      Eliminar material sin movimientos
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del material"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	if err := h.materials.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return ok(c, "material eliminado", nil)
}

// AdjustStock godoc
// @Summary      Ajustar stock de un material a un valor absoluto
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del material"
// @Param        body  body  dto.AdjustStockRequest  true  "stock_quantity destino"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/materials/{id}/stock [put]
func (h *MaterialHandler) AdjustStock(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if in.StockQuantity == nil {
		return badRequest(c, "stock_quantity es obligatorio")
	}
	out, err := h.stock.AdjustStock(c.UserContext(), id, *in.StockQuantity, userIDPtr(c), in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "stock actualizado", out)
}

// BatchUpdateStock godoc
// @Summary      Ajuste masivo de stock (éxito parcial por línea)
// @Tags         materials
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchUpdateStockRequest  true  "updates: [{material_id, stock_quantity, notes}]"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Router       /api/v1/materials/batch-update-stock [put]
func (h *MaterialHandler) BatchUpdateStock(c *fiber.Ctx) error {
	var in dto.BatchUpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.stock.BatchAdjustStock(c.UserContext(), in, userIDPtr(c))
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "actualización masiva completada", out)
}

// Reconcile godoc
// @Summary      Verificar stock contra el libro de movimientos
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del material"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/materials/{id}/reconcile [get]
func (h *MaterialHandler) Reconcile(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	out, err := h.materials.Reconcile(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "conciliación calculada", out)
}

// Statistics godoc
// @Summary      Estadísticas de inventario
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        period       query  string  false  "day | week | month (por defecto month)"
// @Param        category_id  query  int     false  "Limitar a una categoría"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Router       /api/v1/materials/statistics [get]
func (h *MaterialHandler) Statistics(c *fiber.Ctx) error {
	categoryID, err := queryInt64(c, "category_id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.stats.GetStatistics(c.UserContext(), dto.StatisticsQuery{
		Period:     c.Query("period"),
		CategoryID: categoryID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "estadísticas obtenidas", out)
}
