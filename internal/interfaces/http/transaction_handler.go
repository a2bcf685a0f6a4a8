package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
)

// TransactionHandler expone el libro de movimientos de materiales.
type TransactionHandler struct {
	stock *inventory.StockUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(stock *inventory.StockUseCase) *TransactionHandler {
	return &TransactionHandler{stock: stock}
}

// List godoc
// @Summary      Listar movimientos (más recientes primero)
// @Tags         material-transactions
// @Security     Bearer
// @Produce      json
// @Param        page              query  int     false  "Página"
// @Param        limit             query  int     false  "Tamaño de página"
// @Param        material_id       query  int     false  "Filtrar por material"
// @Param        transaction_type  query  string  false  "in | out | adjust | return"
// @Param        start_date        query  string  false  "YYYY-MM-DD"
// @Param        end_date          query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.Envelope
// @Failure      400  {object}  dto.Envelope
// @Router       /api/v1/material-transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	q, err := transactionQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.stock.ListTransactions(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "movimientos obtenidos", out)
}

// Record godoc
// @Summary      Registrar movimiento en el libro
// @Tags         material-transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordTransactionRequest  true  "quantity: magnitud (in/out/return) o stock destino (adjust)"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/material-transactions [post]
func (h *TransactionHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.stock.Record(c.UserContext(), inventory.MovementInput{
		MaterialID: in.MaterialID,
		Type:       in.TransactionType,
		Quantity:   in.Quantity,
		UserID:     userIDPtr(c),
		RequestID:  in.RequestID,
		Notes:      in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "movimiento registrado", out)
}

// Export godoc
// @Summary      Exportar movimientos a Excel
// @Tags         material-transactions
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        material_id       query  int     false  "Filtrar por material"
// @Param        transaction_type  query  string  false  "in | out | adjust | return"
// @Param        start_date        query  string  false  "YYYY-MM-DD"
// @Param        end_date          query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.Envelope
// @Router       /api/v1/material-transactions/export [get]
func (h *TransactionHandler) Export(c *fiber.Ctx) error {
	q, err := transactionQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	file, err := h.stock.ExportTransactions(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Status(fiber.StatusOK).Send(file.Content)
}

func transactionQuery(c *fiber.Ctx) (dto.TransactionListQuery, error) {
	materialID, err := queryInt64(c, "material_id")
	if err != nil {
		return dto.TransactionListQuery{}, err
	}
	return dto.TransactionListQuery{
		PageRequest:     pageRequest(c),
		MaterialID:      materialID,
		TransactionType: c.Query("transaction_type"),
		StartDate:       c.Query("start_date"),
		EndDate:         c.Query("end_date"),
	}, nil
}
