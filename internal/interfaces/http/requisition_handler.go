package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/requisition"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// RequisitionHandler maneja el flujo de solicitudes de materiales.
type RequisitionHandler struct {
	uc *requisition.UseCase
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(uc *requisition.UseCase) *RequisitionHandler {
	return &RequisitionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de materiales (queda pendiente)
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "Materiales solicitados"
// @Success      201   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/material-requests [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return created(c, "solicitud creada", out)
}

// List godoc
// @Summary      Listar solicitudes (más recientes primero)
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        page     query  int     false  "Página"
// @Param        limit    query  int     false  "Tamaño de página"
// @Param        status   query  string  false  "pending | approved | rejected | issued | returned | overdue"
// @Param        user_id  query  int     false  "Solicitante"
// @Success      200  {object}  dto.Envelope
// @Router       /api/v1/material-requests [get]
func (h *RequisitionHandler) List(c *fiber.Ctx) error {
	userID, err := queryInt64(c, "user_id")
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), dto.RequisitionListQuery{
		PageRequest: pageRequest(c),
		Status:      c.Query("status"),
		UserID:      userID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "solicitudes obtenidas", out)
}

// GetByID godoc
// @Summary      Obtener solicitud por ID
// @Tags         material-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la solicitud"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/v1/material-requests/{id} [get]
func (h *RequisitionHandler) GetByID(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return ok(c, "solicitud obtenida", out)
}

// Approve godoc
// @Summary      Aprobar o rechazar una solicitud pendiente
// @Tags         material-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                            true  "ID de la solicitud"
// @Param        body  body  dto.ApproveRequisitionRequest  true  "action: approve | reject"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Router       /api/v1/material-requests/{id}/approve [put]
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	id, valid := paramID(c)
	if !valid {
		return badRequest(c, "id inválido")
	}
	var in dto.ApproveRequisitionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	out, err := h.uc.Approve(c.UserContext(), id, GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	msg := "solicitud aprobada"
	if out.Status == entity.RequisitionStatusRejected {
		msg = "solicitud rechazada"
	}
	return ok(c, msg, out)
}
