// Package requisition implementa el flujo de solicitudes de materiales: creación con número
// diario secuencial y resolución (aprobación o rechazo) por un aprobador.
package requisition

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/application/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/application/ports"
	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	domaininv "github.com/jhoicas/Laboratorio-api/internal/domain/inventory"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

const (
	maxNumberAttempts = 5
	dateLayout        = "2006-01-02"
)

// UseCase casos de uso de solicitudes de materiales.
type UseCase struct {
	txRunner     inventory.TxRunner
	requisitions repository.RequisitionRepository
	materials    repository.MaterialRepository
	users        repository.UserRepository
	metrics      ports.MetricsRecorder
	clock        ports.Clock
	log          zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	requisitions repository.RequisitionRepository,
	materials repository.MaterialRepository,
	users repository.UserRepository,
	metrics ports.MetricsRecorder,
	clock ports.Clock,
	log zerolog.Logger,
) *UseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &UseCase{
		txRunner:     txRunner,
		requisitions: requisitions,
		materials:    materials,
		users:        users,
		metrics:      metrics,
		clock:        clock,
		log:          log,
	}
}

// Create registra una solicitud pendiente para userID.
// El número REQ<fecha><secuencia> lo protege una restricción UNIQUE; ante colisión se reintenta.
func (uc *UseCase) Create(ctx context.Context, userID int64, in dto.CreateRequisitionRequest) (*dto.RequisitionResponse, error) {
	items, err := uc.validateItems(ctx, uc.materials, in.Materials)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	var returnDate *time.Time
	if s := strings.TrimSpace(in.ExpectedReturnDate); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, uc.clock().Location())
		if err != nil {
			return nil, domain.Validation("expected_return_date inválida, formato esperado YYYY-MM-DD")
		}
		returnDate = &d
	}

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		now := uc.clock()
		count, err := uc.requisitions.CountCreatedSince(ctx, domaininv.StartOfDay(now))
		if err != nil {
			return nil, err
		}
		req := &entity.Requisition{
			RequestNumber:      domaininv.RequestNumber(now, count+attempt),
			UserID:             userID,
			ProjectName:        strings.TrimSpace(in.ProjectName),
			Status:             entity.RequisitionStatusPending,
			Materials:          items,
			ExpectedReturnDate: returnDate,
			Notes:              in.Notes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		err = uc.requisitions.Create(ctx, req)
		if errors.Is(err, domain.ErrConflict) {
			uc.log.Debug().Str("request_number", req.RequestNumber).Int("attempt", attempt).Msg("número de solicitud en uso, reintentando")
			continue
		}
		if err != nil {
			return nil, err
		}
		uc.metrics.Requisition(req.Status)
		uc.log.Info().Int64("request_id", req.ID).Str("request_number", req.RequestNumber).Int64("user_id", userID).Msg("solicitud creada")
		out := toResponse(req)
		return &out, nil
	}
	return nil, domain.Conflict("no se pudo asignar un número de solicitud único")
}

// Approve resuelve una solicitud pendiente con la fila bloqueada. Una solicitud ya resuelta
// devuelve InvalidState sin modificarse. La aprobación no mueve stock.
func (uc *UseCase) Approve(ctx context.Context, id, approverID int64, in dto.ApproveRequisitionRequest) (*dto.RequisitionResponse, error) {
	var status string
	switch in.Action {
	case entity.ApprovalActionApprove:
		status = entity.RequisitionStatusApproved
	case entity.ApprovalActionReject:
		status = entity.RequisitionStatusRejected
	default:
		return nil, domain.Validation("acción inválida: %q (approve | reject)", in.Action)
	}
	if err := uc.ensureUser(ctx, approverID); err != nil {
		return nil, err
	}

	var req *entity.Requisition
	err := uc.txRunner.Run(ctx, func(r inventory.Repos) error {
		var approved []entity.RequisitionItem
		if status == entity.RequisitionStatusApproved && len(in.ApprovedMaterials) > 0 {
			var err error
			if approved, err = uc.validateItems(ctx, r.Materials, in.ApprovedMaterials); err != nil {
				return err
			}
		}

		var err error
		req, err = r.Requisitions.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.NotFound("solicitud %d no encontrada", id)
		}
		if req.Status != entity.RequisitionStatusPending {
			return domain.InvalidState("la solicitud %s ya fue procesada (%s)", req.RequestNumber, req.Status)
		}

		now := uc.clock()
		req.Status = status
		if status == entity.RequisitionStatusApproved {
			if approved == nil {
				approved = req.Materials
			}
			req.ApprovedMaterials = approved
		}
		req.ApproverID = &approverID
		req.ApprovedAt = &now
		req.ApprovalComment = in.Comment
		req.UpdatedAt = now
		return r.Requisitions.UpdateApproval(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.Requisition(req.Status)
	uc.log.Info().Int64("request_id", req.ID).Str("status", req.Status).Int64("approver_id", approverID).Msg("solicitud procesada")
	out := toResponse(req)
	return &out, nil
}

// GetByID devuelve una solicitud.
func (uc *UseCase) GetByID(ctx context.Context, id int64) (*dto.RequisitionResponse, error) {
	req, err := uc.requisitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.NotFound("solicitud %d no encontrada", id)
	}
	out := toResponse(req)
	return &out, nil
}

// List devuelve una página de solicitudes, más reciente primero.
func (uc *UseCase) List(ctx context.Context, q dto.RequisitionListQuery) (*dto.PageResult[dto.RequisitionResponse], error) {
	q.Normalize()
	if q.Status != "" && !entity.IsValidRequisitionStatus(q.Status) {
		return nil, domain.Validation("estado de solicitud inválido: %q", q.Status)
	}
	list, total, err := uc.requisitions.List(ctx, repository.RequisitionFilter{
		Status: q.Status,
		UserID: q.UserID,
		Limit:  q.Limit,
		Offset: q.Offset(),
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.RequisitionResponse, 0, len(list))
	for _, r := range list {
		items = append(items, toResponse(r))
	}
	return &dto.PageResult[dto.RequisitionResponse]{Items: items, Pagination: dto.NewPagination(q.PageRequest, total)}, nil
}

func (uc *UseCase) validateItems(ctx context.Context, materials repository.MaterialRepository, in []dto.RequisitionItemDTO) ([]entity.RequisitionItem, error) {
	if len(in) == 0 {
		return nil, domain.Validation("la lista de materiales es obligatoria")
	}
	out := make([]entity.RequisitionItem, 0, len(in))
	for i, it := range in {
		if it.MaterialID <= 0 || it.Quantity <= 0 {
			return nil, domain.Validation("línea %d: material_id y quantity (> 0) son obligatorios", i+1)
		}
		m, err := materials.GetByID(ctx, it.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, domain.NotFound("material %d no encontrado", it.MaterialID)
		}
		out = append(out, entity.RequisitionItem{MaterialID: it.MaterialID, Quantity: it.Quantity})
	}
	return out, nil
}

func (uc *UseCase) ensureUser(ctx context.Context, id int64) error {
	u, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.NotFound("usuario %d no encontrado", id)
	}
	return nil
}

func toItems(in []entity.RequisitionItem) []dto.RequisitionItemDTO {
	out := make([]dto.RequisitionItemDTO, 0, len(in))
	for _, it := range in {
		out = append(out, dto.RequisitionItemDTO{MaterialID: it.MaterialID, Quantity: it.Quantity})
	}
	return out
}

func toResponse(r *entity.Requisition) dto.RequisitionResponse {
	out := dto.RequisitionResponse{
		ID:                r.ID,
		RequestNumber:     r.RequestNumber,
		UserID:            r.UserID,
		ProjectName:       r.ProjectName,
		Status:            r.Status,
		Materials:         toItems(r.Materials),
		ApprovedMaterials: toItems(r.ApprovedMaterials),
		Notes:             r.Notes,
		ApproverID:        r.ApproverID,
		ApprovedAt:        r.ApprovedAt,
		ApprovalComment:   r.ApprovalComment,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.ExpectedReturnDate != nil {
		s := r.ExpectedReturnDate.Format(dateLayout)
		out.ExpectedReturnDate = &s
	}
	return out
}
