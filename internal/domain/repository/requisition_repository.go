package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

// RequisitionFilter filtros del listado de solicitudes.
type RequisitionFilter struct {
	Status string
	UserID *int64
	Limit  int
	Offset int
}

// RequisitionRepository define el puerto de persistencia para solicitudes de materiales.
// GetBy* devuelven (nil, nil) si no existe.
type RequisitionRepository interface {
	// Create inserta la solicitud; un request_number repetido devuelve domain.ErrConflict.
	Create(ctx context.Context, req *entity.Requisition) error
	GetByID(ctx context.Context, id int64) (*entity.Requisition, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Requisition, error)
	// UpdateApproval persiste status, approved_materials, approver_id, approved_at y approval_comment.
	UpdateApproval(ctx context.Context, req *entity.Requisition) error
	List(ctx context.Context, filter RequisitionFilter) ([]*entity.Requisition, int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
}
