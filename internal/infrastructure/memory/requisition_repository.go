package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepository)(nil)

// RequisitionRepository implementación en memoria.
type RequisitionRepository struct {
	b backend
}

func copyRequisition(r entity.Requisition) entity.Requisition {
	r.Materials = append([]entity.RequisitionItem(nil), r.Materials...)
	if r.ApprovedMaterials != nil {
		r.ApprovedMaterials = append([]entity.RequisitionItem(nil), r.ApprovedMaterials...)
	}
	return r
}

func (r *RequisitionRepository) Create(_ context.Context, req *entity.Requisition) error {
	return r.b.write(func(d *data) error {
		for _, existing := range d.requisitions {
			if existing.RequestNumber == req.RequestNumber {
				return domain.Conflict("número de solicitud %s en uso", req.RequestNumber)
			}
		}
		d.nextRequisition++
		req.ID = d.nextRequisition
		d.requisitions[req.ID] = copyRequisition(*req)
		return nil
	})
}

func (r *RequisitionRepository) GetByID(_ context.Context, id int64) (*entity.Requisition, error) {
	var out *entity.Requisition
	err := r.b.read(func(d *data) error {
		if req, ok := d.requisitions[id]; ok {
			c := copyRequisition(req)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *RequisitionRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Requisition, error) {
	return r.GetByID(ctx, id)
}

func (r *RequisitionRepository) UpdateApproval(_ context.Context, req *entity.Requisition) error {
	return r.b.write(func(d *data) error {
		current, ok := d.requisitions[req.ID]
		if !ok {
			return domain.NotFound("solicitud %d no encontrada", req.ID)
		}
		current.Status = req.Status
		current.ApprovedMaterials = req.ApprovedMaterials
		current.ApproverID = req.ApproverID
		current.ApprovedAt = req.ApprovedAt
		current.ApprovalComment = req.ApprovalComment
		current.UpdatedAt = req.UpdatedAt
		d.requisitions[req.ID] = copyRequisition(current)
		return nil
	})
}

func (r *RequisitionRepository) List(_ context.Context, f repository.RequisitionFilter) ([]*entity.Requisition, int, error) {
	var matched []*entity.Requisition
	err := r.b.read(func(d *data) error {
		for _, req := range d.requisitions {
			if f.Status != "" && req.Status != f.Status {
				continue
			}
			if f.UserID != nil && req.UserID != *f.UserID {
				continue
			}
			c := copyRequisition(req)
			matched = append(matched, &c)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return page(matched, f.Limit, f.Offset), len(matched), nil
}

func (r *RequisitionRepository) CountCreatedSince(_ context.Context, since time.Time) (int, error) {
	n := 0
	err := r.b.read(func(d *data) error {
		for _, req := range d.requisitions {
			if !req.CreatedAt.Before(since) {
				n++
			}
		}
		return nil
	})
	return n, err
}
