package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Laboratorio-api/internal/domain"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
	"github.com/jhoicas/Laboratorio-api/internal/domain/repository"
)

var _ repository.RequisitionRepository = (*RequisitionRepo)(nil)

const requisitionColumns = `id, request_number, user_id, project_name, status, materials, approved_materials,
	expected_return_date, notes, approver_id, approved_at, approval_comment, created_at, updated_at`

// RequisitionRepo solicitudes de materiales sobre PostgreSQL. materials y approved_materials son JSONB.
type RequisitionRepo struct {
	q Querier
}

// NewRequisitionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequisitionRepository(q Querier) *RequisitionRepo {
	return &RequisitionRepo{q: q}
}

func scanRequisition(row pgx.Row) (*entity.Requisition, error) {
	var r entity.Requisition
	err := row.Scan(&r.ID, &r.RequestNumber, &r.UserID, &r.ProjectName, &r.Status, &r.Materials, &r.ApprovedMaterials,
		&r.ExpectedReturnDate, &r.Notes, &r.ApproverID, &r.ApprovedAt, &r.ApprovalComment, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta la solicitud. request_number es UNIQUE: una colisión devuelve ErrConflict.
func (r *RequisitionRepo) Create(ctx context.Context, req *entity.Requisition) error {
	query := `
		INSERT INTO material_requests (request_number, user_id, project_name, status, materials, approved_materials,
			expected_return_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		req.RequestNumber, req.UserID, req.ProjectName, req.Status, req.Materials, req.ApprovedMaterials,
		req.ExpectedReturnDate, req.Notes, req.CreatedAt, req.UpdatedAt,
	).Scan(&req.ID)
	if err != nil {
		return writeError(err, "insert material request", domain.Conflict("número de solicitud %s en uso", req.RequestNumber), nil)
	}
	return nil
}

func (r *RequisitionRepo) getOne(ctx context.Context, query string, id int64) (*entity.Requisition, error) {
	req, err := scanRequisition(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material request: %w", err)
	}
	return req, nil
}

// GetByID obtiene una solicitud por ID.
func (r *RequisitionRepo) GetByID(ctx context.Context, id int64) (*entity.Requisition, error) {
	return r.getOne(ctx, `SELECT `+requisitionColumns+` FROM material_requests WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la solicitud bloqueando la fila hasta el fin de la tx.
func (r *RequisitionRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Requisition, error) {
	return r.getOne(ctx, `SELECT `+requisitionColumns+` FROM material_requests WHERE id = $1 FOR UPDATE`, id)
}

// UpdateApproval persiste el resultado de la aprobación o el rechazo.
func (r *RequisitionRepo) UpdateApproval(ctx context.Context, req *entity.Requisition) error {
	query := `
		UPDATE material_requests
		SET status = $2, approved_materials = $3, approver_id = $4, approved_at = $5, approval_comment = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		req.ID, req.Status, req.ApprovedMaterials, req.ApproverID, req.ApprovedAt, req.ApprovalComment, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update material request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("solicitud %d no encontrada", req.ID)
	}
	return nil
}

// List devuelve la página pedida, más reciente primero, y el total.
func (r *RequisitionRepo) List(ctx context.Context, f repository.RequisitionFilter) ([]*entity.Requisition, int, error) {
	var conds []string
	var args []any
	pos := 1
	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", pos))
		args = append(args, f.Status)
		pos++
	}
	if f.UserID != nil {
		conds = append(conds, fmt.Sprintf("user_id = $%d", pos))
		args = append(args, *f.UserID)
		pos++
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM material_requests`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count material requests: %w", err)
	}

	query := `SELECT ` + requisitionColumns + ` FROM material_requests` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list material requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.Requisition
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan material request: %w", err)
		}
		list = append(list, req)
	}
	return list, total, rows.Err()
}

// CountCreatedSince cuenta las solicitudes creadas desde since (base de la secuencia diaria).
func (r *RequisitionRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM material_requests WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count material requests: %w", err)
	}
	return n, nil
}
