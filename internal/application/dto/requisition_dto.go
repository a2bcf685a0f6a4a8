package dto

import "time"

// RequisitionItemDTO línea {material_id, quantity}.
type RequisitionItemDTO struct {
	MaterialID int64 `json:"material_id"`
	Quantity   int64 `json:"quantity"`
}

// CreateRequisitionRequest entrada para crear una solicitud. expected_return_date en YYYY-MM-DD.
type CreateRequisitionRequest struct {
	Materials          []RequisitionItemDTO `json:"materials"`
	ProjectName        string               `json:"project_name"`
	ExpectedReturnDate string               `json:"expected_return_date"`
	Notes              string               `json:"notes"`
}

// ApproveRequisitionRequest entrada de PUT /material-requests/:id/approve.
type ApproveRequisitionRequest struct {
	Action            string               `json:"action"` // approve | reject
	ApprovedMaterials []RequisitionItemDTO `json:"approved_materials"`
	Comment           string               `json:"comment"`
}

// RequisitionListQuery filtros de GET /material-requests.
type RequisitionListQuery struct {
	PageRequest
	Status string
	UserID *int64
}

// RequisitionResponse salida de una solicitud.
type RequisitionResponse struct {
	ID                 int64                `json:"id"`
	RequestNumber      string               `json:"request_number"`
	UserID             int64                `json:"user_id"`
	ProjectName        string               `json:"project_name"`
	Status             string               `json:"status"`
	Materials          []RequisitionItemDTO `json:"materials"`
	ApprovedMaterials  []RequisitionItemDTO `json:"approved_materials"`
	ExpectedReturnDate *string              `json:"expected_return_date"`
	Notes              string               `json:"notes"`
	ApproverID         *int64               `json:"approver_id"`
	ApprovedAt         *time.Time           `json:"approved_at"`
	ApprovalComment    string               `json:"approval_comment"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}
