package entity

import "time"

// Estados de una solicitud de materiales.
// issued/returned/overdue existen en el esquema pero ningún caso de uso los asigna todavía.
const (
	RequisitionStatusPending  = "pending"
	RequisitionStatusApproved = "approved"
	RequisitionStatusRejected = "rejected"
	RequisitionStatusIssued   = "issued"
	RequisitionStatusReturned = "returned"
	RequisitionStatusOverdue  = "overdue"
)

// Acciones de aprobación.
const (
	ApprovalActionApprove = "approve"
	ApprovalActionReject  = "reject"
)

// RequisitionItem línea solicitada/aprobada. Se persiste como JSONB.
type RequisitionItem struct {
	MaterialID int64 `json:"material_id"`
	Quantity   int64 `json:"quantity"`
}

// Requisition solicitud de retiro de materiales sujeta a aprobación.
type Requisition struct {
	ID                 int64
	RequestNumber      string // REQ<YYYYMMDD><secuencia diaria>
	UserID             int64
	ProjectName        string
	Status             string
	Materials          []RequisitionItem
	ApprovedMaterials  []RequisitionItem
	ExpectedReturnDate *time.Time
	Notes              string
	ApproverID         *int64
	ApprovedAt         *time.Time
	ApprovalComment    string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsValidRequisitionStatus indica si s es un estado conocido.
func IsValidRequisitionStatus(s string) bool {
	switch s {
	case RequisitionStatusPending, RequisitionStatusApproved, RequisitionStatusRejected,
		RequisitionStatusIssued, RequisitionStatusReturned, RequisitionStatusOverdue:
		return true
	}
	return false
}
