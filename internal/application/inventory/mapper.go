package inventory

import (
	"github.com/jhoicas/Laboratorio-api/internal/application/dto"
	"github.com/jhoicas/Laboratorio-api/internal/domain/entity"
)

func toCategoryResponse(c *entity.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toMaterialResponse(m *entity.Material) dto.MaterialResponse {
	return dto.MaterialResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		CategoryID:    m.CategoryID,
		Description:   m.Description,
		Unit:          m.Unit,
		StockQuantity: m.StockQuantity,
		MinStock:      m.MinStock,
		MaxStock:      m.MaxStock,
		UnitPrice:     m.UnitPrice,
		Location:      m.Location,
		Supplier:      m.Supplier,
		Status:        m.Status(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ToTransactionResponse convierte una entrada del libro a su DTO de salida.
func ToTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		MaterialID:      t.MaterialID,
		TransactionType: t.Type,
		Quantity:        t.Quantity,
		BeforeQuantity:  t.BeforeQuantity,
		AfterQuantity:   t.AfterQuantity,
		UserID:          t.UserID,
		RequestID:       t.RequestID,
		Notes:           t.Notes,
		CreatedAt:       t.CreatedAt,
	}
}
