package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría de materiales.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int64 `json:"parent_id"`
	SortOrder   int    `json:"sort_order"`
}

// UpdateCategoryRequest actualización parcial; parent_id null mueve la categoría a la raíz.
type UpdateCategoryRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	ParentID    OptionalInt64 `json:"parent_id"`
	SortOrder   *int          `json:"sort_order"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ParentID    *int64    `json:"parent_id"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
