package entity

import "time"

// Category representa una categoría de materiales (jerárquica opcional).
type Category struct {
	ID          int64
	Name        string // único
	Description string
	ParentID    *int64 // nil si es raíz
	SortOrder   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
