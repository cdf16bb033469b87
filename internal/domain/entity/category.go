package entity

import "time"

// Category representa una categoría del catálogo. Se crea desde herramientas de administración
// y los productos solo la referencian (sin cascada).
type Category struct {
	ID          int64
	Code        string // único
	Name        string
	Description string
	SortOrder   int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
