package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
type Warehouse struct {
	ID        int64
	Name      string // único
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
