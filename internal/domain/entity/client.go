package entity

import "time"

// Client cliente B2B. Es dueño de sus pedidos.
type Client struct {
	ID        int64
	Name      string
	Document  *string // NIT o cédula
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
