package entity

import "time"

// User usuario interno. Solo se referencia para atribuir quién creó o actualizó un pedido.
type User struct {
	ID        int64
	Email     string
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
