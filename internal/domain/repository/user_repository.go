package repository

import "context"

// UserRepository solo se usa para verificar la existencia de usuarios al atribuir cambios.
type UserRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
