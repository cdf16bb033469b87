package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los errores tipados de abajo envuelven estos sentinels para poder usar errors.Is.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicateSKU           = errors.New("SKU duplicado")
	ErrOwnership              = errors.New("la variante no pertenece al producto")
	ErrNoWarehouse            = errors.New("no existe una bodega activa")
	ErrInvalidTransition      = errors.New("transición de estado no permitida")
	ErrConcurrentModification = errors.New("el recurso fue modificado concurrentemente")
	ErrUnauthorized           = errors.New("no autorizado")
)

// ValidationError entrada mal formada o incompleta (culpa del cliente).
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError la entidad referenciada no existe.
type NotFoundError struct {
	Entity string
	ID     any
}

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(entity string, id any) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DuplicateSKUError el SKU ya está en uso por otra variante (o repetido en la misma petición).
type DuplicateSKUError struct {
	SKU string
}

func (e *DuplicateSKUError) Error() string {
	return fmt.Sprintf("el SKU %q ya está en uso", e.SKU)
}

func (e *DuplicateSKUError) Unwrap() error { return ErrDuplicateSKU }

// OwnershipError la variante indicada no pertenece al producto que se actualiza.
type OwnershipError struct {
	VariantID int64
	ProductID int64
}

func (e *OwnershipError) Error() string {
	return fmt.Sprintf("la variante %d no pertenece al producto %d", e.VariantID, e.ProductID)
}

func (e *OwnershipError) Unwrap() error { return ErrOwnership }

// InvalidTransitionError el par (estado actual, estado solicitado) no está en la tabla de transiciones.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("no se puede cambiar el estado de %s a %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// ConcurrentModificationError otra transacción cambió la fila entre la lectura y la escritura.
// Es transitorio: el llamador puede reintentar.
type ConcurrentModificationError struct {
	Entity string
	ID     int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("%s %d fue modificado por otra operación", e.Entity, e.ID)
}

func (e *ConcurrentModificationError) Unwrap() error { return ErrConcurrentModification }

// IsBusinessError indica si err es una violación de regla de negocio (error del cliente)
// y no una falla de infraestructura.
func IsBusinessError(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrNotFound,
		ErrDuplicateSKU,
		ErrOwnership,
		ErrNoWarehouse,
		ErrInvalidTransition,
		ErrConcurrentModification,
		ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
