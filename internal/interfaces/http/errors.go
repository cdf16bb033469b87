package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/domain"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// errorStatus traduce un error de dominio a (status HTTP, código).
// Las fallas de infraestructura quedan en 500.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConcurrentModification):
		return fiber.StatusConflict, "CONCURRENT_MODIFICATION"
	case errors.Is(err, domain.ErrDuplicateSKU):
		return fiber.StatusBadRequest, "DUPLICATE_SKU"
	case errors.Is(err, domain.ErrOwnership):
		return fiber.StatusBadRequest, "OWNERSHIP"
	case errors.Is(err, domain.ErrNoWarehouse):
		return fiber.StatusBadRequest, "NO_WAREHOUSE"
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusBadRequest, "INVALID_TRANSITION"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe la respuesta de error. El detalle de los 500 solo va al log.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno del servidor"})
	}
	res := dto.ErrorResponse{Code: code, Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.Field != "" {
		res.Fields = map[string]string{verr.Field: verr.Message}
	}
	var ferr *fieldsError
	if errors.As(err, &ferr) {
		res.Fields = ferr.fields
	}
	return c.Status(status).JSON(res)
}
