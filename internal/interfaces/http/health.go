package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck dependencia que /health verifica.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health responde 200 si todas las dependencias contestan y 503 si alguna falla.
// No expone el detalle del error.
func Health(service string, checks ...HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		body := fiber.Map{"status": "ok", "service": service}
		status := fiber.StatusOK
		for _, check := range checks {
			state := "connected"
			if err := check.Ping(ctx); err != nil {
				state = "error"
				status = fiber.StatusServiceUnavailable
				body["status"] = "degraded"
			}
			body[check.Name] = state
		}
		return c.Status(status).JSON(body)
	}
}
