package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribuidora-api/internal/application/client"
	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// ClientHandler listados y estadísticas de clientes (protegido).
type ClientHandler struct {
	uc  *client.UseCase
	log *logger.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *client.UseCase, log *logger.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar clientes con sus totales de compra
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        search     query  string  false  "Nombre"
// @Param        is_active  query  bool    false  "Estado"
// @Param        page       query  int     false  "Página"
// @Param        limit      query  int     false  "Límite"
// @Success      200  {object}  dto.ClientListResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var in dto.ClientListRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Statistics godoc
// @Summary      Estadísticas de clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClientStatisticsResponse
// @Router       /api/clients/stats [get]
func (h *ClientHandler) Statistics(c *fiber.Ctx) error {
	out, err := h.uc.Statistics(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PriceHistory godoc
// @Summary      Historial de precios de un producto para un cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id          path   int  true  "ID del cliente"
// @Param        product_id  query  int  true  "ID del producto"
// @Success      200  {object}  dto.PriceHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id}/price-history [get]
func (h *ClientHandler) PriceHistory(c *fiber.Ctx) error {
	clientID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	productID, err := queryID(c, "product_id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.PriceHistory(c.UserContext(), clientID, productID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
