package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribuidora-api/internal/application/dto"
	"github.com/jhoicas/distribuidora-api/internal/application/inventory"
	"github.com/jhoicas/distribuidora-api/pkg/logger"
)

// InventoryHandler stock por variante y bodega (protegido).
type InventoryHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// UpsertStock godoc
// @Summary      Fijar cantidades de stock de una variante en una bodega
// @Description  Los campos ausentes no se modifican; si la fila no existe se crea en 0.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertStockRequest  true  "Cambio de stock"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [put]
func (h *InventoryHandler) UpsertStock(c *fiber.Ctx) error {
	var in dto.UpsertStockRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.UpsertStock(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/inventory/summary [get]
func (h *InventoryHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listado de inventario por variante y bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        search        query  string  false  "Producto o SKU"
// @Param        stock_status  query  string  false  "out_of_stock | low_stock | in_stock"
// @Param        warehouse_id  query  int     false  "Bodega"
// @Param        page          query  int     false  "Página"
// @Param        limit         query  int     false  "Límite"
// @Success      200  {object}  dto.InventoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var in dto.InventoryListRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// VariantAvailability godoc
// @Summary      Stock total, reservado y disponible de una variante
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la variante"
// @Success      200  {object}  dto.VariantAvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/variants/{id} [get]
func (h *InventoryHandler) VariantAvailability(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.VariantAvailability(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
