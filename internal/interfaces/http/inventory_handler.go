package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// InventoryHandler maneja ajustes manuales, el kardex por producto y la reconciliación.
type InventoryHandler struct {
	adjust  *orders.AdjustmentUseCase
	applier *inventory.Applier
	ledger  repository.LedgerRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjust *orders.AdjustmentUseCase, applier *inventory.Applier, ledger repository.LedgerRepository) *InventoryHandler {
	return &InventoryHandler{adjust: adjust, applier: applier, ledger: ledger}
}

// AdjustStock godoc
// @Summary      Ajuste manual de stock
// @Description  Delta firmado: positivo registra MANUAL_ADD, negativo MANUAL_REMOVE.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, delta, note"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.Delta == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y delta distinto de cero son requeridos"})
	}
	movementID, err := h.adjust.AdjustStock(c.Context(), actorID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": movementID})
}

// ListMovements godoc
// @Summary      Kardex de un producto
// @Description  Movimientos del producto en orden de aplicación inversa (Seq descendente).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "máximo de filas (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	movements, err := h.ledger.ListByProduct(c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, toMovementResponse(m))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// Reconcile godoc
// @Summary      Reconciliación de un producto
// @Description  Compara la suma firmada del kardex contra la cantidad cacheada.
//
//	Solo lectura: nunca corrige, solo reporta.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  inventory.Reconciliation
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/reconciliation [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	rec, err := h.applier.Reconcile(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

// ReverseMovement godoc
// @Summary      Reversar un movimiento del kardex
// @Description  Registra un movimiento REVERSAL compensatorio. El historial nunca se borra.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      201  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/reverse [post]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	reversalID, err := h.applier.Reverse(c.Context(), c.Params("id"), actorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movement_id": reversalID})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Cause:      m.Cause,
		ReversesID: m.ReversesID,
		ActorID:    m.ActorID,
		Note:       m.Note,
		Seq:        m.Seq,
		CreatedAt:  m.CreatedAt,
	}
	if m.Source != nil {
		resp.DocType = m.Source.Type
		resp.DocID = m.Source.ID
	}
	return resp
}
