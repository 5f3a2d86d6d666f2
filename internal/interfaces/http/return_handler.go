package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/orders"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ReturnHandler maneja devoluciones y su flujo de aprobación (protegido).
type ReturnHandler struct {
	uc *orders.ReturnUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *orders.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Crear devolución
// @Description  Referencia exactamente uno: invoice_id (cliente devuelve, el stock subirá)
//
//	o purchase_id (se devuelve al proveedor, el stock bajará). Nace PENDING
//	y no toca stock hasta aprobarse.
//
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "invoice_id o purchase_id, product_id, quantity, reason"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateReturn(c.Context(), actorID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener devolución
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetReturn(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar devoluciones
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDING | APPROVED | REJECTED"
// @Param        limit   query  int     false  "máximo de filas (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListReturns(c.Context(), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "returns": out})
}

// Transition godoc
// @Summary      Aprobar o rechazar una devolución
// @Description  Al aprobar, el stock se mueve según la referencia: entra con
//
//	RETURN_FROM_CUSTOMER (factura) o sale con RETURN_TO_SUPPLIER (compra).
//	El efecto se aplica exactamente una vez.
//
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la devolución"
// @Param        body  body  dto.TransitionRequest  true  "to_state: APPROVED | REJECTED"
// @Success      200   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/status [post]
func (h *ReturnHandler) Transition(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	var in dto.TransitionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ToState != entity.StatusApproved && in.ToState != entity.StatusRejected {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to_state debe ser APPROVED o REJECTED"})
	}
	id := c.Params("id")
	if err := h.uc.Transition(c.Context(), actorID, id, in.ToState); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetReturn(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
