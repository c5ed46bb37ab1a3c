package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
)

// LotHandler ingresos de mercadería (protegido).
type LotHandler struct {
	uc *inventory.LotUseCase
}

// NewLotHandler construye el handler.
func NewLotHandler(uc *inventory.LotUseCase) *LotHandler {
	return &LotHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar lote con sus ítems
// @Description  Suma el stock de cada producto y fija su precio de compra al costo unitario.
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLotRequest  true  "name, date, description, items"
// @Success      200   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /lots [post]
func (h *LotHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddItems godoc
// @Summary      Agregar ítems a un lote existente
// @Tags         lots
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "ID del lote"
// @Param        body  body  []dto.LotItemRequest  true  "items"
// @Success      200   {object}  dto.LotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /lots/{id}/items [post]
func (h *LotHandler) AddItems(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var items []dto.LotItemRequest
	if err := c.BodyParser(&items); err != nil {
		return badRequest(c, "INVALID_BODY", "se espera una lista de ítems")
	}
	out, err := h.uc.AddItems(c.Context(), id, items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar lotes con totales
// @Tags         lots
// @Security     Bearer
// @Produce      json
// @Param        from_date  query  string  false  "YYYY-MM-DD"
// @Param        to_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.LotResponse
// @Router       /lots [get]
func (h *LotHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), dto.LotListQuery{FromDate: c.Query("from_date"), ToDate: c.Query("to_date")})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *LotHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
