package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
)

// SaleHandler ventas (protegido).
type SaleHandler struct {
	uc *inventory.SaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.SaleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Atómica: descuenta stock de todos los ítems o de ninguno.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "sale_date, note, items"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from_date  query  string  false  "YYYY-MM-DD"
// @Param        to_date    query  string  false  "YYYY-MM-DD"
// @Param        limit      query  int     false  "1..1000, por defecto 100"
// @Param        offset     query  int     false  "≥ 0"
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respondError(c, err)
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return respondError(c, err)
	}
	q := dto.SaleListQuery{FromDate: c.Query("from_date"), ToDate: c.Query("to_date"), Limit: limit}
	if offset != nil {
		q.Offset = *offset
	}
	out, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
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

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID de la venta"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	pdf, err := h.uc.Receipt(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="venta-%d.pdf"`, id))
	return c.Send(pdf)
}
