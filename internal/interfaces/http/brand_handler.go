package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/usecase"
)

// BrandHandler CRUD de marcas (protegido).
type BrandHandler struct {
	uc *usecase.BrandUseCase
}

// NewBrandHandler construye el handler.
func NewBrandHandler(uc *usecase.BrandUseCase) *BrandHandler {
	return &BrandHandler{uc: uc}
}

// Create godoc
// @Summary      Crear marca
// @Tags         brands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BrandRequest  true  "name"
// @Success      200   {object}  dto.BrandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /brands [post]
func (h *BrandHandler) Create(c *fiber.Ctx) error {
	var in dto.BrandRequest
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
// @Summary      Listar marcas por nombre
// @Tags         brands
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BrandResponse
// @Router       /brands [get]
func (h *BrandHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *BrandHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Renombrar marca
// @Tags         brands
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int               true  "ID de la marca"
// @Param        body  body  dto.BrandRequest  true  "name"
// @Success      200   {object}  dto.BrandResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /brands/{id} [patch]
func (h *BrandHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.BrandRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar marca (los productos quedan sin marca)
// @Tags         brands
// @Security     Bearer
// @Param        id  path  int  true  "ID de la marca"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /brands/{id} [delete]
func (h *BrandHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
