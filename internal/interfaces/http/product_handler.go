package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/usecase"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP de productos (protegido).
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Crear producto con su stock inicial
// @Description  El stock inicial se registra como ítem del lote lot_id.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "name, brand_id, purchase_price, sale_price, quantity, active, lot_id"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
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
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search    query  string  false  "Subcadena del nombre"
// @Param        brand_id  query  int     false  "Marca"
// @Param        active    query  bool    false  "Estado (alias: only_active)"
// @Success      200  {array}  dto.ProductResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	brandID, err := queryInt64(c, "brand_id")
	if err != nil {
		return respondError(c, err)
	}
	active, err := queryBool(c, "active")
	if err != nil {
		return respondError(c, err)
	}
	if active == nil {
		if active, err = queryBool(c, "only_active"); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.List(c.Context(), dto.ProductListQuery{
		Search:  strings.TrimSpace(c.Query("search")),
		BrandID: brandID,
		Active:  active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Actualizar producto (parcial)
// @Description  quantity no se acepta: el stock solo cambia con lotes y ventas.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.UpdateProductRequest
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
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id  path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage godoc
// @Summary      Subir imagen de producto
// @Tags         products
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "ID del producto"
// @Param        file  formData  file  true  "jpeg, png, webp o gif; máximo 5 MB"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, domain.Invalid("file", "se espera un archivo en el campo file"))
	}
	if fh.Size > usecase.MaxImageSize {
		return respondError(c, domain.Invalid("file", "la imagen supera %d MB", usecase.MaxImageSize>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	out, err := h.uc.UploadImage(c.Context(), id, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
