package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto con su stock inicial.
// El stock inicial se registra como ítem del lote LotID.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	BrandID       *int64          `json:"brand_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Quantity      int64           `json:"quantity"`
	Active        *bool           `json:"active"`
	LotID         *int64          `json:"lot_id"`
}

// UpdateProductRequest PATCH de producto. Solo cambian los campos presentes.
// quantity se acepta en el cuerpo únicamente para rechazarlo con un error claro.
type UpdateProductRequest struct {
	Name          Optional[string]          `json:"name"`
	BrandID       Optional[int64]           `json:"brand_id"`
	PurchasePrice Optional[decimal.Decimal] `json:"purchase_price"`
	SalePrice     Optional[decimal.Decimal] `json:"sale_price"`
	Active        Optional[bool]            `json:"active"`
	ImageURL      Optional[string]          `json:"image_url"`
	Quantity      Optional[int64]           `json:"quantity"`
}

// ProductListQuery filtros de GET /products.
type ProductListQuery struct {
	Search  string
	BrandID *int64
	Active  *bool
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	BrandID       *int64    `json:"brand_id"`
	PurchasePrice Money     `json:"purchase_price"`
	SalePrice     Money     `json:"sale_price"`
	Quantity      int64     `json:"quantity"`
	Active        bool      `json:"active"`
	ImageURL      *string   `json:"image_url"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
