package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product perfume del catálogo.
// Quantity es el stock actual; solo lo modifican los ingresos de lote y las ventas.
type Product struct {
	ID            int64
	Name          string
	BrandID       *int64 // nil si no tiene marca (o la marca fue eliminada)
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	Quantity      int64
	Active        bool
	ImageURL      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasSalePrice indica si el producto tiene un precio de venta utilizable por defecto.
func (p *Product) HasSalePrice() bool {
	return p.SalePrice.IsPositive()
}
