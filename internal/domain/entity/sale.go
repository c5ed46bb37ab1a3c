package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta. Total se fija una sola vez al crearla.
type Sale struct {
	ID        int64
	SaleDate  time.Time
	Note      *string
	Total     decimal.Decimal
	CreatedAt time.Time
	Items     []SaleItem
}

// SaleItem renglón inmutable de una venta.
type SaleItem struct {
	ID        int64
	SaleID    int64
	ProductID int64
	Quantity  int64
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
