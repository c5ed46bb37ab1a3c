package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot ingreso de mercadería (lote de compra).
type Lot struct {
	ID          int64
	Name        string
	Description *string
	Date        time.Time // solo fecha, sin hora
	CreatedAt   time.Time
	Items       []LotItem
}

// LotItem renglón inmutable de un lote.
type LotItem struct {
	ID        int64
	LotID     int64
	ProductID int64
	Quantity  int64
	UnitCost  decimal.Decimal
	Subtotal  decimal.Decimal
}

// TotalQuantity suma de cantidades de los ítems.
func (l *Lot) TotalQuantity() int64 {
	var total int64
	for _, it := range l.Items {
		total += it.Quantity
	}
	return total
}

// TotalCost suma de subtotales de los ítems.
func (l *Lot) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.Items {
		total = total.Add(it.Subtotal)
	}
	return total
}
