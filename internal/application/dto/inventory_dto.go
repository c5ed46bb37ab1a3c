package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LotItemRequest renglón de ingreso de lote.
type LotItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreateLotRequest body de POST /lots.
type CreateLotRequest struct {
	Name        string           `json:"name"`
	Date        string           `json:"date"` // YYYY-MM-DD
	Description *string          `json:"description"`
	Items       []LotItemRequest `json:"items"`
}

// LotListQuery filtros de GET /lots (YYYY-MM-DD, vacío = sin límite).
type LotListQuery struct {
	FromDate string
	ToDate   string
}

// LotItemResponse renglón de lote.
type LotItemResponse struct {
	ID        int64 `json:"id"`
	LotID     int64 `json:"lot_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitCost  Money `json:"unit_cost"`
	Subtotal  Money `json:"subtotal"`
}

// LotResponse lote con ítems y totales derivados.
type LotResponse struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   *string           `json:"description"`
	Date          string            `json:"date"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []LotItemResponse `json:"items"`
	TotalQuantity int64             `json:"total_quantity"`
	TotalCost     Money             `json:"total_cost"`
}

// SaleItemRequest renglón de venta. Sin unit_price se usa el precio de venta del producto.
type SaleItemRequest struct {
	ProductID int64            `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body de POST /sales.
type CreateSaleRequest struct {
	SaleDate string            `json:"sale_date"` // YYYY-MM-DD
	Note     *string           `json:"note"`
	Items    []SaleItemRequest `json:"items"`
}

// SaleListQuery filtros y paginación de GET /sales.
type SaleListQuery struct {
	FromDate string
	ToDate   string
	Limit    *int // nil = DefaultSalesLimit
	Offset   int
}

// SaleItemResponse renglón de venta.
type SaleItemResponse struct {
	ID        int64 `json:"id"`
	SaleID    int64 `json:"sale_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice Money `json:"unit_price"`
	Subtotal  Money `json:"subtotal"`
}

// SaleResponse venta con ítems.
type SaleResponse struct {
	ID        int64              `json:"id"`
	SaleDate  string             `json:"sale_date"`
	Note      *string            `json:"note"`
	Total     Money              `json:"total"`
	CreatedAt time.Time          `json:"created_at"`
	Items     []SaleItemResponse `json:"items"`
}
