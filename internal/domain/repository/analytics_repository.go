package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// SalesMetrics agregado de ventas en un rango de fechas.
// Cost usa el precio de compra actual de cada producto.
type SalesMetrics struct {
	SalesCount int64
	UnitsSold  int64
	Revenue    decimal.Decimal
	Cost       decimal.Decimal
}

// ProductSales ventas de un producto en el período.
type ProductSales struct {
	ProductID int64
	Name      string
	UnitsSold int64
	Revenue   decimal.Decimal
	Cost      decimal.Decimal
}

// AnalyticsRepository consultas de solo lectura para el dashboard.
// Los rangos son por sale_date e inclusivos en ambos extremos.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	// GetTopProducts ordena por ingreso desc y luego por ID.
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductSales, error)
	// GetLowStock devuelve productos activos con quantity <= threshold, de menor a mayor stock.
	GetLowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error)
}
