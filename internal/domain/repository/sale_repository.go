package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// SaleFilter rango de fechas de venta y paginación.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para Sale y sus ítems.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	AddItem(ctx context.Context, item *entity.SaleItem) error
	UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error
	GetByID(ctx context.Context, id int64) (*entity.Sale, error)
	// List ordena por created_at desc; los ítems se cargan en una sola consulta.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
}
