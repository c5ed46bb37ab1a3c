package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// ProductFilter filtros de listado. Campos nil no filtran.
type ProductFilter struct {
	Search  string // subcadena del nombre, sin distinguir mayúsculas
	BrandID *int64
	Active  *bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create inserta el producto con el Quantity indicado (normalmente 0) y asigna ID.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDs devuelve los productos encontrados indexados por ID, sin bloquear.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Update persiste los campos de catálogo. Nunca toca Quantity.
	Update(ctx context.Context, product *entity.Product) error
	// Delete devuelve domain.ErrConflict si hay ítems de lote o venta que lo referencian.
	Delete(ctx context.Context, id int64) error

	// LockByIDs bloquea (FOR UPDATE) las filas en orden ascendente de ID dentro de la tx actual.
	LockByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Product, error)
	// AdjustQuantity suma delta al stock. Un resultado negativo es domain.ErrInsufficientStock.
	AdjustQuantity(ctx context.Context, id int64, delta int64) error
	UpdatePurchasePrice(ctx context.Context, id int64, price decimal.Decimal) error
}
