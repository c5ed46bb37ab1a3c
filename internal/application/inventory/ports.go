package inventory

import (
	"context"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		lots repository.LotRepository,
		sales repository.SaleRepository,
	) error) error
}

// ReceiptRenderer genera el comprobante PDF de una venta.
type ReceiptRenderer interface {
	RenderSaleReceipt(sale *entity.Sale, products map[int64]*entity.Product) ([]byte, error)
}
