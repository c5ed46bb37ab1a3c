package repository

import (
	"context"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// BrandRepository define el puerto de persistencia para Brand (DIP).
// GetBy* devuelven (nil, nil) si no existe.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id int64) (*entity.Brand, error)
	GetByName(ctx context.Context, name string) (*entity.Brand, error)
	List(ctx context.Context) ([]*entity.Brand, error)
	Update(ctx context.Context, brand *entity.Brand) error
	// Delete deja en NULL el brand_id de los productos que la referencian.
	Delete(ctx context.Context, id int64) error
}
