package repository

import (
	"context"
	"time"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// LotFilter rango de fechas inclusivo.
type LotFilter struct {
	From *time.Time
	To   *time.Time
}

// LotRepository define el puerto de persistencia para Lot y sus ítems.
type LotRepository interface {
	Create(ctx context.Context, lot *entity.Lot) error
	// GetByID carga el lote con sus ítems; (nil, nil) si no existe.
	GetByID(ctx context.Context, id int64) (*entity.Lot, error)
	// List ordena por fecha desc y created_at desc, con ítems cargados.
	List(ctx context.Context, filter LotFilter) ([]*entity.Lot, error)
	AddItem(ctx context.Context, item *entity.LotItem) error
}
