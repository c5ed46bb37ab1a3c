package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes e ítems de lote sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

func (r *LotRepo) Create(ctx context.Context, lot *entity.Lot) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO lots (name, description, date, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		lot.Name, lot.Description, lot.Date, lot.CreatedAt,
	).Scan(&lot.ID)
	if err != nil {
		return fmt.Errorf("insert lot: %w", err)
	}
	return nil
}

func (r *LotRepo) AddItem(ctx context.Context, item *entity.LotItem) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO lot_items (lot_id, product_id, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.LotID, item.ProductID, item.Quantity, item.UnitCost, item.Subtotal,
	).Scan(&item.ID)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert lot item: %w", err)
	}
	return nil
}

func (r *LotRepo) GetByID(ctx context.Context, id int64) (*entity.Lot, error) {
	var l entity.Lot
	err := r.q.QueryRow(ctx,
		`SELECT id, name, description, date, created_at FROM lots WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Description, &l.Date, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Lot{&l}); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotRepo) List(ctx context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description, date, created_at FROM lots
		WHERE ($1::date IS NULL OR date >= $1) AND ($2::date IS NULL OR date <= $2)
		ORDER BY date DESC, created_at DESC, id DESC`,
		filter.From, filter.To)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	var list []*entity.Lot
	for rows.Next() {
		var l entity.Lot
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.Date, &l.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, &l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga los ítems de todos los lotes con una sola consulta.
func (r *LotRepo) loadItems(ctx context.Context, lots []*entity.Lot) error {
	if len(lots) == 0 {
		return nil
	}
	ids := make([]int64, len(lots))
	byID := make(map[int64]*entity.Lot, len(lots))
	for i, l := range lots {
		ids[i] = l.ID
		byID[l.ID] = l
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, lot_id, product_id, quantity, unit_cost, subtotal
		FROM lot_items WHERE lot_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list lot items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.LotItem
		if err := rows.Scan(&it.ID, &it.LotID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return fmt.Errorf("scan lot item: %w", err)
		}
		l := byID[it.LotID]
		l.Items = append(l.Items, it)
	}
	return rows.Err()
}
