package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas e ítems de venta sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO sales (sale_date, note, total, created_at) VALUES ($1, $2, $3, $4) RETURNING id`,
		sale.SaleDate, sale.Note, sale.Total, sale.CreatedAt,
	).Scan(&sale.ID)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) AddItem(ctx context.Context, item *entity.SaleItem) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sale_items (sale_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	).Scan(&item.ID)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (r *SaleRepo) UpdateTotal(ctx context.Context, id int64, total decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET total = $2 WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("update sale total: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	var s entity.Sale
	err := r.q.QueryRow(ctx,
		`SELECT id, sale_date, note, total, created_at FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.SaleDate, &s.Note, &s.Total, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{&s}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_date, note, total, created_at FROM sales
		WHERE ($1::date IS NULL OR sale_date >= $1) AND ($2::date IS NULL OR sale_date <= $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		filter.From, filter.To, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.SaleDate, &s.Note, &s.Total, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
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

// loadItems evita el N+1: una consulta para los ítems de todas las ventas.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]int64, len(sales))
	byID := make(map[int64]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		s := byID[it.SaleID]
		s.Items = append(s.Items, it)
	}
	return rows.Err()
}
