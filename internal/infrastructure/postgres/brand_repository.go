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

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo implementación del puerto BrandRepository sobre PostgreSQL.
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

func (r *BrandRepo) Create(ctx context.Context, brand *entity.Brand) error {
	err := r.q.QueryRow(ctx, `INSERT INTO brands (name) VALUES ($1) RETURNING id`, brand.Name).Scan(&brand.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert brand: %w", err)
	}
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id int64) (*entity.Brand, error) {
	return r.getOne(ctx, `SELECT id, name FROM brands WHERE id = $1`, id)
}

func (r *BrandRepo) GetByName(ctx context.Context, name string) (*entity.Brand, error) {
	return r.getOne(ctx, `SELECT id, name FROM brands WHERE name = $1`, name)
}

func (r *BrandRepo) getOne(ctx context.Context, query string, arg any) (*entity.Brand, error) {
	var b entity.Brand
	if err := r.q.QueryRow(ctx, query, arg).Scan(&b.ID, &b.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return &b, nil
}

func (r *BrandRepo) List(ctx context.Context) ([]*entity.Brand, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name FROM brands ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Brand
	for rows.Next() {
		var b entity.Brand
		if err := rows.Scan(&b.ID, &b.Name); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

func (r *BrandRepo) Update(ctx context.Context, brand *entity.Brand) error {
	cmd, err := r.q.Exec(ctx, `UPDATE brands SET name = $2 WHERE id = $1`, brand.ID, brand.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("update brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete: el FK products.brand_id es ON DELETE SET NULL.
func (r *BrandRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
