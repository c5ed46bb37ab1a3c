package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	acc access
}

func copyProduct(p entity.Product) *entity.Product {
	p.BrandID = cloneInt64(p.BrandID)
	p.ImageURL = cloneString(p.ImageURL)
	return &p
}

func checkBrand(st *state, brandID *int64) error {
	if brandID == nil {
		return nil
	}
	if _, ok := st.brands[*brandID]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	return r.acc(true, func(st *state) error {
		if product.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		if err := checkBrand(st, product.BrandID); err != nil {
			return err
		}
		st.seq.product++
		product.ID = st.seq.product
		st.products[product.ID] = *copyProduct(*product)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc(false, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByIDs(_ context.Context, ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product, len(ids))
	err := r.acc(false, func(st *state) error {
		for _, id := range ids {
			if p, ok := st.products[id]; ok {
				out[id] = copyProduct(p)
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(filter.Search))

	var out []*entity.Product
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			if search != "" && !strings.Contains(fold.String(p.Name), search) {
				continue
			}
			if filter.BrandID != nil && (p.BrandID == nil || *p.BrandID != *filter.BrandID) {
				continue
			}
			if filter.Active != nil && p.Active != *filter.Active {
				continue
			}
			out = append(out, copyProduct(p))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Product) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	return r.acc(true, func(st *state) error {
		cur, ok := st.products[product.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := checkBrand(st, product.BrandID); err != nil {
			return err
		}
		upd := *copyProduct(*product)
		upd.Quantity = cur.Quantity
		upd.CreatedAt = cur.CreatedAt
		st.products[product.ID] = upd
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.ErrNotFound
		}
		// ON DELETE RESTRICT desde lot_items y sale_items
		for _, it := range st.lotItems {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
		for _, it := range st.saleItems {
			if it.ProductID == id {
				return domain.ErrConflict
			}
		}
		delete(st.products, id)
		return nil
	})
}

// LockByIDs en memoria no necesita bloquear: Run ya serializa las transacciones.
func (r *ProductRepo) LockByIDs(ctx context.Context, ids []int64) (map[int64]*entity.Product, error) {
	return r.GetByIDs(ctx, ids)
}

func (r *ProductRepo) AdjustQuantity(_ context.Context, id int64, delta int64) error {
	return r.acc(true, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		if p.Quantity+delta < 0 {
			return domain.ErrInsufficientStock
		}
		p.Quantity += delta
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdatePurchasePrice(_ context.Context, id int64, price decimal.Decimal) error {
	return r.acc(true, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.PurchasePrice = price
		st.products[id] = p
		return nil
	})
}
