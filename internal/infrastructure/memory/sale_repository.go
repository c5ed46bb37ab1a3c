package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas en memoria.
type SaleRepo struct {
	acc access
}

func (r *SaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	return r.acc(true, func(st *state) error {
		st.seq.sale++
		sale.ID = st.seq.sale
		stored := *sale
		stored.Note = cloneString(sale.Note)
		stored.Items = nil
		st.sales[sale.ID] = stored
		return nil
	})
}

func (r *SaleRepo) AddItem(_ context.Context, item *entity.SaleItem) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.sales[item.SaleID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		st.seq.saleItem++
		item.ID = st.seq.saleItem
		st.saleItems[item.ID] = *item
		return nil
	})
}

func (r *SaleRepo) UpdateTotal(_ context.Context, id int64, total decimal.Decimal) error {
	return r.acc(true, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.Total = total
		st.sales[id] = s
		return nil
	})
}

func loadSale(st *state, s entity.Sale) *entity.Sale {
	s.Note = cloneString(s.Note)
	s.Items = nil
	for _, it := range st.saleItems {
		if it.SaleID == s.ID {
			s.Items = append(s.Items, it)
		}
	}
	slices.SortFunc(s.Items, func(a, b entity.SaleItem) int { return cmp.Compare(a.ID, b.ID) })
	return &s
}

func (r *SaleRepo) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.acc(false, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = loadSale(st, s)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) List(_ context.Context, filter repository.SaleFilter) ([]*entity.Sale, error) {
	var all []*entity.Sale
	err := r.acc(false, func(st *state) error {
		for _, s := range st.sales {
			if filter.From != nil && s.SaleDate.Before(*filter.From) {
				continue
			}
			if filter.To != nil && s.SaleDate.After(*filter.To) {
				continue
			}
			all = append(all, loadSale(st, s))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(all, func(a, b *entity.Sale) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	if filter.Offset >= len(all) {
		return []*entity.Sale{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}
