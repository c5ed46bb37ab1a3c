package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo lotes en memoria.
type LotRepo struct {
	acc access
}

func (r *LotRepo) Create(_ context.Context, lot *entity.Lot) error {
	return r.acc(true, func(st *state) error {
		st.seq.lot++
		lot.ID = st.seq.lot
		stored := *lot
		stored.Description = cloneString(lot.Description)
		stored.Items = nil
		st.lots[lot.ID] = stored
		return nil
	})
}

func loadLot(st *state, l entity.Lot) *entity.Lot {
	l.Description = cloneString(l.Description)
	l.Items = nil
	for _, it := range st.lotItems {
		if it.LotID == l.ID {
			l.Items = append(l.Items, it)
		}
	}
	slices.SortFunc(l.Items, func(a, b entity.LotItem) int { return cmp.Compare(a.ID, b.ID) })
	return &l
}

func (r *LotRepo) GetByID(_ context.Context, id int64) (*entity.Lot, error) {
	var out *entity.Lot
	err := r.acc(false, func(st *state) error {
		if l, ok := st.lots[id]; ok {
			out = loadLot(st, l)
		}
		return nil
	})
	return out, err
}

func (r *LotRepo) List(_ context.Context, filter repository.LotFilter) ([]*entity.Lot, error) {
	var out []*entity.Lot
	err := r.acc(false, func(st *state) error {
		for _, l := range st.lots {
			if filter.From != nil && l.Date.Before(*filter.From) {
				continue
			}
			if filter.To != nil && l.Date.After(*filter.To) {
				continue
			}
			out = append(out, loadLot(st, l))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Lot) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, err
}

func (r *LotRepo) AddItem(_ context.Context, item *entity.LotItem) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.lots[item.LotID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.products[item.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if item.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		st.seq.lotItem++
		item.ID = st.seq.lotItem
		st.lotItems[item.ID] = *item
		return nil
	})
}
