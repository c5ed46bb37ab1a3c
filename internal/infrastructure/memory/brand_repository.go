package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo marcas en memoria.
type BrandRepo struct {
	acc access
}

func brandNameTaken(st *state, name string, exceptID int64) bool {
	for _, b := range st.brands {
		if b.Name == name && b.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *BrandRepo) Create(_ context.Context, brand *entity.Brand) error {
	return r.acc(true, func(st *state) error {
		if brandNameTaken(st, brand.Name, 0) {
			return domain.ErrAlreadyExists
		}
		st.seq.brand++
		brand.ID = st.seq.brand
		st.brands[brand.ID] = *brand
		return nil
	})
}

func (r *BrandRepo) GetByID(_ context.Context, id int64) (*entity.Brand, error) {
	var out *entity.Brand
	err := r.acc(false, func(st *state) error {
		if b, ok := st.brands[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *BrandRepo) GetByName(_ context.Context, name string) (*entity.Brand, error) {
	var out *entity.Brand
	err := r.acc(false, func(st *state) error {
		for _, b := range st.brands {
			if b.Name == name {
				out = &b
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *BrandRepo) List(_ context.Context) ([]*entity.Brand, error) {
	var out []*entity.Brand
	err := r.acc(false, func(st *state) error {
		for _, b := range st.brands {
			out = append(out, &b)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b *entity.Brand) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, err
}

func (r *BrandRepo) Update(_ context.Context, brand *entity.Brand) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.brands[brand.ID]; !ok {
			return domain.ErrNotFound
		}
		if brandNameTaken(st, brand.Name, brand.ID) {
			return domain.ErrAlreadyExists
		}
		st.brands[brand.ID] = *brand
		return nil
	})
}

func (r *BrandRepo) Delete(_ context.Context, id int64) error {
	return r.acc(true, func(st *state) error {
		if _, ok := st.brands[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.brands, id)
		// ON DELETE SET NULL
		for pid, p := range st.products {
			if p.BrandID != nil && *p.BrandID == id {
				p.BrandID = nil
				st.products[pid] = p
			}
		}
		return nil
	})
}
