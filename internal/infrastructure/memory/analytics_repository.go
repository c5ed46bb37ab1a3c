package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados de ventas calculados recorriendo el estado.
type AnalyticsRepo struct {
	acc access
}

// Analytics repositorio de lectura para el dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{acc: s.access} }

func dayKey(t time.Time) string { return t.UTC().Format(time.DateOnly) }

// salesInRange IDs de ventas con sale_date en [from, to].
func salesInRange(st *state, from, to time.Time) map[int64]struct{} {
	lo, hi := dayKey(from), dayKey(to)
	out := map[int64]struct{}{}
	for id, s := range st.sales {
		if d := dayKey(s.SaleDate); d >= lo && d <= hi {
			out[id] = struct{}{}
		}
	}
	return out
}

func (r *AnalyticsRepo) GetSalesMetrics(_ context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	m := repository.SalesMetrics{Revenue: decimal.Zero, Cost: decimal.Zero}
	err := r.acc(false, func(st *state) error {
		ids := salesInRange(st, from, to)
		m.SalesCount = int64(len(ids))
		for _, it := range st.saleItems {
			if _, ok := ids[it.SaleID]; !ok {
				continue
			}
			m.UnitsSold += it.Quantity
			m.Revenue = m.Revenue.Add(it.Subtotal)
			if p, ok := st.products[it.ProductID]; ok {
				m.Cost = m.Cost.Add(p.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity)))
			}
		}
		return nil
	})
	return m, err
}

func (r *AnalyticsRepo) GetTopProducts(_ context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	var out []repository.ProductSales
	err := r.acc(false, func(st *state) error {
		ids := salesInRange(st, from, to)
		byProduct := map[int64]*repository.ProductSales{}
		for _, it := range st.saleItems {
			if _, ok := ids[it.SaleID]; !ok {
				continue
			}
			p, ok := st.products[it.ProductID]
			if !ok {
				continue
			}
			agg, ok := byProduct[p.ID]
			if !ok {
				agg = &repository.ProductSales{ProductID: p.ID, Name: p.Name, Revenue: decimal.Zero, Cost: decimal.Zero}
				byProduct[p.ID] = agg
			}
			agg.UnitsSold += it.Quantity
			agg.Revenue = agg.Revenue.Add(it.Subtotal)
			agg.Cost = agg.Cost.Add(p.PurchasePrice.Mul(decimal.NewFromInt(it.Quantity)))
		}
		for _, agg := range byProduct {
			out = append(out, *agg)
		}
		slices.SortFunc(out, func(a, b repository.ProductSales) int {
			if c := b.Revenue.Cmp(a.Revenue); c != 0 {
				return c
			}
			return cmp.Compare(a.ProductID, b.ProductID)
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepo) GetLowStock(_ context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.acc(false, func(st *state) error {
		for _, p := range st.products {
			if p.Active && p.Quantity <= threshold {
				out = append(out, copyProduct(p))
			}
		}
		slices.SortFunc(out, func(a, b *entity.Product) int {
			if c := cmp.Compare(a.Quantity, b.Quantity); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}
