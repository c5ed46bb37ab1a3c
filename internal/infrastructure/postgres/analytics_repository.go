package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics cuenta ventas, unidades, ingresos y costo en [from, to].
// Costo = cantidad × purchase_price actual del producto.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM sales WHERE sale_date BETWEEN $1::date AND $2::date) AS sales_count,
	    COALESCE(SUM(si.quantity), 0)::bigint                                    AS units_sold,
	    COALESCE(SUM(si.subtotal), 0)                                            AS revenue,
	    COALESCE(SUM(si.quantity * p.purchase_price), 0)                         AS cost
	FROM sale_items si
	JOIN sales    s ON s.id = si.sale_id
	JOIN products p ON p.id = si.product_id
	WHERE s.sale_date BETWEEN $1::date AND $2::date`

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, from, to).Scan(&m.SalesCount, &m.UnitsSold, &m.Revenue, &m.Cost)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics: sales metrics: %w", err)
	}
	return m, nil
}

// GetTopProducts productos con mayor ingreso en [from, to].
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	const query = `
	SELECT
	    p.id,
	    p.name,
	    SUM(si.quantity)::bigint            AS units_sold,
	    SUM(si.subtotal)                    AS revenue,
	    SUM(si.quantity * p.purchase_price) AS cost
	FROM sale_items si
	JOIN sales    s ON s.id = si.sale_id
	JOIN products p ON p.id = si.product_id
	WHERE s.sale_date BETWEEN $1::date AND $2::date
	GROUP BY p.id, p.name
	ORDER BY revenue DESC, p.id
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics: top products: %w", err)
	}
	defer rows.Close()

	var out []repository.ProductSales
	for rows.Next() {
		var ps repository.ProductSales
		var revenue, cost decimal.Decimal
		if err := rows.Scan(&ps.ProductID, &ps.Name, &ps.UnitsSold, &revenue, &cost); err != nil {
			return nil, fmt.Errorf("analytics: scan top product: %w", err)
		}
		ps.Revenue, ps.Cost = revenue, cost
		out = append(out, ps)
	}
	return out, rows.Err()
}

// GetLowStock productos activos con quantity <= threshold.
func (r *AnalyticsRepo) GetLowStock(ctx context.Context, threshold int64, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE active AND quantity <= $1
		ORDER BY quantity, id
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics: low stock: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("analytics: scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
