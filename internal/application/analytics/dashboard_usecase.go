// Package analytics contiene el resumen de ventas del dashboard.
package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

const (
	dashboardTopProducts = 5
	dashboardLowStockMax = 20
)

// DashboardOptions umbrales del resumen.
type DashboardOptions struct {
	// LowStockThreshold productos activos con stock <= umbral aparecen en low_stock.
	LowStockThreshold int64
}

// DashboardUseCase genera el resumen del día y del mes en curso.
type DashboardUseCase struct {
	repo repository.AnalyticsRepository
	opts DashboardOptions
	log  *logger.Logger
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.AnalyticsRepository, opts DashboardOptions, log *logger.Logger) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, opts: opts, log: log.Named("dashboard"), now: time.Now}
}

// GetSummary arma el resumen para el día date (YYYY-MM-DD; vacío = hoy).
//
// Cuatro consultas en paralelo:
//  1. métricas del día
//  2. métricas del mes (día 1 hasta date)
//  3. top productos del mes
//  4. productos con stock bajo
func (uc *DashboardUseCase) GetSummary(ctx context.Context, date string) (*dto.DashboardSummary, error) {
	day, err := uc.referenceDay(date)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		list []repository.ProductSales
		err  error
	}
	type lowResult struct {
		list []*entity.Product
		err  error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	lowCh := make(chan lowResult, 1)

	go func() {
		m, err := uc.repo.GetSalesMetrics(ctx, day, day)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.repo.GetSalesMetrics(ctx, monthStart, day)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		list, err := uc.repo.GetTopProducts(ctx, monthStart, day, dashboardTopProducts)
		topCh <- topResult{list, err}
	}()
	go func() {
		list, err := uc.repo.GetLowStock(ctx, uc.opts.LowStockThreshold, dashboardLowStockMax)
		lowCh <- lowResult{list, err}
	}()

	today := <-todayCh
	month := <-monthCh
	top := <-topCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del día: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	out := &dto.DashboardSummary{
		Date:          day.Format(dto.DateLayout),
		DateLabel:     monthLabel(day),
		TodaySales:    dto.NewMoney(today.m.Revenue.Round(2)),
		TodayMargin:   dto.NewMoney(today.m.Revenue.Sub(today.m.Cost).Round(2)),
		TodayCount:    today.m.SalesCount,
		MonthlySales:  dto.NewMoney(month.m.Revenue.Round(2)),
		MonthlyMargin: dto.NewMoney(month.m.Revenue.Sub(month.m.Cost).Round(2)),
		MonthlyCount:  month.m.SalesCount,
		MonthlyUnits:  month.m.UnitsSold,
		TopProducts:   make([]dto.TopProduct, 0, len(top.list)),
		LowStock:      make([]dto.LowStockProduct, 0, len(low.list)),
	}
	for _, p := range top.list {
		out.TopProducts = append(out.TopProducts, dto.TopProduct{
			ProductID:        p.ProductID,
			Name:             p.Name,
			UnitsSold:        p.UnitsSold,
			Revenue:          dto.NewMoney(p.Revenue),
			MarginPercentage: dto.NewMoney(marginPercentage(p.Revenue, p.Cost)),
		})
	}
	for _, p := range low.list {
		out.LowStock = append(out.LowStock, dto.LowStockProduct{ProductID: p.ID, Name: p.Name, Quantity: p.Quantity})
	}
	uc.log.Debug().
		Str("date", out.Date).
		Int64("monthly_count", out.MonthlyCount).
		Int("low_stock", len(out.LowStock)).
		Msg("resumen generado")
	return out, nil
}

func (uc *DashboardUseCase) referenceDay(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		now := uc.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	day, err := time.Parse(dto.DateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, domain.Invalid("date", "fecha inválida, se espera YYYY-MM-DD")
	}
	return day, nil
}

// marginPercentage (ingresos - costo) / ingresos × 100; 0 sin ingresos.
func marginPercentage(revenue, cost decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
