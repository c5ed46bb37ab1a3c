package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/perfumes-admin-api/internal/application/analytics"
	"github.com/jhoicas/perfumes-admin-api/internal/application/dto"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/memory"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

func seed(t *testing.T, store *memory.Store, name string, qty int64, salePrice string, active bool) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:          name,
		PurchasePrice: decimal.RequireFromString("10"),
		SalePrice:     decimal.RequireFromString(salePrice),
		Quantity:      qty,
		Active:        active,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func sell(t *testing.T, uc *inventory.SaleUseCase, date string, items ...dto.SaleItemRequest) {
	t.Helper()
	_, err := uc.Create(context.Background(), dto.CreateSaleRequest{SaleDate: date, Items: items})
	require.NoError(t, err)
}

func assertMoney(t *testing.T, want string, got dto.Money) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got.Decimal), "want %s, got %s", want, got.String())
}

func TestGetSummary_DiaMesTopYStockBajo(t *testing.T) {
	store := memory.New()
	log := logger.Nop()
	sales := inventory.NewSaleUseCase(store, store.Sales(), store.Products(), nil, log)

	a := seed(t, store, "Alien", 10, "20", true)
	b := seed(t, store, "Bleu", 4, "50", true)
	seed(t, store, "Chance", 0, "30", false)
	d := seed(t, store, "Dior Homme", 2, "40", true)

	sell(t, sales, "2024-04-30", dto.SaleItemRequest{ProductID: b.ID, Quantity: 1})
	sell(t, sales, "2024-05-10",
		dto.SaleItemRequest{ProductID: a.ID, Quantity: 2},
		dto.SaleItemRequest{ProductID: b.ID, Quantity: 1},
	)
	sell(t, sales, "2024-05-15", dto.SaleItemRequest{ProductID: a.ID, Quantity: 3})

	uc := appanalytics.NewDashboardUseCase(store.Analytics(), appanalytics.DashboardOptions{LowStockThreshold: 3}, log)
	out, err := uc.GetSummary(context.Background(), "2024-05-15")
	require.NoError(t, err)

	assert.Equal(t, "2024-05-15", out.Date)
	assert.Equal(t, "Mayo 2024", out.DateLabel)

	assert.Equal(t, int64(1), out.TodayCount)
	assertMoney(t, "60", out.TodaySales)
	assertMoney(t, "30", out.TodayMargin)

	assert.Equal(t, int64(2), out.MonthlyCount)
	assert.Equal(t, int64(6), out.MonthlyUnits)
	assertMoney(t, "150", out.MonthlySales)
	assertMoney(t, "90", out.MonthlyMargin)

	require.Len(t, out.TopProducts, 2)
	assert.Equal(t, a.ID, out.TopProducts[0].ProductID)
	assert.Equal(t, int64(5), out.TopProducts[0].UnitsSold)
	assertMoney(t, "100", out.TopProducts[0].Revenue)
	assertMoney(t, "50", out.TopProducts[0].MarginPercentage)
	assert.Equal(t, b.ID, out.TopProducts[1].ProductID)
	assertMoney(t, "80", out.TopProducts[1].MarginPercentage)

	// B quedó en 2 y D en 2; Chance está inactivo.
	require.Len(t, out.LowStock, 2)
	assert.Equal(t, b.ID, out.LowStock[0].ProductID)
	assert.Equal(t, d.ID, out.LowStock[1].ProductID)
	assert.Equal(t, int64(2), out.LowStock[1].Quantity)
}

func TestGetSummary_SinVentas(t *testing.T) {
	store := memory.New()
	uc := appanalytics.NewDashboardUseCase(store.Analytics(), appanalytics.DashboardOptions{LowStockThreshold: 3}, logger.Nop())

	out, err := uc.GetSummary(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, time.Now().Format(dto.DateLayout), out.Date)
	assert.Zero(t, out.TodayCount)
	assertMoney(t, "0", out.MonthlySales)
	assert.NotNil(t, out.TopProducts)
	assert.Empty(t, out.TopProducts)
	assert.NotNil(t, out.LowStock)
}

func TestGetSummary_FechaInvalida(t *testing.T) {
	uc := appanalytics.NewDashboardUseCase(memory.New().Analytics(), appanalytics.DashboardOptions{}, logger.Nop())

	_, err := uc.GetSummary(context.Background(), "15/05/2024")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

type failingAnalytics struct {
	repository.AnalyticsRepository
}

func (failingAnalytics) GetSalesMetrics(context.Context, time.Time, time.Time) (repository.SalesMetrics, error) {
	return repository.SalesMetrics{}, nil
}

func (failingAnalytics) GetTopProducts(context.Context, time.Time, time.Time, int) ([]repository.ProductSales, error) {
	return nil, errors.New("conexión perdida")
}

func (failingAnalytics) GetLowStock(context.Context, int64, int) ([]*entity.Product, error) {
	return nil, nil
}

func TestGetSummary_PropagaErrorDelRepositorio(t *testing.T) {
	uc := appanalytics.NewDashboardUseCase(failingAnalytics{}, appanalytics.DashboardOptions{}, logger.Nop())

	_, err := uc.GetSummary(context.Background(), "2024-05-15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top productos")
}
