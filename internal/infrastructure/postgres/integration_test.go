package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/domain"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/perfumes-admin-api/pkg/config"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

// openTestPool conecta a TEST_DATABASE_URL (se puede definir en .env) y deja el esquema vacío.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../../.env")
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool, logger.Nop())
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE sale_items, sales, lot_items, lots, products, brands, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestMigrate_Idempotente(t *testing.T) {
	pool := openTestPool(t)
	applied, err := postgres.Migrate(context.Background(), pool, logger.Nop())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestPostgres_VentaYLoteDentroDeTx(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	products := postgres.NewProductRepository(pool)

	p := &entity.Product{Name: "Light Blue", SalePrice: decimal.RequireFromString("80.00"), Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, products.Create(ctx, p))

	err := runner.Run(ctx, func(pr repository.ProductRepository, lots repository.LotRepository, _ repository.SaleRepository) error {
		lot := &entity.Lot{Name: "Compra", Date: time.Now(), CreatedAt: time.Now()}
		if err := lots.Create(ctx, lot); err != nil {
			return err
		}
		_, err := inventory.ApplyLotIntake(ctx, pr, lots, lot.ID, []inventory.LotLine{
			{ProductID: p.ID, Quantity: 3, UnitCost: decimal.RequireFromString("40.00")},
		})
		return err
	})
	require.NoError(t, err)

	sale := &entity.Sale{SaleDate: time.Now(), CreatedAt: time.Now()}
	err = runner.Run(ctx, func(pr repository.ProductRepository, _ repository.LotRepository, sales repository.SaleRepository) error {
		return inventory.RecordSale(ctx, pr, sales, sale, []inventory.SaleLine{{ProductID: p.ID, Quantity: 2}})
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("160.00").Equal(sale.Total))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Quantity)
	assert.True(t, decimal.RequireFromString("40.00").Equal(got.PurchasePrice))

	stored, err := postgres.NewSaleRepository(pool).GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)

	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, products.AdjustQuantity(ctx, p.ID, -5), domain.ErrInsufficientStock)
}

func TestPostgres_VentasConcurrentesNoSobrevenden(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	products := postgres.NewProductRepository(pool)

	p := &entity.Product{Name: "Eros", SalePrice: decimal.RequireFromString("10.00"), Quantity: 5, Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, products.Create(ctx, p))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := runner.Run(ctx, func(pr repository.ProductRepository, _ repository.LotRepository, sales repository.SaleRepository) error {
				sale := &entity.Sale{SaleDate: time.Now(), CreatedAt: time.Now()}
				return inventory.RecordSale(ctx, pr, sales, sale, []inventory.SaleLine{{ProductID: p.ID, Quantity: 1}})
			})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
}

func TestBrandRepo_DeleteSetNull(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	brands := postgres.NewBrandRepository(pool)
	products := postgres.NewProductRepository(pool)

	b := &entity.Brand{Name: "Versace"}
	require.NoError(t, brands.Create(ctx, b))
	assert.ErrorIs(t, brands.Create(ctx, &entity.Brand{Name: "Versace"}), domain.ErrAlreadyExists)

	p := &entity.Product{Name: "Eros", BrandID: &b.ID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, products.Create(ctx, p))
	require.NoError(t, brands.Delete(ctx, b.ID))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BrandID)
}

func TestAnalyticsRepo_MetricasYStockBajo(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	products := postgres.NewProductRepository(pool)
	analytics := postgres.NewAnalyticsRepository(pool)

	p := &entity.Product{
		Name: "Sauvage", PurchasePrice: decimal.RequireFromString("30.00"), SalePrice: decimal.RequireFromString("50.00"),
		Quantity: 5, Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, products.Create(ctx, p))

	day := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	sale := &entity.Sale{SaleDate: day, CreatedAt: time.Now()}
	err := runner.Run(ctx, func(pr repository.ProductRepository, _ repository.LotRepository, sales repository.SaleRepository) error {
		return inventory.RecordSale(ctx, pr, sales, sale, []inventory.SaleLine{{ProductID: p.ID, Quantity: 3}})
	})
	require.NoError(t, err)

	m, err := analytics.GetSalesMetrics(ctx, day.AddDate(0, 0, -14), day)
	require.NoError(t, err)
	assert.Equal(t, int64(1), m.SalesCount)
	assert.Equal(t, int64(3), m.UnitsSold)
	assert.True(t, decimal.RequireFromString("150.00").Equal(m.Revenue))
	assert.True(t, decimal.RequireFromString("90.00").Equal(m.Cost))

	empty, err := analytics.GetSalesMetrics(ctx, day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Zero(t, empty.SalesCount)
	assert.True(t, empty.Revenue.IsZero())

	top, err := analytics.GetTopProducts(ctx, day, day, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, p.ID, top[0].ProductID)

	low, err := analytics.GetLowStock(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, int64(2), low[0].Quantity)
}
