package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/spf13/cobra"

	appanalytics "github.com/jhoicas/perfumes-admin-api/internal/application/analytics"
	"github.com/jhoicas/perfumes-admin-api/internal/application/auth"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/application/usecase"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/repository"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/perfumes-admin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/perfumes-admin-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/perfumes-admin-api/internal/interfaces/http"
	"github.com/jhoicas/perfumes-admin-api/pkg/config"
	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// perfumes-api serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta el servidor HTTP",
	RunE:  runServe,
}

// backend repositorios y transacciones según DB_DRIVER.
type backend struct {
	tx        inventory.TxRunner
	brands    repository.BrandRepository
	products  repository.ProductRepository
	lots      repository.LotRepository
	sales     repository.SaleRepository
	users     repository.UserRepository
	analytics repository.AnalyticsRepository
	ping      func(ctx context.Context) error
	close     func()
}

func openBackend(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*backend, error) {
	if cfg.Driver == "memory" {
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.New()
		return &backend{
			tx:        store,
			brands:    store.Brands(),
			products:  store.Products(),
			lots:      store.Lots(),
			sales:     store.Sales(),
			users:     store.Users(),
			analytics: store.Analytics(),
			ping:      store.Ping,
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.AutoMigrate {
		if _, err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return &backend{
		tx:        postgres.NewTxRunner(pool),
		brands:    postgres.NewBrandRepository(pool),
		products:  postgres.NewProductRepository(pool),
		lots:      postgres.NewLotRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		users:     postgres.NewUserRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		ping:      pool.Ping,
		close:     pool.Close,
	}, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := boot()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("db_driver", cfg.DB.Driver).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := cmd.Context()
	be, err := openBackend(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer be.close()

	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("almacenamiento de imágenes: %w", err)
	}

	brandUC := usecase.NewBrandUseCase(be.brands, log)
	productUC := usecase.NewProductUseCase(be.tx, be.products, be.brands, disk, usecase.ProductOptions{
		RequireLot: cfg.Catalog.RequireLot,
		UploadsDir: cfg.Storage.UploadsDir,
	}, log)
	lotUC := inventory.NewLotUseCase(be.tx, be.lots, log)
	saleUC := inventory.NewSaleUseCase(be.tx, be.sales, be.products, infrapdf.NewReceiptGenerator(cfg.App.Name), log)
	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	dashboardUC := appanalytics.NewDashboardUseCase(be.analytics, appanalytics.DashboardOptions{
		LowStockThreshold: cfg.Catalog.LowStockThreshold,
	}, log)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		ExposeErrors:   cfg.App.IsDevelopment(),
	}, log)

	if local, ok := disk.(*storage.LocalDisk); ok {
		app.Static(cfg.Storage.PublicURL, local.Root())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		if _, err := os.Stat(swaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: swaggerFile,
				Path:     "docs",
				Title:    "Perfumes Admin API",
			}))
		} else {
			log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado: no se encontró el documento")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		BrandUC:     brandUC,
		ProductUC:   productUC,
		LotUC:       lotUC,
		SaleUC:      saleUC,
		AuthUC:      authUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
		AppName:     cfg.App.Name,
		Health:      be.ping,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	log.Info().Msg("aplicación detenida")
	return nil
}
