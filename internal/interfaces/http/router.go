package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/perfumes-admin-api/internal/application/analytics"
	"github.com/jhoicas/perfumes-admin-api/internal/application/auth"
	"github.com/jhoicas/perfumes-admin-api/internal/application/inventory"
	"github.com/jhoicas/perfumes-admin-api/internal/application/usecase"
	"github.com/jhoicas/perfumes-admin-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BrandUC   *usecase.BrandUseCase
	ProductUC *usecase.ProductUseCase
	LotUC     *inventory.LotUseCase
	SaleUC    *inventory.SaleUseCase
	AuthUC    *auth.AuthUseCase
	// DashboardUC opcional; nil = sin /dashboard.
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
	AppName     string
	// Health verifica la base de datos; nil = siempre ok.
	Health func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": deps.AppName, "docs": "/docs", "health": "/health"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.Context()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "service": deps.AppName})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	authn := AuthMiddleware(deps.JWTSecret)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := app.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", authn, authHandler.Me)

	// Rutas protegidas: Bearer token + rol admin
	admin := []fiber.Handler{authn, RequireRole(entity.RoleAdmin)}

	brands := app.Group("/brands", admin...)
	brandHandler := NewBrandHandler(deps.BrandUC)
	brands.Post("/", brandHandler.Create)
	brands.Get("/", brandHandler.List)
	brands.Get("/:id", brandHandler.GetByID)
	brands.Patch("/:id", brandHandler.Update)
	brands.Delete("/:id", brandHandler.Delete)

	products := app.Group("/products", admin...)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Post("/:id/image", productHandler.UploadImage)

	lots := app.Group("/lots", admin...)
	lotHandler := NewLotHandler(deps.LotUC)
	lots.Post("/", lotHandler.Create)
	lots.Get("/", lotHandler.List)
	lots.Get("/:id", lotHandler.GetByID)
	lots.Post("/:id/items", lotHandler.AddItems)

	sales := app.Group("/sales", admin...)
	saleHandler := NewSaleHandler(deps.SaleUC)
	sales.Post("/", saleHandler.Create)
	sales.Get("/", saleHandler.List)
	sales.Get("/:id", saleHandler.GetByID)
	sales.Get("/:id/receipt", saleHandler.Receipt)

	if deps.DashboardUC != nil {
		dashboardHandler := NewDashboardHandler(deps.DashboardUC)
		app.Get("/dashboard/summary", append(admin, dashboardHandler.GetSummary)...)
	}
}
