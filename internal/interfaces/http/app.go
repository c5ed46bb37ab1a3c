package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/perfumes-admin-api/pkg/logger"
	"github.com/jhoicas/perfumes-admin-api/pkg/metrics"
)

// DefaultBodyLimit deja margen para imágenes de 5 MB en multipart.
const DefaultBodyLimit = 6 << 20

// AppConfig opciones de la app fiber.
type AppConfig struct {
	Name           string
	AllowedOrigins []string
	// ExposeErrors muestra el detalle de los 500 (solo desarrollo).
	ExposeErrors bool
	BodyLimit    int
}

// NewApp crea la app con los middlewares comunes y /metrics. Las rutas se agregan con Router.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler(log.Named("http"), cfg.ExposeErrors),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowCredentials: len(cfg.AllowedOrigins) > 0 && !containsWildcard(cfg.AllowedOrigins),
	}))
	app.Use(RequestLogger(log.Named("http")))
	app.Use(metrics.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	return app
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
