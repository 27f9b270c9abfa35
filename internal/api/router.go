package api

import (
	"context"
	"net/http"

	"invoice-converter/docs"
	"invoice-converter/internal/api/handlers"
	"invoice-converter/pkg/config"
	"invoice-converter/pkg/middleware"
	"invoice-converter/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// SetupRouter builds the app. Requests run under ctx, which the caller
// cancels on shutdown.
func SetupRouter(
	ctx context.Context,
	cfg *config.ServerConfig,
	conversionHandler *handlers.ConversionHandler,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID(appLogger))
	app.Use(middleware.BaseContext(ctx))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept",
		ExposeHeaders: "Content-Disposition,X-Request-ID,X-Invoices-Successful,X-Invoices-Failed",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Web interface
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(web.IndexHTML)
	})
	app.Use("/static", filesystem.New(filesystem.Config{
		Root:       http.FS(web.Static),
		PathPrefix: "static",
	}))

	// API routes
	v1 := app.Group("/api/v1")

	conversions := v1.Group("/conversions")
	conversions.Post("", conversionHandler.Convert)
	conversions.Post("/xlsx", conversionHandler.ConvertXLSX)
	conversions.Get("/:id/download", conversionHandler.Download)

	return app
}
