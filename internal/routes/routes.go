package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hassanalbraa/kingstore/internal/account"
	"github.com/hassanalbraa/kingstore/internal/auth"
	"github.com/hassanalbraa/kingstore/internal/catalog"
	"github.com/hassanalbraa/kingstore/internal/config"
	"github.com/hassanalbraa/kingstore/internal/fulfillment"
	"github.com/hassanalbraa/kingstore/internal/middleware"
	"github.com/hassanalbraa/kingstore/internal/notification"
	"github.com/hassanalbraa/kingstore/internal/order"
	"github.com/hassanalbraa/kingstore/internal/txlog"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	// Repositories: Postgres in deployment, in-memory when running without a
	// database (local development).
	var (
		accountRepo account.Repository
		offerRepo   catalog.Repository
		orderRepo   order.Repository
		ledgerRepo  txlog.Repository
	)
	if d.DB != nil {
		accountRepo = account.NewPostgresRepository(d.DB)
		offerRepo = catalog.NewPostgresRepository(d.DB)
		orderRepo = order.NewPostgresRepository(d.DB)
		ledgerRepo = txlog.NewPostgresRepository(d.DB)
	} else {
		accountRepo = account.NewMemoryRepository()
		offerRepo = catalog.NewMemoryRepository()
		orderRepo = order.NewMemoryRepository()
		ledgerRepo = txlog.NewMemoryRepository()
	}

	accountSvc := account.NewService(accountRepo, d.Cfg.AdminEmail, d.Logger)
	catalogSvc := catalog.NewService(offerRepo)
	tokenSvc := auth.NewService(d.Cfg)
	notifier := notification.NewLoggerNotifier(d.Logger)
	fulfillmentSvc := fulfillment.NewService(accountRepo, orderRepo, ledgerRepo, offerRepo, notifier, d.Logger, d.Cfg.PlayerIDGames)

	accountHandler := account.NewHandler(accountSvc, tokenSvc)
	catalogHandler := catalog.NewHandler(catalogSvc)
	fulfillmentHandler := fulfillment.NewHandler(fulfillmentSvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAccountRoutes(api, accountHandler, rateLimiter)

	// Authenticated routes
	jwtmw := middleware.JWTAuth(tokenSvc)
	protected := api.Group("", jwtmw, middleware.Audit(d.Logger))
	RegisterStoreRoutes(protected, accountHandler, catalogHandler, fulfillmentHandler)

	// Operator routes
	admin := protected.Group("/admin", middleware.RequireAdmin(accountRepo))
	RegisterAdminRoutes(admin, catalogHandler, fulfillmentHandler)

	return nil
}
