// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"store-search-service/internal/domain"
	"store-search-service/internal/metrics"
	"store-search-service/internal/transport/httpserver/dto"
	"store-search-service/internal/transport/httpserver/handler"
	"store-search-service/internal/transport/httpserver/middleware"
	"store-search-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  string
	MetricsPath  string // empty disables the metrics endpoint
}

// Services are the use cases the API exposes.
type Services struct {
	Search       handler.StoreSearcher
	Filters      handler.FilterProvider
	Stores       handler.StoreFinder
	Favorites    handler.FavoriteWriter
	MorningSales handler.MorningSaleLister
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	svcs Services,
	readiness []middleware.ReadinessCheck,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "store-search-service",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(2*time.Second, readiness...))

	if cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, metrics.Handler())
	}

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(metrics.Middleware())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(compress.New())

	searchHandler := handler.NewSearchHandler(svcs.Search, svcs.Filters, v, logger)
	storeHandler := handler.NewStoreHandler(svcs.Stores, svcs.Favorites, v, logger)
	dealHandler := handler.NewDealHandler(svcs.MorningSales, logger)

	registerRoutes(app, searchHandler, storeHandler, dealHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	searchHandler *handler.SearchHandler,
	storeHandler *handler.StoreHandler,
	dealHandler *handler.DealHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	v1 := app.Group("/api/v1")

	search := v1.Group("/search")
	search.Get("/stores", searchHandler.Search)
	search.Get("/filters", searchHandler.Filters)

	stores := v1.Group("/stores")
	// Static segments must precede /:id.
	stores.Get("/morning-sale", dealHandler.MorningSales)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/:id/favorite", storeHandler.AddFavorite)
	stores.Delete("/:id/favorite", storeHandler.RemoveFavorite)
}

// errorHandler maps errors to the response envelope and logs based on status.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
// Internal error details never reach the client.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := resolveError(err)

		fields := []zap.Field{
			zap.Error(err),
			zap.Int("status", code),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found", fields...)
		case code >= 500:
			logger.Error("server error", fields...)
		default:
			logger.Warn("client error", fields...)
		}

		return c.Status(code).JSON(dto.Fail(code, message))
	}
}

// resolveError maps an error to a status code and a client-safe message.
func resolveError(err error) (int, string) {
	var fe *fiber.Error

	switch {
	case errors.As(err, &fe):
		if fe.Code >= fiber.StatusInternalServerError {
			return fe.Code, "internal server error"
		}
		return fe.Code, fe.Message
	case errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrStoreNotFound):
		return fiber.StatusNotFound, domain.ErrStoreNotFound.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusServiceUnavailable, "request timed out"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.ShutdownWithContext(ctx)
}
