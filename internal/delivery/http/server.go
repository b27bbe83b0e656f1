package http

import (
	"context"
	"time"

	"github.com/ev-station-service/internal/config"
	"github.com/ev-station-service/internal/delivery/http/handler"
	"github.com/ev-station-service/internal/delivery/http/middleware"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// HealthCheck - проверка зависимости для /health
type HealthCheck func(ctx context.Context) error

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger
	tokens middleware.TokenValidator
	checks map[string]HealthCheck

	// Handlers
	stationHandler *handler.StationHandler
	statsHandler   *handler.StatsHandler
	authHandler    *handler.AuthHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	tokens middleware.TokenValidator,
	checks map[string]HealthCheck,
	stationHandler *handler.StationHandler,
	statsHandler *handler.StatsHandler,
	authHandler *handler.AuthHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "EV Charging Station API",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:            app,
		config:         cfg,
		logger:         logger,
		tokens:         tokens,
		checks:         checks,
		stationHandler: stationHandler,
		statsHandler:   statsHandler,
		authHandler:    authHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App возвращает fiber.App, используется в тестах через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSAllowOrigins))
	s.app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
		CrossOriginOpenerPolicy:   "unsafe-none",
	}))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/health", s.health)

	api := s.app.Group("/api")
	api.Get("/", s.index)

	authenticate := middleware.Authenticate(s.tokens)
	reads := authenticate
	if s.config.Auth.PublicReads {
		reads = middleware.OptionalAuth(s.tokens)
	}

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.authHandler.Register)
	authGroup.Post("/login", s.authHandler.Login)
	authGroup.Get("/me", authenticate, s.authHandler.Me)
	authGroup.Put("/me", authenticate, s.authHandler.UpdateProfile)
	authGroup.Put("/change-password", authenticate, s.authHandler.ChangePassword)

	// Station routes; static segments before /:id
	stations := api.Group("/stations")
	stations.Get("/stats", reads, s.statsHandler.GetStatistics)
	stations.Get("/status/:status", reads, s.stationHandler.ListByStatus)
	stations.Get("/connector/:type", reads, s.stationHandler.ListByConnectorType)
	stations.Get("/", reads, s.stationHandler.ListStations)
	stations.Post("/", authenticate, s.stationHandler.CreateStation)
	stations.Get("/:id", reads, s.stationHandler.GetStation)
	stations.Put("/:id", authenticate, s.stationHandler.UpdateStation)
	stations.Delete("/:id", authenticate, s.stationHandler.DeleteStation)
	stations.Patch("/:id/availability", authenticate, s.stationHandler.UpdateAvailability)

	s.app.Use(func(c *fiber.Ctx) error {
		return utils.SendError(c, errors.ErrRouteNotFound.WithMessage("Not found - "+c.OriginalURL()))
	})
}

// health - состояние сервиса и его зависимостей
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	deps := make(fiber.Map, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			deps[name] = "DOWN"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "UP"
	}

	state := "OK"
	if status != fiber.StatusOK {
		state = "DEGRADED"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       state,
		"message":      "Server is running",
		"timestamp":    time.Now().UTC(),
		"environment":  s.config.Server.Env,
		"dependencies": deps,
	})
}

// index - краткий список эндпоинтов
func (s *Server) index(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "EV Charging Station Management API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"auth": fiber.Map{
				"register":       "POST /api/auth/register",
				"login":          "POST /api/auth/login",
				"me":             "GET /api/auth/me",
				"updateProfile":  "PUT /api/auth/me",
				"changePassword": "PUT /api/auth/change-password",
			},
			"stations": fiber.Map{
				"getAll":             "GET /api/stations",
				"getById":            "GET /api/stations/:id",
				"create":             "POST /api/stations",
				"update":             "PUT /api/stations/:id",
				"delete":             "DELETE /api/stations/:id",
				"updateAvailability": "PATCH /api/stations/:id/availability",
				"byStatus":           "GET /api/stations/status/:status",
				"byConnector":        "GET /api/stations/connector/:type",
				"stats":              "GET /api/stations/stats",
			},
		},
	})
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные хендлерами (panic, fiber.Error)
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if e, ok := err.(*fiber.Error); ok {
			if e.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Error(err))
			}
			return utils.SendError(c, errors.New("HTTP_ERROR", e.Message, e.Code))
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, err)
	}
}
