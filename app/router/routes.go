// Package router wires the status server: middleware, routes and error handling
package router

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/amirphl/card-transactions-generator/app/dto"
	"github.com/amirphl/card-transactions-generator/app/handlers"
	"github.com/amirphl/card-transactions-generator/app/middleware"
	"github.com/amirphl/card-transactions-generator/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	Shutdown(ctx context.Context) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app           *fiber.App
	statusHandler handlers.StatusHandlerInterface
	logger        *log.Logger
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(statusHandler handlers.StatusHandlerInterface, logger *log.Logger) Router {
	r := &FiberRouter{statusHandler: statusHandler, logger: logger}
	r.app = fiber.New(fiber.Config{
		AppName:      "Card Transactions Generator",
		ErrorHandler: r.errorHandler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	return r
}

// SetupRoutes configures all status server routes
func (r *FiberRouter) SetupRoutes() {
	r.setupMiddleware()

	r.app.Get("/healthz", r.statusHandler.Health)
	r.app.Get("/status", r.statusHandler.Status)
	r.app.Get("/partitions/:date", r.statusHandler.Partition)
	r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	r.app.Use(r.notFoundHandler)
}

func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	r.app.Use(middleware.Metrics())

	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e any) {
			r.logger.Printf("status: panic on %s %s (request %s): %v", c.Method(), c.Path(), requestid.FromContext(c), e)
		},
	}))
}

// Start listens on address until Shutdown is called
func (r *FiberRouter) Start(address string) error {
	r.logger.Printf("status: server listening on %s", address)
	return r.app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true})
}

func (r *FiberRouter) Shutdown(ctx context.Context) error {
	return r.app.ShutdownWithContext(ctx)
}

func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse(
		"Route not found", "ROUTE_NOT_FOUND", requestid.FromContext(c), fiber.Map{"path": c.Path()},
	))
}

func (r *FiberRouter) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	r.logger.Printf("status: error %d: %v", code, err)

	return c.Status(code).JSON(dto.NewErrorResponse(
		"An internal server error occurred", "INTERNAL_ERROR", requestid.FromContext(c), fiber.Map{"timestamp": utils.UnixNow()},
	))
}

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
