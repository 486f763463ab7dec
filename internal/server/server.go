package server

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"flipkart-recommender/internal/bootstrap"
	"flipkart-recommender/internal/config"
	"flipkart-recommender/internal/dto"
	"flipkart-recommender/internal/metrics"
	"flipkart-recommender/internal/pkg/serverutils"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024, // 1MB, chat payloads are tiny
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Use(metrics.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware(container.Logger))

	// Routes
	app.Get("/metrics", metrics.Handler())
	container.ChatController.RegisterRoutes(app)

	// Everything else is a 404 in the public envelope
	app.Use(func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error:  "Endpoint not found",
			Status: "error",
		})
	})

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}
