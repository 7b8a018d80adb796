package handlers

import (
	"bolavila/internal/app"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/Bparsons0904/goLogger"
)

type Handler struct {
	log    logger.Logger
	router fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewReconcileHandler(*app, api).Register()
	NewInspectionHandler(*app, api).Register()

	return nil
}
