package handlers

import (
	"bolavila/internal/app"
	reconcileController "bolavila/internal/controllers/reconcile"
	"bolavila/internal/models"

	"github.com/gofiber/fiber/v2"

	logger "github.com/Bparsons0904/goLogger"
)

type ReconcileHandler struct {
	Handler
	reconcileController reconcileController.ReconcileControllerInterface
}

func NewReconcileHandler(app app.App, router fiber.Router) *ReconcileHandler {
	log := logger.New("handlers").File("reconcile_handler")
	return &ReconcileHandler{
		reconcileController: app.ReconcileController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *ReconcileHandler) Register() {
	reconcile := h.router.Group("/reconcile")

	reconcile.Post("/", h.RunAll)
	reconcile.Post("/:kind", h.Run)
	reconcile.Get("/:kind/report", h.LastReport)
}

func (h *ReconcileHandler) RunAll(c *fiber.Ctx) error {
	log := h.log.Function("RunAll")

	reports := h.reconcileController.RunAll(c.Context(), "api")
	log.Info("Reconciliation pass completed for all kinds", "kinds", len(reports))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"reports": reports,
	})
}

func (h *ReconcileHandler) Run(c *fiber.Ctx) error {
	log := h.log.Function("Run")

	kind, err := models.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	report, err := h.reconcileController.Run(c.Context(), kind, "api")
	if err != nil {
		_ = log.Err("Reconciliation pass failed", err, "kind", kind)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Reconciliation pass failed",
		})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}

func (h *ReconcileHandler) LastReport(c *fiber.Ctx) error {
	log := h.log.Function("LastReport")

	kind, err := models.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	report, found, err := h.reconcileController.LastReport(c.Context(), kind)
	if err != nil {
		_ = log.Err("Failed to load last report", err, "kind", kind)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load last report",
		})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No report recorded for this kind yet",
		})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
