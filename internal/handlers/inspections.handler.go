package handlers

import (
	"errors"

	"bolavila/internal/app"
	inspectionsController "bolavila/internal/controllers/inspections"
	"bolavila/internal/models"

	"github.com/gofiber/fiber/v2"

	logger "github.com/Bparsons0904/goLogger"
)

type InspectionHandler struct {
	Handler
	inspectionController inspectionsController.InspectionControllerInterface
}

type saveChecklistRequest struct {
	Tasks []models.TaskInput `json:"tasks"`
}

func NewInspectionHandler(app app.App, router fiber.Router) *InspectionHandler {
	log := logger.New("handlers").File("inspections_handler")
	return &InspectionHandler{
		inspectionController: app.InspectionController,
		Handler: Handler{
			log:    log,
			router: router,
		},
	}
}

func (h *InspectionHandler) Register() {
	inspections := h.router.Group("/inspections")

	inspections.Get("/:kind", h.List)
	inspections.Put("/:kind/:id/tasks", h.SaveChecklist)
}

func (h *InspectionHandler) List(c *fiber.Ctx) error {
	log := h.log.Function("List")

	kind, err := models.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	inspections, err := h.inspectionController.List(c.Context(), kind)
	if err != nil {
		_ = log.Err("Failed to list inspections", err, "kind", kind)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list inspections",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"inspections": inspections,
	})
}

func (h *InspectionHandler) SaveChecklist(c *fiber.Ctx) error {
	log := h.log.Function("SaveChecklist")

	kind, err := models.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	inspectionID := c.Params("id")
	if inspectionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Inspection id is required",
		})
	}

	var req saveChecklistRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Failed to parse checklist body", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	report, err := h.inspectionController.SaveChecklist(c.Context(), kind, inspectionID, req.Tasks)
	if err != nil {
		if errors.Is(err, inspectionsController.ErrInspectionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Inspection not found",
			})
		}
		_ = log.Err("Failed to save checklist", err, "kind", kind, "inspectionID", inspectionID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save checklist",
		})
	}

	return c.Status(fiber.StatusOK).JSON(report)
}
