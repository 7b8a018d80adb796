package inspectionsController

import (
	"context"
	"errors"

	. "bolavila/internal/models"
	"bolavila/internal/repositories"
	"bolavila/internal/services"
	"bolavila/pkg/metrics"

	logger "github.com/Bparsons0904/goLogger"
)

var ErrInspectionNotFound = errors.New("inspection not found")

type InspectionController struct {
	repo      repositories.InspectionRepository
	checklist *services.ChecklistService
	metrics   *metrics.Metrics
	log       logger.Logger
}

type InspectionControllerInterface interface {
	List(ctx context.Context, kind InspectionKind) ([]Inspection, error)
	SaveChecklist(ctx context.Context, kind InspectionKind, inspectionID string, tasks []TaskInput) (UpsertReport, error)
}

func New(
	repo repositories.InspectionRepository,
	checklist *services.ChecklistService,
	metrics *metrics.Metrics,
) InspectionControllerInterface {
	return &InspectionController{
		repo:      repo,
		checklist: checklist,
		metrics:   metrics,
		log:       logger.New("inspectionController"),
	}
}

// List returns all missions of a kind with their tasks attached.
func (c *InspectionController) List(
	ctx context.Context,
	kind InspectionKind,
) ([]Inspection, error) {
	log := c.log.Function("List")

	kc := ConfigForKind(kind)
	inspections, err := c.repo.ListAll(ctx, kc)
	if err != nil {
		return nil, log.Err("failed to list inspections", err, "kind", kind)
	}

	for i := range inspections {
		tasks, err := c.repo.ListTasks(ctx, kc, inspections[i].ID)
		if err != nil {
			log.Warn("failed to load tasks for inspection",
				"kind", kind, "inspectionID", inspections[i].ID, "error", err)
			continue
		}
		inspections[i].Tasks = tasks
	}

	return inspections, nil
}

// SaveChecklist converges one mission's stored tasks toward the caller's
// edited list through the upsert engine.
func (c *InspectionController) SaveChecklist(
	ctx context.Context,
	kind InspectionKind,
	inspectionID string,
	tasks []TaskInput,
) (UpsertReport, error) {
	log := c.log.Function("SaveChecklist")

	kc := ConfigForKind(kind)
	inspection, err := c.repo.Get(ctx, kc, inspectionID)
	if err != nil {
		return UpsertReport{}, log.Err("failed to look up inspection", err,
			"kind", kind, "inspectionID", inspectionID)
	}
	if inspection == nil {
		return UpsertReport{}, ErrInspectionNotFound
	}

	report := c.checklist.UpsertTasks(ctx, kc, inspectionID, tasks)
	c.metrics.RecordChecklistSave(report.Saved, report.Failed)

	return report, nil
}
