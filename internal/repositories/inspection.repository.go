package repositories

import (
	"context"
	"errors"

	. "bolavila/internal/models"
	"bolavila/internal/store"

	logger "github.com/Bparsons0904/goLogger"
)

// InspectionRepository is the data access shim over the mission store.
// Every task operation is scoped by both task id and inspection id: task
// ids are small ordinals reused across missions, and a write filtered by
// id alone could cross mission boundaries.
type InspectionRepository interface {
	ListByKind(ctx context.Context, kc KindConfig) ([]Inspection, error)
	ListAll(ctx context.Context, kc KindConfig) ([]Inspection, error)
	Get(ctx context.Context, kc KindConfig, id string) (*Inspection, error)
	Create(ctx context.Context, kc KindConfig, inspection Inspection) error
	UpdateFields(ctx context.Context, kc KindConfig, id string, fields map[string]any) error
	Delete(ctx context.Context, kc KindConfig, id string) error

	ListTasks(ctx context.Context, kc KindConfig, inspectionID string) ([]InspectionTask, error)
	InsertTask(ctx context.Context, kc KindConfig, task InspectionTask) error
	UpdateTask(ctx context.Context, kc KindConfig, taskID, inspectionID string, fields map[string]any) error
	DeleteTask(ctx context.Context, kc KindConfig, taskID, inspectionID string) error
	DeleteTasksByInspection(ctx context.Context, kc KindConfig, inspectionID string) error
}

type inspectionRepository struct {
	client *store.Client
	log    logger.Logger
}

func NewInspectionRepository(client *store.Client) InspectionRepository {
	return &inspectionRepository{
		client: client,
		log:    logger.New("inspectionRepository"),
	}
}

func (r *inspectionRepository) ListByKind(ctx context.Context, kc KindConfig) ([]Inspection, error) {
	log := r.log.Function("ListByKind")

	// Lightweight projection: the reconciler only diffs on key and
	// descriptive fields, never on status or tasks.
	query := store.NewQuery().
		Select("id", "inspection_key", "unit_number", "guest_name", "booking_id").
		Order("id.asc")

	var inspections []Inspection
	if err := r.client.Select(ctx, kc.Table, query, &inspections); err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			log.Warn("inspection table not provisioned, treating as empty", "kind", kc.Kind)
			return nil, nil
		}
		return nil, log.Err("failed to list inspections", err, "kind", kc.Kind)
	}

	return inspections, nil
}

// ListAll returns full mission rows, for the read API rather than the
// reconciler's diff.
func (r *inspectionRepository) ListAll(ctx context.Context, kc KindConfig) ([]Inspection, error) {
	log := r.log.Function("ListAll")

	query := store.NewQuery().Order("id.asc")

	var inspections []Inspection
	if err := r.client.Select(ctx, kc.Table, query, &inspections); err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			return nil, nil
		}
		return nil, log.Err("failed to list inspections", err, "kind", kc.Kind)
	}

	return inspections, nil
}

func (r *inspectionRepository) Get(ctx context.Context, kc KindConfig, id string) (*Inspection, error) {
	log := r.log.Function("Get")

	var inspections []Inspection
	query := store.NewQuery().Eq("id", id)
	if err := r.client.Select(ctx, kc.Table, query, &inspections); err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			return nil, nil
		}
		return nil, log.Err("failed to get inspection", err, "kind", kc.Kind, "id", id)
	}

	if len(inspections) == 0 {
		return nil, nil
	}
	return &inspections[0], nil
}

func (r *inspectionRepository) Create(ctx context.Context, kc KindConfig, inspection Inspection) error {
	row := map[string]any{
		"id":             inspection.ID,
		"inspection_key": inspection.InspectionKey,
		"unit_number":    inspection.UnitNumber,
		"guest_name":     inspection.GuestName,
		"status":         inspection.Status,
		"booking_id":     inspection.BookingID,
	}

	return r.client.Insert(ctx, kc.Table, row)
}

func (r *inspectionRepository) UpdateFields(
	ctx context.Context,
	kc KindConfig,
	id string,
	fields map[string]any,
) error {
	if len(fields) == 0 {
		return nil
	}

	query := store.NewQuery().Eq("id", id)
	_, err := r.client.Update(ctx, kc.Table, query, fields)
	return err
}

func (r *inspectionRepository) Delete(ctx context.Context, kc KindConfig, id string) error {
	query := store.NewQuery().Eq("id", id)
	_, err := r.client.Delete(ctx, kc.Table, query)
	return err
}

func (r *inspectionRepository) ListTasks(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
) ([]InspectionTask, error) {
	log := r.log.Function("ListTasks")

	query := store.NewQuery().
		Eq("inspection_id", inspectionID).
		Order("id.asc")

	var tasks []InspectionTask
	if err := r.client.Select(ctx, kc.TaskTable, query, &tasks); err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			log.Warn("task table not provisioned, treating as empty", "kind", kc.Kind)
			return nil, nil
		}
		return nil, log.Err("failed to list tasks", err,
			"kind", kc.Kind, "inspectionID", inspectionID)
	}

	return tasks, nil
}

func (r *inspectionRepository) InsertTask(ctx context.Context, kc KindConfig, task InspectionTask) error {
	row := map[string]any{
		"id":            task.ID,
		"inspection_id": task.InspectionID,
		"name":          task.Name,
		"completed":     task.Completed,
	}

	return r.client.Insert(ctx, kc.TaskTable, row)
}

func (r *inspectionRepository) UpdateTask(
	ctx context.Context,
	kc KindConfig,
	taskID, inspectionID string,
	fields map[string]any,
) error {
	query := store.NewQuery().
		Eq("id", taskID).
		Eq("inspection_id", inspectionID)

	_, err := r.client.Update(ctx, kc.TaskTable, query, fields)
	return err
}

func (r *inspectionRepository) DeleteTask(
	ctx context.Context,
	kc KindConfig,
	taskID, inspectionID string,
) error {
	query := store.NewQuery().
		Eq("id", taskID).
		Eq("inspection_id", inspectionID)

	_, err := r.client.Delete(ctx, kc.TaskTable, query)
	return err
}

func (r *inspectionRepository) DeleteTasksByInspection(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
) error {
	query := store.NewQuery().Eq("inspection_id", inspectionID)

	_, err := r.client.Delete(ctx, kc.TaskTable, query)
	if errors.Is(err, store.ErrScopeMismatch) {
		// A mission with no tasks is fine to delete.
		return nil
	}
	return err
}
