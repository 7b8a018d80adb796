package services

import (
	"context"
	"errors"
	"fmt"

	. "bolavila/internal/models"
	"bolavila/internal/repositories"
	"bolavila/internal/store"

	logger "github.com/Bparsons0904/goLogger"
)

// ChecklistService converges a mission's stored task list toward a target
// list without ever deleting-then-recreating. Completion state is
// user-owned: the engine creates, renames, and removes orphans, but a
// completed flag is only ever written with the value the caller supplied.
type ChecklistService struct {
	repo repositories.InspectionRepository
	log  logger.Logger
}

func NewChecklistService(repo repositories.InspectionRepository) *ChecklistService {
	return &ChecklistService{
		repo: repo,
		log:  logger.New("checklistService"),
	}
}

// UpsertTasks writes every target task for one mission, each outcome
// tracked independently, then removes leftover stored tasks only if the
// whole save phase succeeded. A half-successful save must never also
// delete rows, or a transient failure could destroy user progress.
func (s *ChecklistService) UpsertTasks(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
	target []TaskInput,
) UpsertReport {
	log := s.log.Function("UpsertTasks")

	report := UpsertReport{Total: len(target)}

	existing, existingKnown := s.fetchExistingIDs(ctx, kc, inspectionID)

	savedTasks := make([]InspectionTask, 0, len(target))
	targetIDs := make(map[string]bool, len(target))

	for _, input := range target {
		task := InspectionTask{
			ID:           input.ID,
			InspectionID: inspectionID,
			Name:         input.Name,
			Completed:    NormalizeCompleted(input.Completed),
		}
		targetIDs[task.ID] = true

		if err := s.saveTask(ctx, kc, existing, task); err != nil {
			report.Failed++
			report.Errors = append(report.Errors,
				fmt.Sprintf("task %s: %v", task.ID, err))
			log.Warn("failed to save task",
				"kind", kc.Kind, "inspectionID", inspectionID, "taskID", task.ID, "error", err)
			continue
		}

		report.Saved++
		savedTasks = append(savedTasks, task)
	}

	// Orphan cleanup gate: only a fully successful save phase may delete
	// anything, and only when the stored id set was actually known.
	if report.Failed == 0 && existingKnown {
		s.removeOrphans(ctx, kc, inspectionID, existing, targetIDs, &report)
	} else if report.Failed > 0 {
		log.Warn("skipping orphan cleanup after partial failure",
			"kind", kc.Kind, "inspectionID", inspectionID, "failed", report.Failed)
	}

	report.Tasks = savedTasks
	if report.Saved == 0 && report.Total > 0 {
		// Best-effort echo: never hand back an empty list when nothing was
		// persisted, so the caller does not watch their data disappear.
		report.Tasks = normalizeInput(inspectionID, target)
	}

	return report
}

// fetchExistingIDs returns the stored task ids for a mission. The second
// return reports whether the set is trustworthy; when a listing fails the
// save phase still proceeds (inserts fall back to updates on conflict)
// but orphan cleanup is off the table.
func (s *ChecklistService) fetchExistingIDs(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
) (map[string]bool, bool) {
	log := s.log.Function("fetchExistingIDs")

	tasks, err := s.repo.ListTasks(ctx, kc, inspectionID)
	if err != nil {
		log.Warn("failed to list existing tasks, proceeding without orphan cleanup",
			"kind", kc.Kind, "inspectionID", inspectionID, "error", err)
		return map[string]bool{}, false
	}

	existing := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		existing[task.ID] = true
	}
	return existing, true
}

// saveTask writes one task scoped to (id, inspectionID): update when the
// id is already stored for this mission, insert otherwise. Conflicts and
// scope mismatches flip to the other path, which makes the write
// idempotent under concurrent passes and id reuse across missions.
func (s *ChecklistService) saveTask(
	ctx context.Context,
	kc KindConfig,
	existing map[string]bool,
	task InspectionTask,
) error {
	fields := map[string]any{
		"name":      task.Name,
		"completed": task.Completed,
	}

	if existing[task.ID] {
		err := s.repo.UpdateTask(ctx, kc, task.ID, task.InspectionID, fields)
		if errors.Is(err, store.ErrScopeMismatch) {
			// Snapshot raced a delete; the row is gone, insert it.
			return s.repo.InsertTask(ctx, kc, task)
		}
		return err
	}

	err := s.repo.InsertTask(ctx, kc, task)
	if errors.Is(err, store.ErrConflict) {
		err = s.repo.UpdateTask(ctx, kc, task.ID, task.InspectionID, fields)
		if errors.Is(err, store.ErrScopeMismatch) {
			// The conflicting row belongs to another mission and this one
			// has no row to update. Surface it; never widen the scope.
			return fmt.Errorf("task id %s conflicts outside mission %s: %w",
				task.ID, task.InspectionID, err)
		}
	}
	return err
}

func (s *ChecklistService) removeOrphans(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
	existing map[string]bool,
	targetIDs map[string]bool,
	report *UpsertReport,
) {
	log := s.log.Function("removeOrphans")

	for taskID := range existing {
		if targetIDs[taskID] {
			continue
		}

		err := s.repo.DeleteTask(ctx, kc, taskID, inspectionID)
		if err != nil && !errors.Is(err, store.ErrScopeMismatch) {
			report.Errors = append(report.Errors,
				fmt.Sprintf("orphan task %s: %v", taskID, err))
			log.Warn("failed to delete orphan task",
				"kind", kc.Kind, "inspectionID", inspectionID, "taskID", taskID, "error", err)
		}
	}
}

func normalizeInput(inspectionID string, target []TaskInput) []InspectionTask {
	tasks := make([]InspectionTask, 0, len(target))
	for _, input := range target {
		tasks = append(tasks, InspectionTask{
			ID:           input.ID,
			InspectionID: inspectionID,
			Name:         input.Name,
			Completed:    NormalizeCompleted(input.Completed),
		})
	}
	return tasks
}
