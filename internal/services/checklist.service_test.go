package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	. "bolavila/internal/models"
	"bolavila/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeInspectionRepo is an in-memory InspectionRepository with injectable
// failures, shared by the checklist and reconciler tests.
type fakeInspectionRepo struct {
	mu       sync.Mutex
	missions map[string]Inspection
	tasks    map[string]map[string]InspectionTask

	listByKindErr  error
	createErr      error
	updateErr      map[string]error
	listTasksErr   error
	insertTaskErr  map[string]error
	updateTaskErr  map[string]error
	deleteTaskErr  map[string]error
	hiddenFromList map[string]bool
	vanishOnUpdate map[string]bool
}

func newFakeInspectionRepo() *fakeInspectionRepo {
	return &fakeInspectionRepo{
		missions:       map[string]Inspection{},
		tasks:          map[string]map[string]InspectionTask{},
		updateErr:      map[string]error{},
		insertTaskErr:  map[string]error{},
		updateTaskErr:  map[string]error{},
		deleteTaskErr:  map[string]error{},
		hiddenFromList: map[string]bool{},
		vanishOnUpdate: map[string]bool{},
	}
}

func (f *fakeInspectionRepo) seedTask(inspectionID string, task InspectionTask) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tasks[inspectionID] == nil {
		f.tasks[inspectionID] = map[string]InspectionTask{}
	}
	task.InspectionID = inspectionID
	f.tasks[inspectionID][task.ID] = task
}

func (f *fakeInspectionRepo) taskList(inspectionID string) []InspectionTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	tasks := make([]InspectionTask, 0, len(f.tasks[inspectionID]))
	for _, task := range f.tasks[inspectionID] {
		tasks = append(tasks, task)
	}
	return tasks
}

func (f *fakeInspectionRepo) ListByKind(ctx context.Context, kc KindConfig) ([]Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listByKindErr != nil {
		return nil, f.listByKindErr
	}
	inspections := make([]Inspection, 0, len(f.missions))
	for id, inspection := range f.missions {
		if f.hiddenFromList[id] {
			continue
		}
		inspections = append(inspections, inspection)
	}
	return inspections, nil
}

func (f *fakeInspectionRepo) ListAll(ctx context.Context, kc KindConfig) ([]Inspection, error) {
	return f.ListByKind(ctx, kc)
}

func (f *fakeInspectionRepo) Get(ctx context.Context, kc KindConfig, id string) (*Inspection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inspection, ok := f.missions[id]
	if !ok {
		return nil, nil
	}
	return &inspection, nil
}

func (f *fakeInspectionRepo) Create(ctx context.Context, kc KindConfig, inspection Inspection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.missions[inspection.ID]; exists {
		return store.ErrConflict
	}
	f.missions[inspection.ID] = inspection
	return nil
}

func (f *fakeInspectionRepo) UpdateFields(
	ctx context.Context,
	kc KindConfig,
	id string,
	fields map[string]any,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErr[id]; err != nil {
		return err
	}
	inspection, ok := f.missions[id]
	if !ok {
		return store.ErrScopeMismatch
	}
	for field, value := range fields {
		switch field {
		case "unit_number":
			inspection.UnitNumber = value.(string)
		case "guest_name":
			inspection.GuestName = value.(string)
		case "booking_id":
			inspection.BookingID = value.(string)
		case "status":
			inspection.Status = value.(string)
		}
	}
	f.missions[id] = inspection
	return nil
}

func (f *fakeInspectionRepo) Delete(ctx context.Context, kc KindConfig, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.missions[id]; !ok {
		return store.ErrScopeMismatch
	}
	delete(f.missions, id)
	return nil
}

func (f *fakeInspectionRepo) ListTasks(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
) ([]InspectionTask, error) {
	if f.listTasksErr != nil {
		return nil, f.listTasksErr
	}
	return f.taskList(inspectionID), nil
}

func (f *fakeInspectionRepo) InsertTask(ctx context.Context, kc KindConfig, task InspectionTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.insertTaskErr[task.ID]; err != nil {
		return err
	}
	if _, exists := f.tasks[task.InspectionID][task.ID]; exists {
		return store.ErrConflict
	}
	if f.tasks[task.InspectionID] == nil {
		f.tasks[task.InspectionID] = map[string]InspectionTask{}
	}
	f.tasks[task.InspectionID][task.ID] = task
	return nil
}

func (f *fakeInspectionRepo) UpdateTask(
	ctx context.Context,
	kc KindConfig,
	taskID, inspectionID string,
	fields map[string]any,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateTaskErr[taskID]; err != nil {
		return err
	}
	if f.vanishOnUpdate[taskID] {
		delete(f.tasks[inspectionID], taskID)
		return store.ErrScopeMismatch
	}
	task, ok := f.tasks[inspectionID][taskID]
	if !ok {
		return store.ErrScopeMismatch
	}
	for field, value := range fields {
		switch field {
		case "name":
			task.Name = value.(string)
		case "completed":
			task.Completed = value.(bool)
		}
	}
	f.tasks[inspectionID][taskID] = task
	return nil
}

func (f *fakeInspectionRepo) DeleteTask(
	ctx context.Context,
	kc KindConfig,
	taskID, inspectionID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteTaskErr[taskID]; err != nil {
		return err
	}
	if _, ok := f.tasks[inspectionID][taskID]; !ok {
		return store.ErrScopeMismatch
	}
	delete(f.tasks[inspectionID], taskID)
	return nil
}

func (f *fakeInspectionRepo) DeleteTasksByInspection(
	ctx context.Context,
	kc KindConfig,
	inspectionID string,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tasks, inspectionID)
	return nil
}

func TestUpsertTasksInsertsNewChecklist(t *testing.T) {
	repo := newFakeInspectionRepo()
	service := NewChecklistService(repo)
	kc := ConfigForKind(KindExit)

	target := []TaskInput{
		{ID: "1", Name: "Collect keys", Completed: "true"},
		{ID: "2", Name: "Check inventory", Completed: false},
	}

	report := service.UpsertTasks(context.Background(), kc, "exit-2026-09-15", target)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Tasks, 2)

	stored := repo.taskList("exit-2026-09-15")
	require.Len(t, stored, 2)
	for _, task := range stored {
		assert.Equal(t, "exit-2026-09-15", task.InspectionID)
		if task.ID == "1" {
			assert.True(t, task.Completed, "string encoding normalizes to true")
		}
	}
}

func TestUpsertTasksUpdatesExisting(t *testing.T) {
	repo := newFakeInspectionRepo()
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "1", Name: "Old name", Completed: true})

	service := NewChecklistService(repo)
	kc := ConfigForKind(KindExit)

	report := service.UpsertTasks(context.Background(), kc, "exit-2026-09-15", []TaskInput{
		{ID: "1", Name: "New name", Completed: "1"},
	})

	assert.Equal(t, 1, report.Saved)
	stored := repo.taskList("exit-2026-09-15")
	require.Len(t, stored, 1)
	assert.Equal(t, "New name", stored[0].Name)
	assert.True(t, stored[0].Completed)
}

func TestUpsertTasksPartialFailureSkipsOrphanCleanup(t *testing.T) {
	repo := newFakeInspectionRepo()
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "1", Name: "Keep me"})
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "2", Name: "Fail me"})
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "3", Name: "Orphan"})
	repo.updateTaskErr["2"] = errors.New("write timeout")

	service := NewChecklistService(repo)
	kc := ConfigForKind(KindExit)

	report := service.UpsertTasks(context.Background(), kc, "exit-2026-09-15", []TaskInput{
		{ID: "1", Name: "Keep me", Completed: true},
		{ID: "2", Name: "Fail me", Completed: false},
	})

	assert.Equal(t, 1, report.Saved)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)

	// The orphan must survive a partially failed save.
	stored := repo.taskList("exit-2026-09-15")
	assert.Len(t, stored, 3)
}

func TestUpsertTasksRemovesOrphansAfterCleanSave(t *testing.T) {
	repo := newFakeInspectionRepo()
	repo.seedTask("cleaning-2026-09-15", InspectionTask{ID: "1", Name: "Keep"})
	repo.seedTask("cleaning-2026-09-15", InspectionTask{ID: "2", Name: "Keep too"})
	repo.seedTask("cleaning-2026-09-15", InspectionTask{ID: "3", Name: "Orphan"})

	service := NewChecklistService(repo)
	kc := ConfigForKind(KindCleaning)

	report := service.UpsertTasks(context.Background(), kc, "cleaning-2026-09-15", []TaskInput{
		{ID: "1", Name: "Keep", Completed: true},
		{ID: "2", Name: "Keep too", Completed: false},
	})

	assert.Equal(t, 2, report.Saved)
	assert.Equal(t, 0, report.Failed)

	stored := repo.taskList("cleaning-2026-09-15")
	require.Len(t, stored, 2)
	for _, task := range stored {
		assert.NotEqual(t, "3", task.ID)
	}
}

func TestUpsertTasksListFailureDisablesCleanupButSaves(t *testing.T) {
	repo := newFakeInspectionRepo()
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "9", Name: "Would-be orphan"})
	repo.listTasksErr = errors.New("store hiccup")

	service := NewChecklistService(repo)
	kc := ConfigForKind(KindExit)

	report := service.UpsertTasks(context.Background(), kc, "exit-2026-09-15", []TaskInput{
		{ID: "1", Name: "Fresh task", Completed: false},
	})

	assert.Equal(t, 1, report.Saved)

	// Without a trustworthy stored-id set, nothing gets deleted.
	stored := repo.taskList("exit-2026-09-15")
	assert.Len(t, stored, 2)
}

func TestUpsertTasksConflictFallsBackToUpdate(t *testing.T) {
	repo := newFakeInspectionRepo()
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "1", Name: "Raced in", Completed: true})
	repo.listTasksErr = errors.New("store hiccup")

	service := NewChecklistService(repo)
	kc := ConfigForKind(KindExit)

	// The listing failed, so the engine tries an insert, hits the conflict,
	// and flips to an update.
	report := service.UpsertTasks(context.Background(), kc, "exit-2026-09-15", []TaskInput{
		{ID: "1", Name: "Renamed", Completed: false},
	})

	assert.Equal(t, 1, report.Saved)
	stored := repo.taskList("exit-2026-09-15")
	require.Len(t, stored, 1)
	assert.Equal(t, "Renamed", stored[0].Name)
	assert.False(t, stored[0].Completed)
}

func TestUpsertTasksUpdateScopeMismatchFallsBackToInsert(t *testing.T) {
	repo := newFakeInspectionRepo()
	repo.seedTask("exit-2026-09-15", InspectionTask{ID: "1", Name: "Doomed"})
	repo.vanishOnUpdate["1"] = true

	service := NewChecklistService(repo)
	kc := ConfigForKind(KindExit)

	report := service.UpsertTasks(context.Background(), kc, "exit-2026-09-15", []TaskInput{
		{ID: "1", Name: "Reborn", Completed: true},
	})

	assert.Equal(t, 1, report.Saved)
	stored := repo.taskList("exit-2026-09-15")
	require.Len(t, stored, 1)
	assert.Equal(t, "Reborn", stored[0].Name)
	assert.True(t, stored[0].Completed)
}

func TestUpsertTasksAllFailedEchoesInput(t *testing.T) {
	repo := newFakeInspectionRepo()
	service := NewChecklistService(repo)
	kc := ConfigForKind(KindMonthly)

	target := []TaskInput{
		{ID: "1", Name: "Check detectors", Completed: "yes"},
		{ID: "2", Name: "Replace filters", Completed: false},
	}
	for _, input := range target {
		repo.insertTaskErr[input.ID] = fmt.Errorf("insert %s: store down", input.ID)
	}

	report := service.UpsertTasks(context.Background(), kc, "monthly-V1-2026-09", target)

	assert.Equal(t, 0, report.Saved)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Tasks, 2, "caller input is echoed back when nothing persisted")
	assert.Equal(t, "Check detectors", report.Tasks[0].Name)
	assert.True(t, report.Tasks[0].Completed)
	assert.Equal(t, "monthly-V1-2026-09", report.Tasks[0].InspectionID)
	assert.Empty(t, repo.taskList("monthly-V1-2026-09"))
}
