package services

import (
	. "bolavila/internal/models"
)

// TaskTemplate is one line of a default checklist. Ids are stable
// ordinals matching the template position.
type TaskTemplate struct {
	ID   string
	Name string
}

// Default checklists, seeded onto a mission exactly once, at creation.
var defaultTemplates = map[InspectionKind][]TaskTemplate{
	KindExit: {
		{ID: "1", Name: "Walk through unit and note damages"},
		{ID: "2", Name: "Collect keys and access cards"},
		{ID: "3", Name: "Verify unit inventory against list"},
		{ID: "4", Name: "Record electricity and water meter readings"},
		{ID: "5", Name: "Lock all windows and doors"},
	},
	KindCleaning: {
		{ID: "1", Name: "Strip and replace all linens"},
		{ID: "2", Name: "Clean and disinfect bathrooms"},
		{ID: "3", Name: "Clean kitchen surfaces and appliances"},
		{ID: "4", Name: "Vacuum and mop all floors"},
		{ID: "5", Name: "Restock guest supplies"},
		{ID: "6", Name: "Empty trash and replace liners"},
	},
	KindMonthly: {
		{ID: "1", Name: "Test smoke and carbon monoxide detectors"},
		{ID: "2", Name: "Replace air conditioner filters"},
		{ID: "3", Name: "Check plumbing for leaks"},
		{ID: "4", Name: "Run and inspect all appliances"},
		{ID: "5", Name: "Check for pest activity"},
		{ID: "6", Name: "Inspect exterior, balcony, and railings"},
	},
}

// DefaultTemplate returns the seed checklist for a kind as upsert input
// with every line not yet completed.
func DefaultTemplate(kind InspectionKind) []TaskInput {
	template := defaultTemplates[kind]
	tasks := make([]TaskInput, 0, len(template))
	for _, line := range template {
		tasks = append(tasks, TaskInput{
			ID:        line.ID,
			Name:      line.Name,
			Completed: false,
		})
	}
	return tasks
}
