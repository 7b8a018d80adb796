package services

import (
	"bolavila/config"
	"bolavila/internal/repositories"
)

type Service struct {
	KeyDeriver *KeyDeriverService
	Checklist  *ChecklistService
	Reconciler *ReconcilerService
	Scheduler  *SchedulerService
	Notifier   Notifier
}

func New(repos repositories.Repository, config config.Config) Service {
	keyDeriverService := NewKeyDeriverService(config)
	checklistService := NewChecklistService(repos.Inspection)
	notifier := NewNotifier(config)
	reconcilerService := NewReconcilerService(
		repos,
		checklistService,
		keyDeriverService,
		notifier,
		config,
	)
	schedulerService := NewSchedulerService()

	return Service{
		KeyDeriver: keyDeriverService,
		Checklist:  checklistService,
		Reconciler: reconcilerService,
		Scheduler:  schedulerService,
		Notifier:   notifier,
	}
}
