package jobs

import (
	"context"

	reconcileController "bolavila/internal/controllers/reconcile"
	"bolavila/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// ReconcileJob runs a reconciliation pass for every inspection kind on a
// schedule. Overlap with on-demand API passes is safe: passes work from
// their own snapshots and every operation is idempotent.
type ReconcileJob struct {
	controller reconcileController.ReconcileControllerInterface
	log        logger.Logger
	schedule   services.Schedule
}

func NewReconcileJob(
	controller reconcileController.ReconcileControllerInterface,
	schedule services.Schedule,
) *ReconcileJob {
	log := logger.New("reconcileJob")
	log.Info("Creating reconcile job", "schedule", schedule)

	return &ReconcileJob{
		controller: controller,
		log:        log,
		schedule:   schedule,
	}
}

func (j *ReconcileJob) Name() string {
	return "InspectionReconciliation"
}

func (j *ReconcileJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *ReconcileJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	reports := j.controller.RunAll(ctx, "scheduled")
	for _, report := range reports {
		if len(report.Errors) > 0 {
			log.Warn("pass finished with errors",
				"kind", report.Kind, "errors", len(report.Errors))
			continue
		}
		log.Info("pass finished",
			"kind", report.Kind,
			"created", len(report.Created),
			"updated", len(report.Updated),
			"deleted", len(report.Deleted),
		)
	}

	return nil
}
