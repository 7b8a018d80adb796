package reconcileController

import (
	"context"
	"time"

	"bolavila/internal/cache"
	. "bolavila/internal/models"
	"bolavila/internal/services"
	"bolavila/pkg/metrics"

	logger "github.com/Bparsons0904/goLogger"
)

const reportTTL = 24 * time.Hour

type ReconcileController struct {
	reconciler *services.ReconcilerService
	cache      *cache.Cache
	metrics    *metrics.Metrics
	log        logger.Logger
}

type ReconcileControllerInterface interface {
	Run(ctx context.Context, kind InspectionKind, trigger string) (ReconcileReport, error)
	RunAll(ctx context.Context, trigger string) []ReconcileReport
	LastReport(ctx context.Context, kind InspectionKind) (ReconcileReport, bool, error)
}

func New(
	reconciler *services.ReconcilerService,
	cache *cache.Cache,
	metrics *metrics.Metrics,
) ReconcileControllerInterface {
	return &ReconcileController{
		reconciler: reconciler,
		cache:      cache,
		metrics:    metrics,
		log:        logger.New("reconcileController"),
	}
}

// Run executes one pass for one kind, then records metrics and the last
// report. Report bookkeeping is best-effort and never fails the pass.
func (c *ReconcileController) Run(
	ctx context.Context,
	kind InspectionKind,
	trigger string,
) (ReconcileReport, error) {
	log := c.log.Function("Run")

	report, err := c.reconciler.Reconcile(ctx, kind)
	if err != nil {
		return report, err
	}

	c.metrics.RecordPass(
		string(kind), trigger,
		len(report.Created), len(report.Updated), len(report.Deleted), len(report.Errors),
		report.FinishedAt.Sub(report.StartedAt),
	)

	if cacheErr := c.cache.SetJSON(ctx, reportKey(kind), report, reportTTL); cacheErr != nil {
		log.Warn("failed to cache reconcile report", "kind", kind, "error", cacheErr)
	}

	return report, nil
}

// RunAll executes one pass per kind; a kind that cannot even enumerate
// its world contributes a report carrying that error.
func (c *ReconcileController) RunAll(ctx context.Context, trigger string) []ReconcileReport {
	reports := make([]ReconcileReport, 0, len(AllKinds()))
	for _, kind := range AllKinds() {
		report, err := c.Run(ctx, kind, trigger)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
		reports = append(reports, report)
	}
	return reports
}

// LastReport returns the most recent cached report for a kind.
func (c *ReconcileController) LastReport(
	ctx context.Context,
	kind InspectionKind,
) (ReconcileReport, bool, error) {
	var report ReconcileReport
	found, err := c.cache.GetJSON(ctx, reportKey(kind), &report)
	if err != nil {
		return ReconcileReport{}, false, c.log.Function("LastReport").
			Err("failed to read cached report", err, "kind", kind)
	}
	return report, found, nil
}

func reportKey(kind InspectionKind) string {
	return "reconcile:last:" + string(kind)
}
