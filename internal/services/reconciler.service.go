package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bolavila/config"
	. "bolavila/internal/models"
	"bolavila/internal/repositories"
	"bolavila/internal/store"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// ReconcilerService converges one inspection kind's mission set to the
// key deriver's output. Every pass works from its own fetched snapshot,
// per-key operations are independent and individually idempotent, and a
// failed operation for one key never blocks any other key.
type ReconcilerService struct {
	bookingRepo    repositories.BookingRepository
	inspectionRepo repositories.InspectionRepository
	checklist      *ChecklistService
	deriver        *KeyDeriverService
	notifier       Notifier
	workers        int
	log            logger.Logger
}

func NewReconcilerService(
	repos repositories.Repository,
	checklist *ChecklistService,
	deriver *KeyDeriverService,
	notifier Notifier,
	config config.Config,
) *ReconcilerService {
	return &ReconcilerService{
		bookingRepo:    repos.Booking,
		inspectionRepo: repos.Inspection,
		checklist:      checklist,
		deriver:        deriver,
		notifier:       notifier,
		workers:        config.ReconcileWorkers,
		log:            logger.New("reconciler"),
	}
}

// Reconcile runs one pass for one kind. Only a failure to enumerate the
// desired or existing mission sets returns an error; everything else is
// caught per key and aggregated into the report.
func (s *ReconcilerService) Reconcile(
	ctx context.Context,
	kind InspectionKind,
) (ReconcileReport, error) {
	log := s.log.Function("Reconcile")

	report := ReconcileReport{
		Kind:      kind,
		PassID:    uuid.New().String(),
		Created:   []string{},
		Updated:   []string{},
		Deleted:   []string{},
		Errors:    []string{},
		StartedAt: time.Now().UTC(),
	}
	log = log.With("kind", kind, "passID", report.PassID)

	kc := ConfigForKind(kind)
	if kc.Kind == "" {
		return report, log.ErrMsg("unknown inspection kind")
	}

	var bookings []Booking
	if kc.DateKeyed {
		var err error
		bookings, err = s.bookingRepo.ListActive(ctx)
		if err != nil {
			return report, log.Err("failed to enumerate bookings", err)
		}
	}

	desired := s.deriver.Derive(kc, bookings, time.Now())

	existing, err := s.inspectionRepo.ListByKind(ctx, kc)
	if err != nil {
		return report, log.Err("failed to enumerate existing missions", err)
	}

	existingByKey := make(map[string]Inspection, len(existing))
	for _, inspection := range existing {
		existingByKey[inspection.InspectionKey] = inspection
	}

	// Keys are independent, so per-key work runs on a bounded pool. The
	// report is the only shared state.
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.workers)
	)
	run := func(fn func()) {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			fn()
		}()
	}

	for key, want := range desired {
		stored, exists := existingByKey[key]
		want := want
		if exists {
			run(func() { s.updateMission(ctx, kc, stored, want, &report, &mu) })
		} else {
			run(func() { s.createMission(ctx, kc, want, &report, &mu) })
		}
	}

	for key, stored := range existingByKey {
		if _, wanted := desired[key]; wanted {
			continue
		}
		stored := stored
		run(func() { s.deleteMission(ctx, kc, stored, &report, &mu) })
	}

	wg.Wait()
	report.FinishedAt = time.Now().UTC()

	log.Info("Reconciliation pass finished",
		"created", len(report.Created),
		"updated", len(report.Updated),
		"deleted", len(report.Deleted),
		"errors", len(report.Errors),
	)

	return report, nil
}

// ReconcileAll runs one pass per kind. A kind whose enumeration fails
// contributes a report carrying that error; the remaining kinds still
// run.
func (s *ReconcilerService) ReconcileAll(ctx context.Context) []ReconcileReport {
	log := s.log.Function("ReconcileAll")

	reports := make([]ReconcileReport, 0, len(AllKinds()))
	for _, kind := range AllKinds() {
		report, err := s.Reconcile(ctx, kind)
		if err != nil {
			report.Errors = append(report.Errors, err.Error())
			log.Warn("reconciliation pass aborted", "kind", kind, "error", err)
		}
		reports = append(reports, report)
	}
	return reports
}

// createMission inserts a mission for a key that has none and seeds its
// checklist from the default template. A create conflict means another
// pass got there first; that pass seeded, so this one only refreshes the
// descriptive fields.
func (s *ReconcilerService) createMission(
	ctx context.Context,
	kc KindConfig,
	want DesiredInspection,
	report *ReconcileReport,
	mu *sync.Mutex,
) {
	log := s.log.Function("createMission")

	inspection := Inspection{
		ID:            want.ID,
		InspectionKey: want.Key,
		UnitNumber:    want.UnitNumber,
		GuestName:     want.GuestName,
		Status:        StatusNotYetDue,
		BookingID:     want.BookingID,
	}

	err := s.inspectionRepo.Create(ctx, kc, inspection)
	if errors.Is(err, store.ErrConflict) {
		fields := map[string]any{
			"unit_number": want.UnitNumber,
			"guest_name":  want.GuestName,
			"booking_id":  want.BookingID,
		}
		if updateErr := s.inspectionRepo.UpdateFields(ctx, kc, want.ID, fields); updateErr != nil {
			s.recordError(report, mu, fmt.Sprintf("update %s after conflict: %v", want.ID, updateErr))
			return
		}
		mu.Lock()
		report.Updated = append(report.Updated, want.ID)
		mu.Unlock()
		return
	}
	if err != nil {
		s.recordError(report, mu, fmt.Sprintf("create %s: %v", want.ID, err))
		return
	}

	seedReport := s.checklist.UpsertTasks(ctx, kc, want.ID, DefaultTemplate(kc.Kind))
	if seedReport.Failed > 0 {
		mu.Lock()
		report.Errors = append(report.Errors, seedReport.Errors...)
		mu.Unlock()
		log.Warn("seeding left unsaved tasks, next pass will not retry them",
			"kind", kc.Kind, "inspectionID", want.ID, "failed", seedReport.Failed)
	}

	mu.Lock()
	report.Created = append(report.Created, want.ID)
	mu.Unlock()

	s.notifier.InspectionCreated(kc.Kind, want.ID, want.Key, want.UnitNumber)
}

// updateMission patches only the descriptive fields that drifted. Status
// and tasks are never touched here.
func (s *ReconcilerService) updateMission(
	ctx context.Context,
	kc KindConfig,
	stored Inspection,
	want DesiredInspection,
	report *ReconcileReport,
	mu *sync.Mutex,
) {
	fields := map[string]any{}
	if stored.UnitNumber != want.UnitNumber {
		fields["unit_number"] = want.UnitNumber
	}
	if stored.GuestName != want.GuestName {
		fields["guest_name"] = want.GuestName
	}
	if stored.BookingID != want.BookingID {
		fields["booking_id"] = want.BookingID
	}

	if len(fields) == 0 {
		return
	}

	if err := s.inspectionRepo.UpdateFields(ctx, kc, stored.ID, fields); err != nil {
		s.recordError(report, mu, fmt.Sprintf("update %s: %v", stored.ID, err))
		return
	}

	mu.Lock()
	report.Updated = append(report.Updated, stored.ID)
	mu.Unlock()
}

// deleteMission removes a mission whose key is no longer desired, tasks
// first so a failure never strands task rows without their mission.
func (s *ReconcilerService) deleteMission(
	ctx context.Context,
	kc KindConfig,
	stored Inspection,
	report *ReconcileReport,
	mu *sync.Mutex,
) {
	if err := s.inspectionRepo.DeleteTasksByInspection(ctx, kc, stored.ID); err != nil {
		s.recordError(report, mu, fmt.Sprintf("delete tasks of %s: %v", stored.ID, err))
		return
	}

	err := s.inspectionRepo.Delete(ctx, kc, stored.ID)
	if err != nil && !errors.Is(err, store.ErrScopeMismatch) {
		s.recordError(report, mu, fmt.Sprintf("delete %s: %v", stored.ID, err))
		return
	}

	mu.Lock()
	report.Deleted = append(report.Deleted, stored.ID)
	mu.Unlock()
}

func (s *ReconcilerService) recordError(report *ReconcileReport, mu *sync.Mutex, msg string) {
	mu.Lock()
	report.Errors = append(report.Errors, msg)
	mu.Unlock()
}
