package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// InspectionKind identifies one of the three checklist flavors. The kinds
// are structurally identical; only their tables and key derivation differ.
type InspectionKind string

const (
	KindExit     InspectionKind = "exit"
	KindCleaning InspectionKind = "cleaning"
	KindMonthly  InspectionKind = "monthly"
)

// StatusNotYetDue is the workflow status seeded onto a brand-new mission.
// The reconciler never writes the status field after creation; workflow
// transitions belong to the people doing the inspections.
const StatusNotYetDue = "not yet due"

func AllKinds() []InspectionKind {
	return []InspectionKind{KindExit, KindCleaning, KindMonthly}
}

func ParseKind(s string) (InspectionKind, error) {
	switch InspectionKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindExit:
		return KindExit, nil
	case KindCleaning:
		return KindCleaning, nil
	case KindMonthly:
		return KindMonthly, nil
	default:
		return "", fmt.Errorf("unknown inspection kind: %q", s)
	}
}

// KindConfig carries everything kind-specific the engine needs: table
// names, the mission id prefix, and whether keys derive from departure
// dates or from the unit/month roster.
type KindConfig struct {
	Kind      InspectionKind
	Table     string
	TaskTable string
	IDPrefix  string
	DateKeyed bool
}

var kindConfigs = map[InspectionKind]KindConfig{
	KindExit: {
		Kind:      KindExit,
		Table:     "exit_inspections",
		TaskTable: "exit_inspection_tasks",
		IDPrefix:  "exit",
		DateKeyed: true,
	},
	KindCleaning: {
		Kind:      KindCleaning,
		Table:     "cleaning_inspections",
		TaskTable: "cleaning_inspection_tasks",
		IDPrefix:  "cleaning",
		DateKeyed: true,
	},
	KindMonthly: {
		Kind:      KindMonthly,
		Table:     "monthly_inspections",
		TaskTable: "monthly_inspection_tasks",
		IDPrefix:  "monthly",
		DateKeyed: false,
	},
}

func ConfigForKind(kind InspectionKind) KindConfig {
	return kindConfigs[kind]
}

// MissionID derives the deterministic row id for a key, which makes
// duplicate creation a conflict instead of a duplicate row.
func (kc KindConfig) MissionID(key string) string {
	return kc.IDPrefix + "-" + key
}

// Inspection is one mission: a checklist bound to a derived key.
type Inspection struct {
	ID            string           `json:"id"`
	InspectionKey string           `json:"inspection_key"`
	UnitNumber    string           `json:"unit_number"`
	GuestName     string           `json:"guest_name"`
	Status        string           `json:"status"`
	BookingID     string           `json:"booking_id"`
	Tasks         []InspectionTask `json:"tasks,omitempty"`
}

// DesiredInspection is the key deriver's output for one key: the mission
// that should exist and its merged descriptive fields.
type DesiredInspection struct {
	ID         string
	Key        string
	UnitNumber string
	GuestName  string
	BookingID  string
}

// InspectionTask is a checklist line item. Task ids are small ordinals
// reused across missions, so every write must be scoped by both id and
// inspection id.
type InspectionTask struct {
	ID           string `json:"id"`
	InspectionID string `json:"inspection_id"`
	Name         string `json:"name"`
	Completed    bool   `json:"completed"`
}

// UnmarshalJSON tolerates legacy rows where completed was stored as a
// string or left null.
func (t *InspectionTask) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string `json:"id"`
		InspectionID string `json:"inspection_id"`
		Name         string `json:"name"`
		Completed    any    `json:"completed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	t.ID = raw.ID
	t.InspectionID = raw.InspectionID
	t.Name = raw.Name
	t.Completed = NormalizeCompleted(raw.Completed)
	return nil
}

// TaskInput is a caller-supplied checklist line before normalization.
// Completed stays untyped until NormalizeCompleted because clients and
// legacy store rows encode it as bool, string, or null.
type TaskInput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed any    `json:"completed"`
}

// NormalizeCompleted collapses the ambiguous wire encodings of a
// completion flag into a strict boolean. Only a true boolean or the
// strings "true", "1", "yes", "on" (case-insensitive) count as done.
func NormalizeCompleted(v any) bool {
	switch value := v.(type) {
	case bool:
		return value
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "1", "yes", "on":
			return true
		}
		return false
	default:
		return false
	}
}

// ReconcileReport summarizes one reconciliation pass for one kind.
type ReconcileReport struct {
	Kind       InspectionKind `json:"kind"`
	PassID     string         `json:"passId"`
	Created    []string       `json:"created"`
	Updated    []string       `json:"updated"`
	Deleted    []string       `json:"deleted"`
	Errors     []string       `json:"errors"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// Converged reports whether the pass had nothing to do and nothing
// failed, i.e. actual already matched desired.
func (r ReconcileReport) Converged() bool {
	return len(r.Created) == 0 && len(r.Updated) == 0 &&
		len(r.Deleted) == 0 && len(r.Errors) == 0
}

// UpsertReport summarizes one checklist save. Tasks holds the canonical
// list to hand back to the caller; when every write failed it echoes the
// caller's input so data never appears to vanish.
type UpsertReport struct {
	Total  int              `json:"total"`
	Saved  int              `json:"saved"`
	Failed int              `json:"failed"`
	Tasks  []InspectionTask `json:"tasks"`
	Errors []string         `json:"errors,omitempty"`
}
