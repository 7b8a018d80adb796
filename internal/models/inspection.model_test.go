package models

import (
	"encoding/json"
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    InspectionKind
		wantErr bool
	}{
		{"exit", KindExit, false},
		{"cleaning", KindCleaning, false},
		{"monthly", KindMonthly, false},
		{"  Exit ", KindExit, false},
		{"MONTHLY", KindMonthly, false},
		{"weekly", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMissionID(t *testing.T) {
	tests := []struct {
		kind InspectionKind
		key  string
		want string
	}{
		{KindExit, "2026-09-15", "exit-2026-09-15"},
		{KindCleaning, "2026-09-15", "cleaning-2026-09-15"},
		{KindMonthly, "V3-2026-09", "monthly-V3-2026-09"},
	}

	for _, tt := range tests {
		kc := ConfigForKind(tt.kind)
		if got := kc.MissionID(tt.key); got != tt.want {
			t.Errorf("MissionID(%q) for %s = %q, want %q", tt.key, tt.kind, got, tt.want)
		}
	}
}

func TestKindConfigTables(t *testing.T) {
	for _, kind := range AllKinds() {
		kc := ConfigForKind(kind)
		if kc.Table == "" || kc.TaskTable == "" || kc.IDPrefix == "" {
			t.Errorf("kind %s has incomplete config: %+v", kind, kc)
		}
	}

	if !ConfigForKind(KindExit).DateKeyed {
		t.Error("exit inspections should be date keyed")
	}
	if ConfigForKind(KindMonthly).DateKeyed {
		t.Error("monthly inspections should not be date keyed")
	}
}

func TestNormalizeCompleted(t *testing.T) {
	tests := []struct {
		input any
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"on", true},
		{" true ", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"done", false},
		{"", false},
		{nil, false},
		{1, false},
		{1.0, false},
	}

	for _, tt := range tests {
		if got := NormalizeCompleted(tt.input); got != tt.want {
			t.Errorf("NormalizeCompleted(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInspectionTaskUnmarshalLegacyCompleted(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"boolean true", `{"id":"1","inspection_id":"exit-2026-09-15","name":"Collect keys","completed":true}`, true},
		{"string true", `{"id":"1","inspection_id":"exit-2026-09-15","name":"Collect keys","completed":"true"}`, true},
		{"string one", `{"id":"1","inspection_id":"exit-2026-09-15","name":"Collect keys","completed":"1"}`, true},
		{"string false", `{"id":"1","inspection_id":"exit-2026-09-15","name":"Collect keys","completed":"false"}`, false},
		{"null", `{"id":"1","inspection_id":"exit-2026-09-15","name":"Collect keys","completed":null}`, false},
		{"missing", `{"id":"1","inspection_id":"exit-2026-09-15","name":"Collect keys"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var task InspectionTask
			if err := json.Unmarshal([]byte(tt.body), &task); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.Completed != tt.want {
				t.Errorf("completed = %v, want %v", task.Completed, tt.want)
			}
			if task.ID != "1" || task.InspectionID != "exit-2026-09-15" {
				t.Errorf("identity fields lost: %+v", task)
			}
		})
	}
}

func TestBookingIsActive(t *testing.T) {
	tests := []struct {
		name    string
		booking Booking
		want    bool
	}{
		{"active", Booking{ID: "b1", GuestName: "Alice", UnitNumber: "V1", Status: "confirmed"}, true},
		{"cancelled", Booking{ID: "b1", GuestName: "Alice", UnitNumber: "V1", Status: "cancelled"}, false},
		{"cancelled uppercase", Booking{ID: "b1", GuestName: "Alice", UnitNumber: "V1", Status: "CANCELLED"}, false},
		{"cancelled padded", Booking{ID: "b1", GuestName: "Alice", UnitNumber: "V1", Status: " Cancelled "}, false},
		{"blank guest", Booking{ID: "b1", GuestName: "  ", UnitNumber: "V1", Status: "confirmed"}, false},
		{"blank unit", Booking{ID: "b1", GuestName: "Alice", UnitNumber: "", Status: "confirmed"}, false},
		{"empty status", Booking{ID: "b1", GuestName: "Alice", UnitNumber: "V1", Status: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.booking.IsActive("cancelled"); got != tt.want {
				t.Errorf("IsActive = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcileReportConverged(t *testing.T) {
	report := ReconcileReport{Created: []string{}, Updated: []string{}, Deleted: []string{}, Errors: []string{}}
	if !report.Converged() {
		t.Error("empty report should be converged")
	}

	report.Errors = append(report.Errors, "create exit-2026-09-15: boom")
	if report.Converged() {
		t.Error("report with errors should not be converged")
	}
}
