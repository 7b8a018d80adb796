package services

import (
	"testing"
	"time"

	"bolavila/config"
	. "bolavila/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeriver(units string) *KeyDeriverService {
	return NewKeyDeriverService(config.Config{
		StoreCancelledStatus: "cancelled",
		MonthlyUnits:         units,
	})
}

func TestDeriveGroupsBookingsByDepartureDate(t *testing.T) {
	deriver := newTestDeriver("")
	kc := ConfigForKind(KindExit)

	bookings := []Booking{
		{ID: "b1", GuestName: "Alice", UnitNumber: "V1", DepartureDate: "2026-09-15", Status: "confirmed"},
		{ID: "b2", GuestName: "Bob", UnitNumber: "V2", DepartureDate: "2026-09-15", Status: "confirmed"},
		{ID: "b3", GuestName: "Carol", UnitNumber: "V3", DepartureDate: "2026-09-20", Status: "confirmed"},
	}

	desired := deriver.Derive(kc, bookings, time.Now())
	require.Len(t, desired, 2)

	sep15 := desired["2026-09-15"]
	assert.Equal(t, "exit-2026-09-15", sep15.ID)
	assert.Equal(t, "Alice, Bob", sep15.GuestName)
	assert.Equal(t, "V1", sep15.UnitNumber, "first booking supplies the descriptive fields")
	assert.Equal(t, "b1", sep15.BookingID)

	sep20 := desired["2026-09-20"]
	assert.Equal(t, "Carol", sep20.GuestName)
	assert.Equal(t, "b3", sep20.BookingID)
}

func TestDeriveDeduplicatesGuestNames(t *testing.T) {
	deriver := newTestDeriver("")
	kc := ConfigForKind(KindCleaning)

	bookings := []Booking{
		{ID: "b1", GuestName: "Alice", UnitNumber: "V1", DepartureDate: "2026-09-15", Status: "confirmed"},
		{ID: "b2", GuestName: "Alice", UnitNumber: "V1", DepartureDate: "2026-09-15", Status: "confirmed"},
		{ID: "b3", GuestName: "Bob", UnitNumber: "V2", DepartureDate: "2026-09-15", Status: "confirmed"},
	}

	desired := deriver.Derive(kc, bookings, time.Now())
	require.Len(t, desired, 1)
	assert.Equal(t, "Alice, Bob", desired["2026-09-15"].GuestName)
}

func TestDeriveSkipsIneligibleBookings(t *testing.T) {
	deriver := newTestDeriver("")
	kc := ConfigForKind(KindExit)

	bookings := []Booking{
		{ID: "b1", GuestName: "Alice", UnitNumber: "V1", DepartureDate: "2026-09-15", Status: "Cancelled"},
		{ID: "b2", GuestName: "", UnitNumber: "V2", DepartureDate: "2026-09-15", Status: "confirmed"},
		{ID: "b3", GuestName: "Carol", UnitNumber: "", DepartureDate: "2026-09-15", Status: "confirmed"},
		{ID: "b4", GuestName: "Dave", UnitNumber: "V4", DepartureDate: "  ", Status: "confirmed"},
	}

	desired := deriver.Derive(kc, bookings, time.Now())
	assert.Empty(t, desired, "cancelled, blank-field, and dateless bookings derive no keys")
}

func TestDeriveMonthlyRoster(t *testing.T) {
	deriver := newTestDeriver("V1, V2")
	kc := ConfigForKind(KindMonthly)

	now := time.Date(2026, time.September, 10, 12, 0, 0, 0, time.UTC)
	desired := deriver.Derive(kc, nil, now)

	require.Len(t, desired, 4, "two units over current plus next month")
	for _, key := range []string{"V1-2026-09", "V1-2026-10", "V2-2026-09", "V2-2026-10"} {
		want, ok := desired[key]
		require.True(t, ok, "missing key %s", key)
		assert.Equal(t, "monthly-"+key, want.ID)
	}

	assert.Equal(t, "V1", desired["V1-2026-10"].UnitNumber)
	assert.Empty(t, desired["V1-2026-10"].GuestName)
}

func TestDeriveMonthlyRolloverOnShortMonths(t *testing.T) {
	deriver := newTestDeriver("V1")
	kc := ConfigForKind(KindMonthly)

	// January 31st must still yield February, not March.
	now := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)
	desired := deriver.Derive(kc, nil, now)

	require.Len(t, desired, 2)
	assert.Contains(t, desired, "V1-2026-01")
	assert.Contains(t, desired, "V1-2026-02")
}

func TestDeriveMonthlyYearRollover(t *testing.T) {
	deriver := newTestDeriver("V1")
	kc := ConfigForKind(KindMonthly)

	now := time.Date(2026, time.December, 5, 0, 0, 0, 0, time.UTC)
	desired := deriver.Derive(kc, nil, now)

	assert.Contains(t, desired, "V1-2026-12")
	assert.Contains(t, desired, "V1-2027-01")
}

func TestDeriveMonthlyEmptyRoster(t *testing.T) {
	deriver := newTestDeriver("")
	kc := ConfigForKind(KindMonthly)

	desired := deriver.Derive(kc, nil, time.Now())
	assert.Empty(t, desired)
}
