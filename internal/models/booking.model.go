package models

import "strings"

// Booking is a row in the external booking store. The reconciliation
// engine only ever reads bookings.
type Booking struct {
	ID            string `json:"id"`
	GuestName     string `json:"guest_name"`
	UnitNumber    string `json:"unit_number"`
	DepartureDate string `json:"departure_date"`
	Status        string `json:"status"`
}

// IsActive reports whether a booking participates in reconciliation. A
// cancelled booking, or one with a blank unit number or guest name, is
// invisible to the engine so it can never produce a mission with blank
// identifying fields. Status matching is case-insensitive because the
// store carries free-form status strings.
func (b Booking) IsActive(cancelledStatus string) bool {
	if strings.EqualFold(strings.TrimSpace(b.Status), cancelledStatus) {
		return false
	}
	if strings.TrimSpace(b.UnitNumber) == "" {
		return false
	}
	if strings.TrimSpace(b.GuestName) == "" {
		return false
	}
	return true
}
