package services

import (
	"strings"
	"time"

	"bolavila/config"
	. "bolavila/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// KeyDeriverService maps the live booking set (or the unit roster, for
// monthly missions) to the set of missions that should exist. It is pure
// apart from logging: no store access, no mutation of its inputs.
type KeyDeriverService struct {
	cancelledStatus string
	monthlyUnits    []string
	log             logger.Logger
}

func NewKeyDeriverService(config config.Config) *KeyDeriverService {
	return &KeyDeriverService{
		cancelledStatus: config.StoreCancelledStatus,
		monthlyUnits:    config.MonthlyUnitRoster(),
		log:             logger.New("keyDeriver"),
	}
}

// Derive returns the desired mission per key for one kind. Bookings are
// consulted only for date-keyed kinds; the monthly kind derives from the
// roster and the clock.
func (s *KeyDeriverService) Derive(
	kc KindConfig,
	bookings []Booking,
	now time.Time,
) map[string]DesiredInspection {
	if kc.DateKeyed {
		return s.deriveDateKeys(kc, bookings)
	}
	return s.deriveUnitMonthKeys(kc, now)
}

// deriveDateKeys groups active bookings by departure date. Descriptive
// fields come from the first booking of a group; guest names merge across
// the whole group, de-duplicated, in order of first appearance.
func (s *KeyDeriverService) deriveDateKeys(
	kc KindConfig,
	bookings []Booking,
) map[string]DesiredInspection {
	log := s.log.Function("deriveDateKeys")

	desired := make(map[string]DesiredInspection)
	guestsSeen := make(map[string]map[string]bool)

	for _, booking := range bookings {
		if !booking.IsActive(s.cancelledStatus) {
			continue
		}

		key := strings.TrimSpace(booking.DepartureDate)
		if key == "" {
			// No departure date means no key to reconcile against.
			continue
		}

		guestName := strings.TrimSpace(booking.GuestName)

		existing, ok := desired[key]
		if !ok {
			desired[key] = DesiredInspection{
				ID:         kc.MissionID(key),
				Key:        key,
				UnitNumber: strings.TrimSpace(booking.UnitNumber),
				GuestName:  guestName,
				BookingID:  booking.ID,
			}
			guestsSeen[key] = map[string]bool{guestName: true}
			continue
		}

		if !guestsSeen[key][guestName] {
			existing.GuestName += ", " + guestName
			guestsSeen[key][guestName] = true
			desired[key] = existing
		}
	}

	log.Debug("Derived date keys", "kind", kc.Kind, "keys", len(desired))
	return desired
}

// deriveUnitMonthKeys produces one mission per roster unit for the
// current and the next calendar month, independent of bookings.
func (s *KeyDeriverService) deriveUnitMonthKeys(
	kc KindConfig,
	now time.Time,
) map[string]DesiredInspection {
	log := s.log.Function("deriveUnitMonthKeys")

	if len(s.monthlyUnits) == 0 {
		log.Warn("monthly unit roster is empty, no monthly missions will exist")
		return map[string]DesiredInspection{}
	}

	// Anchor to the first of the month so month arithmetic never skips
	// short months.
	base := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	current := base.Format("2006-01")
	next := base.AddDate(0, 1, 0).Format("2006-01")

	desired := make(map[string]DesiredInspection, len(s.monthlyUnits)*2)
	for _, unit := range s.monthlyUnits {
		for _, month := range []string{current, next} {
			key := unit + "-" + month
			desired[key] = DesiredInspection{
				ID:         kc.MissionID(key),
				Key:        key,
				UnitNumber: unit,
			}
		}
	}

	log.Debug("Derived unit-month keys", "kind", kc.Kind, "keys", len(desired))
	return desired
}
