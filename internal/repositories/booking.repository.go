package repositories

import (
	"context"
	"errors"

	"bolavila/config"
	. "bolavila/internal/models"
	"bolavila/internal/store"

	logger "github.com/Bparsons0904/goLogger"
)

const bookingTable = "orders"

type BookingRepository interface {
	// ListActive returns the bookings eligible for reconciliation, in the
	// store's natural order. A not-yet-provisioned booking table yields an
	// empty set, not an error.
	ListActive(ctx context.Context) ([]Booking, error)
}

type bookingRepository struct {
	client          *store.Client
	cancelledStatus string
	log             logger.Logger
}

func NewBookingRepository(client *store.Client, config config.Config) BookingRepository {
	return &bookingRepository{
		client:          client,
		cancelledStatus: config.StoreCancelledStatus,
		log:             logger.New("bookingRepository"),
	}
}

func (r *bookingRepository) ListActive(ctx context.Context) ([]Booking, error) {
	log := r.log.Function("ListActive")

	query := store.NewQuery().
		Select("id", "guest_name", "unit_number", "departure_date", "status").
		Order("id.asc")

	var bookings []Booking
	if err := r.client.Select(ctx, bookingTable, query, &bookings); err != nil {
		if errors.Is(err, store.ErrStoreUnavailable) {
			log.Warn("booking table not provisioned, treating as empty")
			return nil, nil
		}
		return nil, log.Err("failed to list bookings", err)
	}

	// Eligibility is applied here rather than in the store query so the
	// blank-field rules live in one testable place.
	active := make([]Booking, 0, len(bookings))
	for _, booking := range bookings {
		if booking.IsActive(r.cancelledStatus) {
			active = append(active, booking)
		}
	}

	return active, nil
}
