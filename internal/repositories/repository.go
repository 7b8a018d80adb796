package repositories

import (
	"bolavila/config"
	"bolavila/internal/store"
)

type Repository struct {
	Booking    BookingRepository
	Inspection InspectionRepository
}

func New(client *store.Client, config config.Config) Repository {
	return Repository{
		Booking:    NewBookingRepository(client, config),
		Inspection: NewInspectionRepository(client),
	}
}
