package interfaces

import (
	"context"

	"gotours/internal/models"
)

type BookingRepository interface {
	Resource[models.Booking]

	// Explicit related-record expansion
	AttachDetails(ctx context.Context, bookings ...*models.Booking) error
}
