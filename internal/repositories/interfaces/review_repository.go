package interfaces

import (
	"context"

	"gotours/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepository interface {
	Resource[models.Review]

	FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]*models.Review, error)

	// AggregateTourRatings computes count and mean rating over the tour's
	// current reviews. A tour with no reviews yields (0, 0, nil).
	AggregateTourRatings(ctx context.Context, tourID primitive.ObjectID) (quantity int, average float64, err error)

	// Explicit related-record expansion
	AttachUsers(ctx context.Context, reviews ...*models.Review) error
}
