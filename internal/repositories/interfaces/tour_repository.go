package interfaces

import (
	"context"

	"gotours/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TourRepository interface {
	Resource[models.Tour]

	GetBySlug(ctx context.Context, slug string) (*models.Tour, error)

	// Geospatial search
	FindWithin(ctx context.Context, lat, lng, radiusRadians float64) ([]*models.Tour, error)
	Distances(ctx context.Context, lat, lng, multiplier float64) ([]*models.TourDistance, error)

	// Aggregations
	Stats(ctx context.Context) ([]*models.TourStats, error)
	StatsByDifficulty(ctx context.Context) ([]*models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error)

	// Denormalized rating fields. Only the review aggregation writes these.
	UpdateRatingStats(ctx context.Context, tourID primitive.ObjectID, average float64, quantity int) error

	// Explicit related-record expansion
	AttachGuides(ctx context.Context, tours ...*models.Tour) error
}
