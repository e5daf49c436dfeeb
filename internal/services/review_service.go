package services

import (
	"context"

	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewService writes reviews and keeps the denormalized rating fields on
// the parent tour in sync. It is the only code path that updates
// ratings_average and ratings_quantity.
type ReviewService interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type reviewService struct {
	reviewRepo interfaces.ReviewRepository
	tourRepo   interfaces.TourRepository
	logger     *logger.Logger
}

func NewReviewService(reviewRepo interfaces.ReviewRepository, tourRepo interfaces.TourRepository, log *logger.Logger) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		tourRepo:   tourRepo,
		logger:     log,
	}
}

func (s *reviewService) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.PrepareForCreate()
	if err := review.Validate(); err != nil {
		return nil, err
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	s.recalcTourRatings(ctx, created.Tour)
	return created, nil
}

func (s *reviewService) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Review, error) {
	// Only the text and the rating are mutable; re-parenting a review
	// would corrupt both tours' statistics.
	updates = utils.FilterFields(updates, "review", "rating")

	if rating, ok := updates["rating"]; ok {
		if !validRating(rating) {
			return nil, utils.ValidationError("Rating must be between 1.0 and 5.0")
		}
	}

	updated, err := s.reviewRepo.UpdateByID(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	s.recalcTourRatings(ctx, updated.Tour)
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, id primitive.ObjectID) error {
	// The tour reference must be read before the delete removes it.
	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.recalcTourRatings(ctx, review.Tour)
	return nil
}

// recalcTourRatings recomputes the tour's rating statistics from its current
// reviews. A tour with no reviews falls back to the quantity zero and the
// default average. Failures are logged, not returned: the review write
// already succeeded.
func (s *reviewService) recalcTourRatings(ctx context.Context, tourID primitive.ObjectID) {
	quantity, average, err := s.reviewRepo.AggregateTourRatings(ctx, tourID)
	if err != nil {
		s.logger.WithContext(ctx).WithTourID(tourID).WithError(err).Error("Failed to aggregate tour ratings")
		return
	}

	if quantity == 0 {
		average = utils.DefaultRatingAverage
	} else {
		average = utils.Round1(average)
	}

	if err := s.tourRepo.UpdateRatingStats(ctx, tourID, average, quantity); err != nil {
		s.logger.WithContext(ctx).WithTourID(tourID).WithError(err).Error("Failed to update tour rating stats")
	}
}

func validRating(value interface{}) bool {
	switch v := value.(type) {
	case float64:
		return v >= utils.MinRating && v <= utils.MaxRating
	case int:
		return float64(v) >= utils.MinRating && float64(v) <= utils.MaxRating
	default:
		return false
	}
}
