package services

import (
	"context"
	"testing"

	"gotours/internal/models"
	"gotours/internal/utils"
	"gotours/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[primitive.ObjectID]*models.Review)}
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	if r, ok := f.reviews[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, utils.NotFoundError("review")
}

func (f *fakeReviewRepo) FindMany(_ context.Context, preFilter bson.M, _ *utils.APIFeatures) ([]*models.Review, error) {
	out := []*models.Review{}
	for _, r := range f.reviews {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReviewRepo) Count(_ context.Context, _ bson.M, _ *utils.APIFeatures) (int64, error) {
	return int64(len(f.reviews)), nil
}

func (f *fakeReviewRepo) Create(_ context.Context, review *models.Review) (*models.Review, error) {
	review.ID = primitive.NewObjectID()
	f.reviews[review.ID] = review
	copied := *review
	return &copied, nil
}

func (f *fakeReviewRepo) UpdateByID(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, utils.NotFoundError("review")
	}
	if text, ok := updates["review"].(string); ok {
		r.Review = text
	}
	switch v := updates["rating"].(type) {
	case float64:
		r.Rating = v
	case int:
		r.Rating = float64(v)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReviewRepo) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.reviews[id]; !ok {
		return utils.NotFoundError("review")
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) FindByTour(_ context.Context, tourID primitive.ObjectID) ([]*models.Review, error) {
	out := []*models.Review{}
	for _, r := range f.reviews {
		if r.Tour == tourID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) AggregateTourRatings(_ context.Context, tourID primitive.ObjectID) (int, float64, error) {
	var sum float64
	count := 0
	for _, r := range f.reviews {
		if r.Tour == tourID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return count, sum / float64(count), nil
}

func (f *fakeReviewRepo) AttachUsers(_ context.Context, _ ...*models.Review) error {
	return nil
}

type ratingWrite struct {
	tourID   primitive.ObjectID
	average  float64
	quantity int
}

// fakeTourRepo records rating-stat writes; nothing else is exercised here.
type fakeTourRepo struct {
	ratingWrites []ratingWrite
}

func (f *fakeTourRepo) FindByID(_ context.Context, _ primitive.ObjectID) (*models.Tour, error) {
	return nil, utils.NotFoundError("tour")
}
func (f *fakeTourRepo) FindMany(_ context.Context, _ bson.M, _ *utils.APIFeatures) ([]*models.Tour, error) {
	return nil, nil
}
func (f *fakeTourRepo) Count(_ context.Context, _ bson.M, _ *utils.APIFeatures) (int64, error) {
	return 0, nil
}
func (f *fakeTourRepo) Create(_ context.Context, tour *models.Tour) (*models.Tour, error) {
	return tour, nil
}
func (f *fakeTourRepo) UpdateByID(_ context.Context, _ primitive.ObjectID, _ map[string]interface{}) (*models.Tour, error) {
	return nil, utils.NotFoundError("tour")
}
func (f *fakeTourRepo) DeleteByID(_ context.Context, _ primitive.ObjectID) error { return nil }
func (f *fakeTourRepo) GetBySlug(_ context.Context, _ string) (*models.Tour, error) {
	return nil, utils.NotFoundError("tour")
}
func (f *fakeTourRepo) FindWithin(_ context.Context, _, _, _ float64) ([]*models.Tour, error) {
	return nil, nil
}
func (f *fakeTourRepo) Distances(_ context.Context, _, _, _ float64) ([]*models.TourDistance, error) {
	return nil, nil
}
func (f *fakeTourRepo) Stats(_ context.Context) ([]*models.TourStats, error) { return nil, nil }
func (f *fakeTourRepo) StatsByDifficulty(_ context.Context) ([]*models.TourStats, error) {
	return nil, nil
}
func (f *fakeTourRepo) MonthlyPlan(_ context.Context, _ int) ([]*models.MonthlyPlanEntry, error) {
	return nil, nil
}
func (f *fakeTourRepo) UpdateRatingStats(_ context.Context, tourID primitive.ObjectID, average float64, quantity int) error {
	f.ratingWrites = append(f.ratingWrites, ratingWrite{tourID, average, quantity})
	return nil
}
func (f *fakeTourRepo) AttachGuides(_ context.Context, _ ...*models.Tour) error { return nil }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stderr"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	return log
}

func TestReviewCreate_RecalculatesTourRatings(t *testing.T) {
	reviewRepo := newFakeReviewRepo()
	tourRepo := &fakeTourRepo{}
	svc := NewReviewService(reviewRepo, tourRepo, testLogger(t))

	tourID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	_, err := svc.Create(context.Background(), &models.Review{
		Review: "Amazing experience", Rating: 5, Tour: tourID, User: userID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err = svc.Create(context.Background(), &models.Review{
		Review: "Pretty good", Rating: 4, Tour: tourID, User: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(tourRepo.ratingWrites) != 2 {
		t.Fatalf("expected a stats write per create, got %d", len(tourRepo.ratingWrites))
	}
	last := tourRepo.ratingWrites[len(tourRepo.ratingWrites)-1]
	if last.tourID != tourID {
		t.Fatalf("stats written to the wrong tour")
	}
	if last.quantity != 2 || last.average != 4.5 {
		t.Fatalf("expected quantity 2 average 4.5, got %d %v", last.quantity, last.average)
	}
}

func TestReviewCreate_Invalid(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), &fakeTourRepo{}, testLogger(t))

	_, err := svc.Create(context.Background(), &models.Review{
		Review: "", Rating: 5, Tour: primitive.NewObjectID(), User: primitive.NewObjectID(),
	})
	if err == nil {
		t.Fatalf("expected validation error for empty review text")
	}

	_, err = svc.Create(context.Background(), &models.Review{
		Review: "Rating out of range", Rating: 6, Tour: primitive.NewObjectID(), User: primitive.NewObjectID(),
	})
	if err == nil {
		t.Fatalf("expected validation error for rating above 5")
	}
}

func TestReviewUpdate_FiltersFieldsAndRecalculates(t *testing.T) {
	reviewRepo := newFakeReviewRepo()
	tourRepo := &fakeTourRepo{}
	svc := NewReviewService(reviewRepo, tourRepo, testLogger(t))

	tourID := primitive.NewObjectID()
	created, err := svc.Create(context.Background(), &models.Review{
		Review: "Decent tour", Rating: 3, Tour: tourID, User: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	otherTour := primitive.NewObjectID()
	updated, err := svc.Update(context.Background(), created.ID, map[string]interface{}{
		"rating": float64(5),
		"tour":   otherTour.Hex(),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Rating != 5 {
		t.Fatalf("expected rating 5, got %v", updated.Rating)
	}
	if updated.Tour != tourID {
		t.Fatalf("re-parenting must be ignored")
	}

	last := tourRepo.ratingWrites[len(tourRepo.ratingWrites)-1]
	if last.quantity != 1 || last.average != 5 {
		t.Fatalf("expected recalculated stats 1/5, got %d/%v", last.quantity, last.average)
	}
}

func TestReviewUpdate_RejectsBadRating(t *testing.T) {
	svc := NewReviewService(newFakeReviewRepo(), &fakeTourRepo{}, testLogger(t))
	_, err := svc.Update(context.Background(), primitive.NewObjectID(), map[string]interface{}{
		"rating": float64(0.5),
	})
	if err == nil {
		t.Fatalf("expected validation error for rating below 1")
	}
}

func TestReviewDelete_ResetsStatsWhenLastReviewGoes(t *testing.T) {
	reviewRepo := newFakeReviewRepo()
	tourRepo := &fakeTourRepo{}
	svc := NewReviewService(reviewRepo, tourRepo, testLogger(t))

	tourID := primitive.NewObjectID()
	created, err := svc.Create(context.Background(), &models.Review{
		Review: "Only review", Rating: 2, Tour: tourID, User: primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	last := tourRepo.ratingWrites[len(tourRepo.ratingWrites)-1]
	if last.quantity != 0 {
		t.Fatalf("expected quantity reset to 0, got %d", last.quantity)
	}
	if last.average != utils.DefaultRatingAverage {
		t.Fatalf("expected average reset to %v, got %v", utils.DefaultRatingAverage, last.average)
	}
}
