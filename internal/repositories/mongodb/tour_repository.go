package mongodb

import (
	"context"
	"time"

	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type tourRepository struct {
	*baseRepository[models.Tour]
	users *mongo.Collection
}

func NewTourRepository(db *mongo.Database) interfaces.TourRepository {
	return &tourRepository{
		baseRepository: newBaseRepository[models.Tour](db, "tours", "tour", bson.M{
			"secret_tour": bson.M{"$ne": true},
		}),
		users: db.Collection("users"),
	}
}

func (r *tourRepository) GetBySlug(ctx context.Context, slug string) (*models.Tour, error) {
	var tour models.Tour
	err := r.collection.FindOne(ctx, r.mergeFilter(bson.M{"slug": slug})).Decode(&tour)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return &tour, nil
}

func (r *tourRepository) FindWithin(ctx context.Context, lat, lng, radiusRadians float64) ([]*models.Tour, error) {
	filter := r.mergeFilter(bson.M{
		"start_location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lng, lat}, radiusRadians},
			},
		},
	})

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	tours := []*models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return tours, nil
}

func (r *tourRepository) Distances(ctx context.Context, lat, lng, multiplier float64) ([]*models.TourDistance, error) {
	// $geoNear must be the first pipeline stage, so the secret-tour
	// exclusion rides along in its query clause.
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
			"query":              bson.M{"secret_tour": bson.M{"$ne": true}},
		}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	distances := []*models.TourDistance{}
	if err := cursor.All(ctx, &distances); err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return distances, nil
}

func (r *tourRepository) Stats(ctx context.Context) ([]*models.TourStats, error) {
	return r.aggregateStats(ctx, nil)
}

func (r *tourRepository) StatsByDifficulty(ctx context.Context) ([]*models.TourStats, error) {
	return r.aggregateStats(ctx, bson.M{"$toUpper": "$difficulty"})
}

func (r *tourRepository) aggregateStats(ctx context.Context, groupKey interface{}) ([]*models.TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratings_average": bson.M{"$gte": 0.0}}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":         groupKey,
			"num_tours":   bson.M{"$sum": 1},
			"num_ratings": bson.M{"$sum": "$ratings_quantity"},
			"avg_rating":  bson.M{"$avg": "$ratings_average"},
			"avg_price":   bson.M{"$avg": "$price"},
			"min_price":   bson.M{"$min": "$price"},
			"max_price":   bson.M{"$max": "$price"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"avg_price": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	stats := []*models.TourStats{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return stats, nil
}

func (r *tourRepository) MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error) {
	start := primitive.NewDateTimeFromTime(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
	end := primitive.NewDateTimeFromTime(time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC))

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$start_dates"}},
		{{Key: "$match", Value: bson.M{
			"start_dates": bson.M{"$gte": start, "$lte": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":             bson.M{"$month": "$start_dates"},
			"num_tour_starts": bson.M{"$sum": 1},
			"tours":           bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"num_tour_starts": -1}}},
		{{Key: "$limit", Value: 12}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	plan := []*models.MonthlyPlanEntry{}
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return plan, nil
}

// UpdateRatingStats writes only the denormalized rating fields. It filters
// on the raw _id so the stats of hidden tours stay accurate too.
func (r *tourRepository) UpdateRatingStats(ctx context.Context, tourID primitive.ObjectID, average float64, quantity int) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": tourID}, bson.M{
		"$set": bson.M{
			"ratings_average":  average,
			"ratings_quantity": quantity,
		},
	})
	if err != nil {
		return utils.TranslateDBError(err, r.resource)
	}
	return nil
}

func (r *tourRepository) AttachGuides(ctx context.Context, tours ...*models.Tour) error {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, tour := range tours {
		for _, guideID := range tour.Guides {
			if !seen[guideID] {
				seen[guideID] = true
				ids = append(ids, guideID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return utils.TranslateDBError(err, "user")
	}
	defer cursor.Close(ctx)

	guides := []*models.User{}
	if err := cursor.All(ctx, &guides); err != nil {
		return utils.TranslateDBError(err, "user")
	}

	byID := make(map[primitive.ObjectID]*models.User, len(guides))
	for _, guide := range guides {
		byID[guide.ID] = guide
	}

	for _, tour := range tours {
		tour.GuideDetails = make([]*models.User, 0, len(tour.Guides))
		for _, guideID := range tour.Guides {
			if guide, ok := byID[guideID]; ok {
				tour.GuideDetails = append(tour.GuideDetails, guide)
			}
		}
	}
	return nil
}
