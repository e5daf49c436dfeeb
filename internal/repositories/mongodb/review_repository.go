package mongodb

import (
	"context"

	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type reviewRepository struct {
	*baseRepository[models.Review]
	users *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) interfaces.ReviewRepository {
	return &reviewRepository{
		baseRepository: newBaseRepository[models.Review](db, "reviews", "review", bson.M{}),
		users:          db.Collection("users"),
	}
}

func (r *reviewRepository) FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]*models.Review, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"tour": tourID})
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	reviews := []*models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return reviews, nil
}

func (r *reviewRepository) AggregateTourRatings(ctx context.Context, tourID primitive.ObjectID) (int, float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$tour",
			"num_rating": bson.M{"$sum": 1},
			"avg_rating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	var results []struct {
		NumRating int     `bson:"num_rating"`
		AvgRating float64 `bson:"avg_rating"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, utils.TranslateDBError(err, r.resource)
	}
	if len(results) == 0 {
		return 0, 0, nil
	}
	return results[0].NumRating, results[0].AvgRating, nil
}

func (r *reviewRepository) AttachUsers(ctx context.Context, reviews ...*models.Review) error {
	ids := make([]primitive.ObjectID, 0)
	seen := make(map[primitive.ObjectID]bool)
	for _, review := range reviews {
		if !seen[review.User] {
			seen[review.User] = true
			ids = append(ids, review.User)
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

	authors := []*models.User{}
	if err := cursor.All(ctx, &authors); err != nil {
		return utils.TranslateDBError(err, "user")
	}

	byID := make(map[primitive.ObjectID]*models.User, len(authors))
	for _, author := range authors {
		byID[author.ID] = author
	}
	for _, review := range reviews {
		review.UserDetails = byID[review.User]
	}
	return nil
}
