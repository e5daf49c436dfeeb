package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. It is safe to
// call on every startup; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tourIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// compound index also serves queries on price alone
			Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratings_average", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "start_location", Value: "2dsphere"}},
		},
	}
	if _, err := db.Collection("tours").Indexes().CreateMany(ctx, tourIndexes); err != nil {
		return err
	}

	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	reviewIndexes := []mongo.IndexModel{
		{
			// one review per user per tour
			Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("reviews").Indexes().CreateMany(ctx, reviewIndexes); err != nil {
		return err
	}

	bookingIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "tour", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "user", Value: 1}},
		},
	}
	if _, err := db.Collection("bookings").Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return err
	}

	return nil
}
