package mongodb

import (
	"context"

	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// baseRepository implements the generic CRUD surface over one collection.
// baseFilter is merged into every read so rows the collection hides by
// default (secret tours, deactivated users) never leak through the
// generic list and get paths. Writers that must reach hidden rows go
// through entity-specific methods instead.
type baseRepository[T any] struct {
	collection *mongo.Collection
	resource   string
	baseFilter bson.M
}

func newBaseRepository[T any](db *mongo.Database, collection, resource string, baseFilter bson.M) *baseRepository[T] {
	return &baseRepository[T]{
		collection: db.Collection(collection),
		resource:   resource,
		baseFilter: baseFilter,
	}
}

// mergeFilter combines the base exclusion filter with caller filters.
// Caller keys win only when they do not collide with the exclusions.
func (r *baseRepository[T]) mergeFilter(filters ...bson.M) bson.M {
	merged := bson.M{}
	for k, v := range r.baseFilter {
		merged[k] = v
	}
	for _, f := range filters {
		for k, v := range f {
			if _, reserved := r.baseFilter[k]; reserved {
				continue
			}
			merged[k] = v
		}
	}
	return merged
}

func (r *baseRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var doc T
	err := r.collection.FindOne(ctx, r.mergeFilter(bson.M{"_id": id})).Decode(&doc)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return &doc, nil
}

func (r *baseRepository[T]) FindMany(ctx context.Context, preFilter bson.M, features *utils.APIFeatures) ([]*T, error) {
	filter := r.mergeFilter(preFilter)
	opts := options.Find()
	if features != nil {
		filter = r.mergeFilter(preFilter, features.Query)
		opts = features.Options
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	defer cursor.Close(ctx)

	docs := []*T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return docs, nil
}

func (r *baseRepository[T]) Count(ctx context.Context, preFilter bson.M, features *utils.APIFeatures) (int64, error) {
	filter := r.mergeFilter(preFilter)
	if features != nil {
		filter = r.mergeFilter(preFilter, features.Query)
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, utils.TranslateDBError(err, r.resource)
	}
	return count, nil
}

func (r *baseRepository[T]) Create(ctx context.Context, doc *T) (*T, error) {
	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}

	var created T
	err = r.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return &created, nil
}

func (r *baseRepository[T]) UpdateByID(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	err := r.collection.FindOneAndUpdate(
		ctx,
		r.mergeFilter(bson.M{"_id": id}),
		bson.M{"$set": updates},
		opts,
	).Decode(&updated)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return &updated, nil
}

func (r *baseRepository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	var deleted T
	err := r.collection.FindOneAndDelete(ctx, r.mergeFilter(bson.M{"_id": id})).Decode(&deleted)
	if err != nil {
		return utils.TranslateDBError(err, r.resource)
	}
	return nil
}
