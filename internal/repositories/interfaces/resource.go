package interfaces

import (
	"context"

	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is the uniform storage shape the handler factory is generic over.
// Every entity store implements it; entity-specific operations live on the
// per-entity interfaces that embed it.
//
// Implementations merge their own default exclusions (inactive users, secret
// tours) into every read, so callers never see records those rules hide.
type Resource[T any] interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindMany(ctx context.Context, preFilter bson.M, features *utils.APIFeatures) ([]*T, error)
	Count(ctx context.Context, preFilter bson.M, features *utils.APIFeatures) (int64, error)
	Create(ctx context.Context, doc *T) (*T, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*T, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}
