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

type userRepository struct {
	*baseRepository[models.User]
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		baseRepository: newBaseRepository[models.User](db, "users", "user", bson.M{
			"active": bson.M{"$ne": false},
		}),
	}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, r.mergeFilter(bson.M{"email": email})).Decode(&user)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return &user, nil
}

func (r *userRepository) GetByResetToken(ctx context.Context, hashedToken string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, r.mergeFilter(bson.M{
		"password_reset_token":   hashedToken,
		"password_reset_expires": bson.M{"$gt": time.Now()},
	})).Decode(&user)
	if err != nil {
		return nil, utils.TranslateDBError(err, r.resource)
	}
	return &user, nil
}

func (r *userRepository) SaveCredentials(ctx context.Context, user *models.User) error {
	set := bson.M{"password": user.Password}
	if user.PasswordChangedAt != nil {
		set["password_changed_at"] = user.PasswordChangedAt
	}
	update := bson.M{"$set": set}
	if user.PasswordResetToken == "" {
		update["$unset"] = bson.M{
			"password_reset_token":   "",
			"password_reset_expires": "",
		}
	} else {
		set["password_reset_token"] = user.PasswordResetToken
		set["password_reset_expires"] = user.PasswordResetExpires
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		return utils.TranslateDBError(err, r.resource)
	}
	return nil
}

func (r *userRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"active": false},
	})
	if err != nil {
		return utils.TranslateDBError(err, r.resource)
	}
	if result.MatchedCount == 0 {
		return utils.NotFoundError(r.resource)
	}
	return nil
}
