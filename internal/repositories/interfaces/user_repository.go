package interfaces

import (
	"context"

	"gotours/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Resource[models.User]

	// GetByEmail returns the user including the stored password hash. Every
	// lookup excludes deactivated accounts.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByResetToken matches the stored one-way hash with the expiry still
	// in the future.
	GetByResetToken(ctx context.Context, hashedToken string) (*models.User, error)

	// SaveCredentials persists password hash, password-changed timestamp and
	// reset-token state in one write.
	SaveCredentials(ctx context.Context, user *models.User) error

	// Deactivate flags the account instead of removing it; the record
	// disappears from every subsequent query.
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}
