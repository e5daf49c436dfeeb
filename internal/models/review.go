package models

import (
	"time"

	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review belongs to exactly one tour and one user; the (tour, user) pair is
// unique, enforced by a compound index.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review"`
	Rating    float64            `json:"rating" bson:"rating"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"-" bson:"updated_at"`

	// Read-time expansion, never persisted.
	UserDetails *User `json:"user_details,omitempty" bson:"-"`
}

func (r *Review) Validate() error {
	if r.Review == "" {
		return utils.ValidationError("Review cannot be empty")
	}
	if r.Rating < utils.MinRating || r.Rating > utils.MaxRating {
		return utils.ValidationError("Rating must be between 1 and 5")
	}
	if r.Tour.IsZero() {
		return utils.ValidationError("Review must belong to a tour")
	}
	if r.User.IsZero() {
		return utils.ValidationError("Review must belong to a user")
	}
	return nil
}

func (r *Review) PrepareForCreate() {
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
}
