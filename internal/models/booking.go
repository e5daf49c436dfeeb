package models

import (
	"time"

	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a purchase. Price is captured at purchase time and does
// not follow later changes to the tour's price.
type Booking struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour"`
	User      primitive.ObjectID `json:"user" bson:"user"`
	Price     float64            `json:"price" bson:"price"`
	Paid      bool               `json:"paid" bson:"paid"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"-" bson:"updated_at"`

	// Read-time expansions, never persisted.
	TourDetails *Tour `json:"tour_details,omitempty" bson:"-"`
	UserDetails *User `json:"user_details,omitempty" bson:"-"`
}

func (b *Booking) Validate() error {
	if b.Tour.IsZero() {
		return utils.ValidationError("Booking must belong to a tour")
	}
	if b.User.IsZero() {
		return utils.ValidationError("Booking must belong to a user")
	}
	if b.Price <= 0 {
		return utils.ValidationError("Booking must have a price")
	}
	return nil
}

// SanitizeBookingUpdate keeps an admin PATCH to the captured price and the
// paid flag; the tour and user references are fixed at purchase time.
func SanitizeBookingUpdate(updates map[string]interface{}) (map[string]interface{}, error) {
	updates = utils.FilterFields(updates, "price", "paid")

	if n, present, ok := updateNumber(updates, "price"); present && (!ok || n <= 0) {
		return nil, utils.ValidationError("Booking must have a price")
	}
	if raw, ok := updates["paid"]; ok {
		if _, isBool := raw.(bool); !isBool {
			return nil, utils.ValidationError("Paid must be true or false")
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}
	return updates, nil
}

func (b *Booking) PrepareForCreate() {
	// admins can later flip this off to track unpaid cash bookings
	b.Paid = true
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}
