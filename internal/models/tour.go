package models

import (
	"fmt"
	"time"

	"gotours/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Difficulty string

const (
	DifficultyEasy      Difficulty = "easy"
	DifficultyMedium    Difficulty = "medium"
	DifficultyDifficult Difficulty = "difficult"
)

// Location is a GeoJSON point embedded in a tour: the start location or one
// itinerary waypoint. Coordinates are longitude first, then latitude.
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty"`
}

type Tour struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name"`
	Slug            string               `json:"slug" bson:"slug"`
	Duration        int                  `json:"duration" bson:"duration"`
	MaxGroupSize    int                  `json:"max_group_size" bson:"max_group_size"`
	Difficulty      Difficulty           `json:"difficulty" bson:"difficulty"`
	RatingsAverage  float64              `json:"ratings_average" bson:"ratings_average"`
	RatingsQuantity int                  `json:"ratings_quantity" bson:"ratings_quantity"`
	Price           float64              `json:"price" bson:"price"`
	PriceDiscount   float64              `json:"price_discount,omitempty" bson:"price_discount,omitempty"`
	Summary         string               `json:"summary" bson:"summary"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"image_cover" bson:"image_cover"`
	Images          []string             `json:"images,omitempty" bson:"images,omitempty"`
	StartDates      []time.Time          `json:"start_dates,omitempty" bson:"start_dates,omitempty"`
	SecretTour      bool                 `json:"-" bson:"secret_tour"`
	StartLocation   *Location            `json:"start_location,omitempty" bson:"start_location,omitempty"`
	Locations       []Location           `json:"locations,omitempty" bson:"locations,omitempty"`
	Guides          []primitive.ObjectID `json:"guides" bson:"guides,omitempty"`
	CreatedAt       time.Time            `json:"-" bson:"created_at"`
	UpdatedAt       time.Time            `json:"-" bson:"updated_at"`

	// Read-time expansions, never persisted.
	GuideDetails []*User   `json:"guide_details,omitempty" bson:"-"`
	Reviews      []*Review `json:"reviews,omitempty" bson:"-"`
}

const (
	TourNameMinLength = 10
	TourNameMaxLength = 40
)

func (t *Tour) Validate() error {
	if l := len(t.Name); l < TourNameMinLength || l > TourNameMaxLength {
		return utils.ValidationError(fmt.Sprintf("A tour name must have between %d and %d characters", TourNameMinLength, TourNameMaxLength))
	}
	if t.Duration <= 0 {
		return utils.ValidationError("A tour must have a duration")
	}
	if t.MaxGroupSize <= 0 {
		return utils.ValidationError("A tour must have a group size")
	}
	switch t.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
	default:
		return utils.ValidationError("Difficulty can either be: easy, medium, difficult")
	}
	if t.Price <= 0 {
		return utils.ValidationError("A tour must have a price")
	}
	if t.PriceDiscount != 0 && t.PriceDiscount >= t.Price {
		return utils.ValidationError(fmt.Sprintf("Discount price (%.2f) should be less than regular price", t.PriceDiscount))
	}
	if t.Summary == "" {
		return utils.ValidationError("A tour must have a summary")
	}
	if t.ImageCover == "" {
		return utils.ValidationError("A tour must have a cover image")
	}
	if t.RatingsAverage != 0 && (t.RatingsAverage < utils.MinRating || t.RatingsAverage > utils.MaxRating) {
		return utils.ValidationError("Rating must be between 1.0 and 5.0")
	}
	return nil
}

// PrepareForCreate fills the server-owned fields before first persistence.
func (t *Tour) PrepareForCreate() {
	t.Slug = utils.Slugify(t.Name)
	if t.RatingsAverage == 0 {
		t.RatingsAverage = utils.DefaultRatingAverage
	}
	t.RatingsQuantity = 0
	if t.StartLocation != nil && t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// tourUpdatableFields are the keys a PATCH may touch. Rating stats, the
// slug and the timestamps stay server-owned.
var tourUpdatableFields = []string{
	"name", "duration", "max_group_size", "difficulty", "price",
	"price_discount", "summary", "description", "image_cover", "images",
	"start_dates", "start_location", "locations", "guides",
}

// SanitizeTourUpdate strips server-owned fields from a partial update and
// re-checks the constraints a create would enforce on the fields present.
func SanitizeTourUpdate(updates map[string]interface{}) (map[string]interface{}, error) {
	updates = utils.FilterFields(updates, tourUpdatableFields...)

	if raw, ok := updates["name"]; ok {
		name, isString := raw.(string)
		if !isString || len(name) < TourNameMinLength || len(name) > TourNameMaxLength {
			return nil, utils.ValidationError(fmt.Sprintf("A tour name must have between %d and %d characters", TourNameMinLength, TourNameMaxLength))
		}
		updates["slug"] = utils.Slugify(name)
	}
	if n, present, ok := updateNumber(updates, "duration"); present && (!ok || n <= 0) {
		return nil, utils.ValidationError("A tour must have a duration")
	}
	if n, present, ok := updateNumber(updates, "max_group_size"); present && (!ok || n <= 0) {
		return nil, utils.ValidationError("A tour must have a group size")
	}
	if n, present, ok := updateNumber(updates, "price"); present && (!ok || n <= 0) {
		return nil, utils.ValidationError("A tour must have a price")
	}
	if n, present, ok := updateNumber(updates, "price_discount"); present && (!ok || n < 0) {
		return nil, utils.ValidationError("Discount price must not be negative")
	}
	if raw, ok := updates["difficulty"]; ok {
		d, isString := raw.(string)
		if !isString {
			return nil, utils.ValidationError("Difficulty can either be: easy, medium, difficult")
		}
		switch Difficulty(d) {
		case DifficultyEasy, DifficultyMedium, DifficultyDifficult:
		default:
			return nil, utils.ValidationError("Difficulty can either be: easy, medium, difficult")
		}
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now()
	}
	return updates, nil
}

// updateNumber reads a numeric value from a decoded update body. JSON
// numbers arrive as float64; bson round-trips may yield integer types.
func updateNumber(updates map[string]interface{}, key string) (value float64, present, ok bool) {
	raw, present := updates[key]
	if !present {
		return 0, false, false
	}
	switch n := raw.(type) {
	case float64:
		return n, true, true
	case float32:
		return float64(n), true, true
	case int:
		return float64(n), true, true
	case int32:
		return float64(n), true, true
	case int64:
		return float64(n), true, true
	}
	return 0, true, false
}

// DurationWeeks is a read-time derivation; it is never stored.
func (t *Tour) DurationWeeks() float64 {
	return float64(t.Duration) / 7
}

// EffectivePrice is the price after any discount.
func (t *Tour) EffectivePrice() float64 {
	if t.PriceDiscount > 0 && t.PriceDiscount < t.Price {
		return t.Price - t.PriceDiscount
	}
	return t.Price
}
