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

type bookingRepository struct {
	*baseRepository[models.Booking]
	tours *mongo.Collection
	users *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) interfaces.BookingRepository {
	return &bookingRepository{
		baseRepository: newBaseRepository[models.Booking](db, "bookings", "booking", bson.M{}),
		tours:          db.Collection("tours"),
		users:          db.Collection("users"),
	}
}

// AttachDetails loads the referenced tour and user for each booking. A
// booking whose tour or user has since been removed keeps nil details
// rather than failing the whole page.
func (r *bookingRepository) AttachDetails(ctx context.Context, bookings ...*models.Booking) error {
	tourIDs := make([]primitive.ObjectID, 0)
	userIDs := make([]primitive.ObjectID, 0)
	seenTour := make(map[primitive.ObjectID]bool)
	seenUser := make(map[primitive.ObjectID]bool)
	for _, booking := range bookings {
		if !seenTour[booking.Tour] {
			seenTour[booking.Tour] = true
			tourIDs = append(tourIDs, booking.Tour)
		}
		if !seenUser[booking.User] {
			seenUser[booking.User] = true
			userIDs = append(userIDs, booking.User)
		}
	}
	if len(bookings) == 0 {
		return nil
	}

	toursByID := make(map[primitive.ObjectID]*models.Tour)
	cursor, err := r.tours.Find(ctx, bson.M{"_id": bson.M{"$in": tourIDs}})
	if err != nil {
		return utils.TranslateDBError(err, "tour")
	}
	tours := []*models.Tour{}
	if err := cursor.All(ctx, &tours); err != nil {
		return utils.TranslateDBError(err, "tour")
	}
	for _, tour := range tours {
		toursByID[tour.ID] = tour
	}

	usersByID := make(map[primitive.ObjectID]*models.User)
	cursor, err = r.users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return utils.TranslateDBError(err, "user")
	}
	users := []*models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return utils.TranslateDBError(err, "user")
	}
	for _, user := range users {
		usersByID[user.ID] = user
	}

	for _, booking := range bookings {
		booking.TourDetails = toursByID[booking.Tour]
		booking.UserDetails = usersByID[booking.User]
	}
	return nil
}
