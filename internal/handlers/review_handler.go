package handlers

import (
	"context"

	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/services"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewHandler struct {
	crudHandlers[models.Review]
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService, reviewRepo interfaces.ReviewRepository) *ReviewHandler {
	h := &ReviewHandler{
		reviewService: reviewService,
	}
	h.crudHandlers = crudHandlers[models.Review]{
		repo:     reviewRepo,
		resource: "review",
		parentFilter: func(c *gin.Context) bson.M {
			if tourID, ok := nestedTourID(c); ok {
				return bson.M{"tour": tourID}
			}
			return nil
		},
		expand: func(ctx context.Context, reviews ...*models.Review) error {
			return reviewRepo.AttachUsers(ctx, reviews...)
		},
	}
	return h
}

// nestedTourID reads the parent tour id on the nested review routes. The
// tours group registers its wildcard as :id, so both names are accepted.
func nestedTourID(c *gin.Context) (primitive.ObjectID, bool) {
	for _, name := range []string{"tourId", "id"} {
		if id, err := primitive.ObjectIDFromHex(c.Param(name)); err == nil {
			return id, true
		}
	}
	return primitive.NilObjectID, false
}

// CreateOne decodes the review, fills the tour id from the nested route and
// the author from the session, then writes through the review service so
// the tour's rating stats stay in sync.
func (h *ReviewHandler) CreateOne(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	if review.Tour.IsZero() {
		tourID, ok := nestedTourID(c)
		if !ok {
			middleware.AbortWithError(c, utils.ValidationError("Review must belong to a tour"))
			return
		}
		review.Tour = tourID
	}
	if review.User.IsZero() {
		review.User = middleware.CurrentUser(c).ID
	}

	created, err := h.reviewService.Create(c.Request.Context(), &review)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"data": created})
}

func (h *ReviewHandler) UpdateOne(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Invalid request body: "+err.Error()))
		return
	}

	updated, err := h.reviewService.Update(c.Request.Context(), id, updates)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"data": updated})
}

func (h *ReviewHandler) DeleteOne(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
