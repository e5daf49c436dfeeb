package handlers

import (
	"context"
	"strconv"

	"gotours/internal/middleware"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/services"
	"gotours/internal/utils"

	"github.com/gin-gonic/gin"
)

type TourHandler struct {
	crudHandlers[models.Tour]
	tourService services.TourService
	tourRepo    interfaces.TourRepository
	reviewRepo  interfaces.ReviewRepository
}

func NewTourHandler(tourService services.TourService, tourRepo interfaces.TourRepository, reviewRepo interfaces.ReviewRepository) *TourHandler {
	h := &TourHandler{
		tourService: tourService,
		tourRepo:    tourRepo,
		reviewRepo:  reviewRepo,
	}
	h.crudHandlers = crudHandlers[models.Tour]{
		repo:     tourRepo,
		resource: "tour",
		prepare: func(c *gin.Context, tour *models.Tour) error {
			tour.PrepareForCreate()
			return tour.Validate()
		},
		expand: func(ctx context.Context, tours ...*models.Tour) error {
			return tourRepo.AttachGuides(ctx, tours...)
		},
		sanitize: models.SanitizeTourUpdate,
	}
	return h
}

// GetOne serves the tour detail view: guides and the tour's reviews come
// embedded, the reviews with their authors attached.
func (h *TourHandler) GetOne(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	tour, err := h.tourRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if err := h.embedRelations(c.Request.Context(), tour); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"data": tour})
}

// GetBySlug is the public detail lookup by URL slug.
func (h *TourHandler) GetBySlug(c *gin.Context) {
	tour, err := h.tourRepo.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	if err := h.embedRelations(c.Request.Context(), tour); err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"data": tour})
}

func (h *TourHandler) embedRelations(ctx context.Context, tour *models.Tour) error {
	if err := h.tourRepo.AttachGuides(ctx, tour); err != nil {
		return err
	}

	reviews, err := h.reviewRepo.FindByTour(ctx, tour.ID)
	if err != nil {
		return err
	}
	if err := h.reviewRepo.AttachUsers(ctx, reviews...); err != nil {
		return err
	}
	tour.Reviews = reviews
	return nil
}

// AliasTopCheap presets the query for the five best cheap tours before the
// generic list handler runs.
func (h *TourHandler) AliasTopCheap(c *gin.Context) {
	query := c.Request.URL.Query()
	query.Set("limit", "5")
	query.Set("sort", "-ratings_average,price")
	query.Set("fields", "name,price,ratings_average,summary,difficulty")
	c.Request.URL.RawQuery = query.Encode()
	c.Next()
}

// GetStats aggregates counts, ratings and prices, grouped by difficulty
// unless ?grouped=false asks for a single overall row.
func (h *TourHandler) GetStats(c *gin.Context) {
	var stats []*models.TourStats
	var err error
	if c.Query("grouped") == "false" {
		stats, err = h.tourService.Stats(c.Request.Context())
	} else {
		stats, err = h.tourService.StatsByDifficulty(c.Request.Context())
	}
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"stats": stats})
}

func (h *TourHandler) GetMonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Please provide a valid year"))
		return
	}

	plan, err := h.tourService.MonthlyPlan(c.Request.Context(), year)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"plan": plan})
}

// GetToursWithin handles /tours-within/:distance/center/:latlng/unit/:unit.
func (h *TourHandler) GetToursWithin(c *gin.Context) {
	distance, err := strconv.ParseFloat(c.Param("distance"), 64)
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Please provide a valid distance"))
		return
	}

	tours, err := h.tourService.ToursWithin(c.Request.Context(), distance, c.Param("latlng"), c.Param("unit"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessListResponse(c, len(tours), gin.H{"data": tours})
}

// GetDistances handles /distances/:latlng/unit/:unit.
func (h *TourHandler) GetDistances(c *gin.Context) {
	distances, err := h.tourService.Distances(c.Request.Context(), c.Param("latlng"), c.Param("unit"))
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessListResponse(c, len(distances), gin.H{"data": distances})
}

// UploadImages accepts multipart form fields image_cover (single) and
// images (up to three) and replaces the tour's pictures.
func (h *TourHandler) UploadImages(c *gin.Context) {
	id, err := objectIDParam(c, "id")
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		middleware.AbortWithError(c, utils.ValidationError("Expected a multipart form upload"))
		return
	}

	cover := firstFile(form.File["image_cover"])
	images := form.File["images"]

	tour, err := h.tourService.UploadImages(c.Request.Context(), id, cover, images)
	if err != nil {
		middleware.AbortWithError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"data": tour})
}
