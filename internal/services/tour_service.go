package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

type TourService interface {
	Stats(ctx context.Context) ([]*models.TourStats, error)
	StatsByDifficulty(ctx context.Context) ([]*models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error)

	// ToursWithin finds tours whose start location falls inside a sphere of
	// the given distance around a center expressed as "lat,lng".
	ToursWithin(ctx context.Context, distance float64, latlng, unit string) ([]*models.Tour, error)
	Distances(ctx context.Context, latlng, unit string) ([]*models.TourDistance, error)

	// UploadImages replaces the cover and gallery images of a tour with
	// processed JPEG renditions of the uploads.
	UploadImages(ctx context.Context, tourID primitive.ObjectID, cover *multipart.FileHeader, images []*multipart.FileHeader) (*models.Tour, error)
}

type tourService struct {
	tourRepo interfaces.TourRepository
	config   *config.AppConfig
	logger   *logger.Logger
}

func NewTourService(tourRepo interfaces.TourRepository, cfg *config.AppConfig, log *logger.Logger) TourService {
	return &tourService{
		tourRepo: tourRepo,
		config:   cfg,
		logger:   log,
	}
}

func (s *tourService) Stats(ctx context.Context) ([]*models.TourStats, error) {
	return s.tourRepo.Stats(ctx)
}

func (s *tourService) StatsByDifficulty(ctx context.Context) ([]*models.TourStats, error) {
	return s.tourRepo.StatsByDifficulty(ctx)
}

func (s *tourService) MonthlyPlan(ctx context.Context, year int) ([]*models.MonthlyPlanEntry, error) {
	if year < 1000 || year > 9999 {
		return nil, utils.ValidationError("Please provide a valid year")
	}
	return s.tourRepo.MonthlyPlan(ctx, year)
}

func (s *tourService) ToursWithin(ctx context.Context, distance float64, latlng, unit string) ([]*models.Tour, error) {
	lat, lng, ok := utils.ParseLatLng(latlng)
	if !ok {
		return nil, utils.ValidationError("Please provide latitude and longitude in the format lat,lng.")
	}
	if distance <= 0 {
		return nil, utils.ValidationError("Please provide a positive distance")
	}
	return s.tourRepo.FindWithin(ctx, lat, lng, utils.RadiusInRadians(distance, unit))
}

func (s *tourService) Distances(ctx context.Context, latlng, unit string) ([]*models.TourDistance, error) {
	lat, lng, ok := utils.ParseLatLng(latlng)
	if !ok {
		return nil, utils.ValidationError("Please provide latitude and longitude in the format lat,lng.")
	}
	return s.tourRepo.Distances(ctx, lat, lng, utils.DistanceMultiplier(unit))
}

func (s *tourService) UploadImages(ctx context.Context, tourID primitive.ObjectID, cover *multipart.FileHeader, images []*multipart.FileHeader) (*models.Tour, error) {
	if len(images) > utils.MaxTourImages {
		return nil, utils.ValidationError(fmt.Sprintf("A tour can have at most %d gallery images", utils.MaxTourImages))
	}

	updates := map[string]interface{}{}
	stamp := time.Now().UnixMilli()

	// The transforms are independent per file, so the cover and the whole
	// gallery resize concurrently and the request waits on all of them.
	group, _ := errgroup.WithContext(ctx)

	if cover != nil {
		filename := fmt.Sprintf("tour-%s-%d-cover.jpeg", tourID.Hex(), stamp)
		group.Go(func() error {
			return s.processTourImage(cover, filename)
		})
		updates["image_cover"] = filename
	}

	if len(images) > 0 {
		filenames := make([]string, len(images))
		for i, header := range images {
			i, header := i, header
			filenames[i] = fmt.Sprintf("tour-%s-%d-%d.jpeg", tourID.Hex(), stamp, i+1)
			group.Go(func() error {
				return s.processTourImage(header, filenames[i])
			})
		}
		updates["images"] = filenames
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return s.tourRepo.FindByID(ctx, tourID)
	}

	tour, err := s.tourRepo.UpdateByID(ctx, tourID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithTourID(tourID).Info("Tour images updated")
	return tour, nil
}

func (s *tourService) processTourImage(header *multipart.FileHeader, filename string) error {
	if ok, reason := utils.IsImageUpload(header); !ok {
		return utils.ValidationError(reason)
	}

	file, err := header.Open()
	if err != nil {
		return utils.ValidationError("Could not read the uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return utils.ValidationError("Could not read the uploaded file")
	}

	resized, err := utils.ResizeToJPEG(data, utils.TourImageWidth, utils.TourImageHeight)
	if err != nil {
		return utils.ValidationError("Not an image! Please upload only images.")
	}
	return utils.SaveImage(s.config.UploadDir, utils.TourImageSubdir, filename, resized)
}
