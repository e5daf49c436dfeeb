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
)

type UserService interface {
	// UpdateMe applies a self-service profile update. Only name, email and
	// photo pass through; password and role fields are rejected outright.
	UpdateMe(ctx context.Context, userID primitive.ObjectID, body map[string]interface{}, photo *multipart.FileHeader) (*models.User, error)

	// DeleteMe deactivates the account without removing the record.
	DeleteMe(ctx context.Context, userID primitive.ObjectID) error
}

type userService struct {
	userRepo interfaces.UserRepository
	config   *config.AppConfig
	logger   *logger.Logger
}

func NewUserService(userRepo interfaces.UserRepository, cfg *config.AppConfig, log *logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		config:   cfg,
		logger:   log,
	}
}

func (s *userService) UpdateMe(ctx context.Context, userID primitive.ObjectID, body map[string]interface{}, photo *multipart.FileHeader) (*models.User, error) {
	if _, ok := body["password"]; ok {
		return nil, utils.ValidationError("This route is not for password updates. Please use /update-my-password.")
	}
	if _, ok := body["password_confirm"]; ok {
		return nil, utils.ValidationError("This route is not for password updates. Please use /update-my-password.")
	}

	updates := utils.FilterFields(body, "name", "email")
	if email, ok := updates["email"].(string); ok {
		normalized := utils.NormalizeEmail(email)
		if !utils.IsValidEmail(normalized) {
			return nil, utils.ValidationError("Please provide a valid email")
		}
		updates["email"] = normalized
	}

	if photo != nil {
		filename, err := s.processUserPhoto(userID, photo)
		if err != nil {
			return nil, err
		}
		updates["photo"] = filename
	}

	if len(updates) == 0 {
		return s.userRepo.FindByID(ctx, userID)
	}

	user, err := s.userRepo.UpdateByID(ctx, userID, updates)
	if err != nil {
		return nil, err
	}

	s.logger.WithContext(ctx).WithUserID(userID).Info("Profile updated")
	return user, nil
}

func (s *userService) DeleteMe(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		return err
	}
	s.logger.WithContext(ctx).WithUserID(userID).Info("Account deactivated")
	return nil
}

// processUserPhoto squares the upload to the profile size, re-encodes it as
// JPEG and stores it on local disk.
func (s *userService) processUserPhoto(userID primitive.ObjectID, photo *multipart.FileHeader) (string, error) {
	if ok, reason := utils.IsImageUpload(photo); !ok {
		return "", utils.ValidationError(reason)
	}

	file, err := photo.Open()
	if err != nil {
		return "", utils.ValidationError("Could not read the uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", utils.ValidationError("Could not read the uploaded file")
	}

	resized, err := utils.ResizeToJPEG(data, utils.UserPhotoSize, utils.UserPhotoSize)
	if err != nil {
		return "", utils.ValidationError("Not an image! Please upload only images.")
	}

	filename := fmt.Sprintf("user-%s-%d.jpeg", userID.Hex(), time.Now().UnixMilli())
	if err := utils.SaveImage(s.config.UploadDir, utils.UserImageSubdir, filename, resized); err != nil {
		return "", err
	}
	return filename, nil
}
