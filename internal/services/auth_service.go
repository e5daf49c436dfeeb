package services

import (
	"context"

	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuthService interface {
	Signup(ctx context.Context, request *SignupRequest) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)

	// Authenticate resolves a bearer token into a live user, rejecting
	// tokens issued before the user's last password change.
	Authenticate(ctx context.Context, token string) (*models.User, error)

	UpdatePassword(ctx context.Context, userID primitive.ObjectID, request *UpdatePasswordRequest) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email, resetURLBase string) error
	ResetPassword(ctx context.Context, request *ResetPasswordRequest) (*models.User, string, error)
}

type authService struct {
	userRepo     interfaces.UserRepository
	emailService EmailService
	security     *config.SecurityConfig
	logger       *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, emailService EmailService, security *config.SecurityConfig, log *logger.Logger) AuthService {
	return &authService{
		userRepo:     userRepo,
		emailService: emailService,
		security:     security,
		logger:       log,
	}
}

type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type ResetPasswordRequest struct {
	Token           string `json:"-"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

func (s *authService) Signup(ctx context.Context, request *SignupRequest) (*models.User, string, error) {
	if request.Password != request.PasswordConfirm {
		return nil, "", utils.ValidationError("Passwords are not the same!")
	}

	user := &models.User{
		Name:  request.Name,
		Email: request.Email,
	}
	user.PrepareForCreate()
	if err := user.Validate(); err != nil {
		return nil, "", err
	}
	if err := user.SetPassword(request.Password); err != nil {
		return nil, "", err
	}

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := utils.SignToken(created.ID, s.security.JWTSecret, s.security.JWTExpiry)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithContext(ctx).WithUserID(created.ID).Info("User signed up")
	return created, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", utils.ValidationError("Please provide email and password!")
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil || !user.CorrectPassword(password) {
		// Identical error for unknown email and wrong password.
		return nil, "", utils.UnauthorizedError("Incorrect email or password")
	}

	token, err := utils.SignToken(user.ID, s.security.JWTSecret, s.security.JWTExpiry)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithContext(ctx).WithUserID(user.ID).Info("User logged in")
	return user, token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ValidateToken(token, s.security.JWTSecret)
	if err != nil {
		return nil, utils.TranslateJWTError(err)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, utils.UnauthorizedError("Invalid token. Please log in again!")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.UnauthorizedError("The user belonging to this token does no longer exist.")
	}

	if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, utils.UnauthorizedError("User recently changed password! Please log in again.")
	}
	return user, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, request *UpdatePasswordRequest) (*models.User, string, error) {
	if request.Password != request.PasswordConfirm {
		return nil, "", utils.ValidationError("Passwords are not the same!")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !user.CorrectPassword(request.PasswordCurrent) {
		return nil, "", utils.UnauthorizedError("Your current password is wrong.")
	}

	if err := user.SetPassword(request.Password); err != nil {
		return nil, "", err
	}
	user.MarkPasswordChanged()
	if err := s.userRepo.SaveCredentials(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := utils.SignToken(user.ID, s.security.JWTSecret, s.security.JWTExpiry)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithContext(ctx).WithUserID(user.ID).Info("Password updated")
	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email, resetURLBase string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return utils.NotFoundError("user with that email address")
	}

	plaintext, err := user.CreatePasswordResetToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SaveCredentials(ctx, user); err != nil {
		return err
	}

	resetURL := resetURLBase + "/" + plaintext
	if err := s.emailService.SendPasswordReset(ctx, user, resetURL); err != nil {
		// The token is useless if the user never received it.
		user.ClearPasswordResetToken()
		if saveErr := s.userRepo.SaveCredentials(ctx, user); saveErr != nil {
			s.logger.WithContext(ctx).WithError(saveErr).Error("Failed to clear reset token after send failure")
		}
		return utils.NewAppError("There was an error sending the email. Try again later!", 500)
	}

	s.logger.WithContext(ctx).WithUserID(user.ID).Info("Password reset token sent")
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, request *ResetPasswordRequest) (*models.User, string, error) {
	if request.Password != request.PasswordConfirm {
		return nil, "", utils.ValidationError("Passwords are not the same!")
	}

	user, err := s.userRepo.GetByResetToken(ctx, utils.HashToken(request.Token))
	if err != nil {
		return nil, "", utils.ValidationError("Token is invalid or has expired")
	}

	if err := user.SetPassword(request.Password); err != nil {
		return nil, "", err
	}
	user.MarkPasswordChanged()
	user.ClearPasswordResetToken()
	if err := s.userRepo.SaveCredentials(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := utils.SignToken(user.ID, s.security.JWTSecret, s.security.JWTExpiry)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithContext(ctx).WithUserID(user.ID).Info("Password reset")
	return user, token, nil
}
