package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"swiftride/internal/config"
	"swiftride/internal/models"
	"swiftride/internal/repositories/interfaces"
	"swiftride/internal/utils"
	"swiftride/pkg/logger"
	"swiftride/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account registration and the token lifecycle.
type AuthService struct {
	userRepo   interfaces.UserRepository
	driverRepo interfaces.DriverRepository
	storage    storage.Provider
	config     *config.SecurityConfig
	logger     *logger.Logger
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	driverRepo interfaces.DriverRepository,
	store storage.Provider,
	cfg *config.SecurityConfig,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		driverRepo: driverRepo,
		storage:    store,
		config:     cfg,
		logger:     log,
	}
}

type RegisterRequest struct {
	UserName string          `json:"user_name" validate:"required,alphanum,min=3,max=30"`
	FullName string          `json:"full_name" validate:"required"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"required"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,oneof=rider driver"`

	// Driver-only fields, required when Role is driver.
	LicenseNumber  string                 `json:"license_number,omitempty"`
	VehicleDetails *models.VehicleDetails `json:"vehicle_details,omitempty"`
	Capacity       int                    `json:"capacity,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User   *models.User     `json:"user"`
	Tokens *utils.TokenPair `json:"tokens"`
}

// Register creates the account and, for drivers, the driver extension
// document that carries vehicle and availability state.
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrUserAlreadyExists
	}
	if _, err := s.userRepo.GetByUserName(ctx, req.UserName); err == nil {
		return nil, ErrUserAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserName: req.UserName,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: string(hashed),
		Role:     req.Role,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if req.Role == models.UserRoleDriver {
		driver := &models.Driver{
			UserID:         user.ID,
			LicenseNumber:  req.LicenseNumber,
			VehicleDetails: req.VehicleDetails,
			Capacity:       req.Capacity,
		}
		if err := s.driverRepo.Create(ctx, driver); err != nil {
			return nil, err
		}
	}

	s.logger.WithUserID(user.ID).WithField("role", user.Role).Info("User registered")

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a fresh pair. The token must
// match the one on record, so a rotated-out token cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateToken(refreshToken, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if user.RefreshToken != refreshToken {
		return nil, ErrInvalidToken
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, userID primitive.ObjectID) error {
	return s.userRepo.SetRefreshToken(ctx, userID, "")
}

func (s *AuthService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UploadAvatar stores the image and records its URL on the account.
func (s *AuthService) UploadAvatar(ctx context.Context, userID primitive.ObjectID, filename string, data []byte, contentType string) (*models.User, error) {
	key := fmt.Sprintf("avatars/%s%s", userID.Hex(), filepath.Ext(filename))

	uploaded, err := s.storage.Upload(ctx, &storage.UploadRequest{
		Key:         key,
		Reader:      bytes.NewReader(data),
		ContentType: contentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"avatar": uploaded.URL}); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role),
		s.config.JWTSecret, s.config.JWTAccessTokenTTL, s.config.JWTRefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	user.RefreshToken = tokens.RefreshToken
	return &AuthResponse{User: user, Tokens: tokens}, nil
}
