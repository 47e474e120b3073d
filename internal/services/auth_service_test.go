package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"swiftride/internal/config"
	"swiftride/internal/models"
	"swiftride/pkg/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email || existing.UserName == user.UserName {
			return ErrUserAlreadyExists
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.UserName == userName {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	if avatar, ok := updates["avatar"].(string); ok {
		user.Avatar = avatar
	}
	return nil
}

func (r *fakeUserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	user.RefreshToken = token
	return nil
}

type fakeStorage struct{}

func (fakeStorage) Upload(ctx context.Context, request *storage.UploadRequest) (*storage.UploadResponse, error) {
	return &storage.UploadResponse{Key: request.Key, URL: "https://cdn.test/" + request.Key, Size: request.Size}, nil
}

func (fakeStorage) Delete(ctx context.Context, key string) error { return nil }

func (fakeStorage) FileExists(ctx context.Context, key string) (bool, error) { return false, nil }

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeDriverRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	driverRepo := newFakeDriverRepo()
	cfg := &config.SecurityConfig{
		JWTSecret:          "test-secret",
		JWTAccessTokenTTL:  time.Hour,
		JWTRefreshTokenTTL: 24 * time.Hour,
	}
	return NewAuthService(userRepo, driverRepo, fakeStorage{}, cfg, newTestLogger(t)), userRepo, driverRepo
}

func riderRegistration() *RegisterRequest {
	return &RegisterRequest{
		UserName: "asha42",
		FullName: "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+911234567890",
		Password: "hunter2hunter2",
		Role:     models.UserRoleRider,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), riderRegistration())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if registered.Tokens.AccessToken == "" || registered.Tokens.RefreshToken == "" {
		t.Fatalf("registration should issue a token pair")
	}
	if registered.User.Password == riderRegistration().Password {
		t.Errorf("password must not be stored in plain text")
	}

	loggedIn, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "asha@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Errorf("login resolved a different account")
	}
}

func TestRegisterDriverCreatesExtension(t *testing.T) {
	svc, _, driverRepo := newAuthFixture(t)

	req := riderRegistration()
	req.Role = models.UserRoleDriver
	req.LicenseNumber = "KA-01-2020-1234567"
	req.VehicleDetails = &models.VehicleDetails{
		VehicleType:        models.VehicleTypeCar,
		Model:              "Swift",
		RegistrationNumber: "KA01AB1234",
		Color:              "White",
	}
	req.Capacity = 4

	resp, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	driver, err := driverRepo.GetByUserID(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("driver extension not created: %v", err)
	}
	if driver.LicenseNumber != req.LicenseNumber {
		t.Errorf("license = %q, want %q", driver.LicenseNumber, req.LicenseNumber)
	}
	if driver.AvailabilityStatus {
		t.Errorf("new driver should start unavailable")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), riderRegistration()); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	dup := riderRegistration()
	dup.UserName = "other"
	if _, err := svc.Register(context.Background(), dup); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("err = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), riderRegistration()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := svc.Login(context.Background(), &LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), riderRegistration())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	refreshed, err := svc.Refresh(context.Background(), registered.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.Tokens.AccessToken == "" {
		t.Fatalf("refresh should issue a new access token")
	}

	// A rotated-out refresh token no longer matches the record.
	if refreshed.Tokens.RefreshToken != registered.Tokens.RefreshToken {
		if _, err := svc.Refresh(context.Background(), registered.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("stale refresh token err = %v, want ErrInvalidToken", err)
		}
	}

	if _, err := svc.Refresh(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token err = %v, want ErrInvalidToken", err)
	}
}

func TestLogoutClearsRefreshToken(t *testing.T) {
	svc, userRepo, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), riderRegistration())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), registered.User.ID); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	user, _ := userRepo.GetByID(context.Background(), registered.User.ID)
	if user.RefreshToken != "" {
		t.Errorf("refresh token should be cleared on logout")
	}

	if _, err := svc.Refresh(context.Background(), registered.Tokens.RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh after logout err = %v, want ErrInvalidToken", err)
	}
}

func TestUploadAvatar(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	registered, err := svc.Register(context.Background(), riderRegistration())
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := svc.UploadAvatar(context.Background(), registered.User.ID, "me.png", []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatalf("UploadAvatar failed: %v", err)
	}
	if user.Avatar == "" {
		t.Errorf("avatar URL should be recorded")
	}
}
