package services

import (
	"context"
	"errors"
	"time"

	"github.com/spinmate/wheel-backend/internal/config"
	"github.com/spinmate/wheel-backend/internal/models"
	"github.com/spinmate/wheel-backend/internal/repositories"
	"github.com/spinmate/wheel-backend/internal/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure AuthServiceImpl implements AuthService
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthServiceImpl handles admin authentication
type AuthServiceImpl struct {
	adminRepo repositories.AdminUserRepository
	cfg       *config.Config
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(adminRepo repositories.AdminUserRepository, cfg *config.Config) *AuthServiceImpl {
	return &AuthServiceImpl{
		adminRepo: adminRepo,
		cfg:       cfg,
	}
}

// Login verifies credentials and returns a signed JWT
func (s *AuthServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	adminUser, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(adminUser.Password), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(adminUser.ID.Hex(), adminUser.Role, s.cfg)
	if err != nil {
		slog.Error("Failed to sign admin token", "error", err, "email", req.Email)
		return "", err
	}

	slog.Info("Admin logged in", "email", req.Email, "role", adminUser.Role)
	return token, nil
}

// Register creates a new admin user with a bcrypt-hashed password
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, role string) (*models.AdminUser, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}
	if role == "" {
		role = "admin"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	adminUser := &models.AdminUser{
		Email:     email,
		Password:  string(hashed),
		Role:      role,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.adminRepo.Create(ctx, adminUser); err != nil {
		return nil, err
	}

	adminUser.Password = ""
	return adminUser, nil
}
