package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/config"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/jwt"
	"apcb-events/internal/pkg/password"
	"apcb-events/internal/pkg/validator"
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
)

// AuthService is the identity provider: it issues bearer tokens carrying
// the role claim the rest of the API only ever reads.
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// SignupInput represents account registration input
type SignupInput struct {
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	PhoneNumber *string `json:"phone_number"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register creates a new account. Self-registered accounts always start
// as ordinary_user; roles are granted later by a super admin.
func (s *AuthService) Register(ctx context.Context, input *SignupInput) (*AuthResponse, error) {
	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Password:    hashed,
		PhoneNumber: input.PhoneNumber,
		Role:        string(domain.RoleOrdinaryUser),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Account created: %s (ID: %d)", user.Email, user.ID)
	return s.issueTokens(ctx, user)
}

// Login authenticates credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token and issues a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if stored.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// Rotate: old token is dead the moment a new one is issued
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, stored.TokenHash); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes a refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// Me returns the account behind a principal
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// issueTokens signs an access/refresh pair and persists the refresh hash
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID, user.Email, user.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID, uuid.New().String(),
		s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
