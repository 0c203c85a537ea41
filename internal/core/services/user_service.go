package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/pagination"
	"apcb-events/internal/pkg/password"
	"apcb-events/internal/pkg/validator"
)

// UserService handles user management business logic
type UserService struct {
	userRepo repositories.UserRepository
	mail     *MailService
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, mail *MailService) *UserService {
	return &UserService{userRepo: userRepo, mail: mail}
}

// ListUsersInput represents list users input
type ListUsersInput struct {
	Page  int
	Limit int
	Role  string
}

// ListUsers returns a page of users (admin surface)
func (s *UserService) ListUsers(ctx context.Context, input *ListUsersInput) (*pagination.Response, error) {
	if input.Role != "" && !domain.ValidRole(domain.Role(input.Role)) {
		return nil, domain.ErrInvalidRole
	}

	params := pagination.Normalize(input.Page, input.Limit)
	users, total, err := s.userRepo.List(ctx, params, input.Role)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return pagination.NewResponse(responses, params, total), nil
}

// GetUserByID returns a user (admin surface)
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// CreateUserInput represents admin-issued account creation
type CreateUserInput struct {
	FirstName   string  `json:"first_name" validate:"required,max=100"`
	LastName    string  `json:"last_name" validate:"required,max=100"`
	Email       string  `json:"email" validate:"required,email"`
	PhoneNumber *string `json:"phone_number"`
	Role        string  `json:"role" validate:"required"`
}

// CreatedUser carries the generated password back to the admin exactly once
type CreatedUser struct {
	User            *models.UserResponse `json:"user"`
	InitialPassword string               `json:"initial_password"`
}

// CreateUser creates an account on behalf of a participant or staff
// member, with a generated password the admin hands over out of band.
func (s *UserService) CreateUser(ctx context.Context, input *CreateUserInput) (*CreatedUser, error) {
	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}
	if !domain.ValidRole(domain.Role(input.Role)) {
		return nil, domain.ErrInvalidRole
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	plain, err := password.Generate(12)
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(plain)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Password:    hashed,
		PhoneNumber: input.PhoneNumber,
		Role:        input.Role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.mail.SendWelcome(ctx, user, plain)

	log.Printf("✅ Admin created account: %s (role: %s)", user.Email, user.Role)
	return &CreatedUser{User: user.ToResponse(), InitialPassword: plain}, nil
}

// UpdateProfileInput represents a user's own profile update
type UpdateProfileInput struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number"`
	Password    *string `json:"password" validate:"omitempty,min=8"`
}

// UpdateProfile lets a principal change their own profile. Role and email
// are never self-mutable.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*models.UserResponse, error) {
	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = input.PhoneNumber
	}
	if input.Password != nil {
		hashed, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.ToResponse(), nil
}

// ChangeRole mutates a user's role claim. Only a super admin reaches this
// path, and never for their own account.
func (s *UserService) ChangeRole(ctx context.Context, targetID, adminID uint, newRole string) (*models.UserResponse, error) {
	if !domain.ValidRole(domain.Role(newRole)) {
		return nil, domain.ErrInvalidRole
	}
	if targetID == adminID {
		return nil, domain.ErrCannotChangeOwnRole
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Role = newRole
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Role changed: user %d → %s (by admin %d)", targetID, newRole, adminID)
	return user.ToResponse(), nil
}
