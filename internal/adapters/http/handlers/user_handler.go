package handlers

import (
	"errors"

	"apcb-events/internal/adapters/http/middleware"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/core/services"
	"apcb-events/internal/pkg/pagination"
	"apcb-events/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns a page of users (admin)
// @Summary List users
// @Description List users with pagination and role filter
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param role query string false "Role filter"
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.userService.ListUsers(c.Context(), &services.ListUsersInput{
		Page:  params.Page,
		Limit: params.Limit,
		Role:  c.Query("role"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRole) {
			return response.BadRequest(c, "Invalid role filter")
		}
		return response.InternalServerError(c, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", result)
}

// Get returns one user (admin)
// @Summary Get user
// @Description Get one user by ID
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// Create handles admin-issued account creation
// @Summary Create user
// @Description Create an account on behalf of a participant or staff member
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/users [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var req services.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.userService.CreateUser(c.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.ValidationFailed(c, vErr.Fields...)
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, domain.ErrUserAlreadyExists):
			return response.Conflict(c, "Email already registered")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, "User created successfully", created)
}

// ChangeRoleRequest represents a role change body
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole mutates a user's role (super admin)
// @Summary Change user role
// @Description Grant or revoke a role, never on your own account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/users/{id}/role [patch]
func (h *UserHandler) ChangeRole(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req ChangeRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.ChangeRole(c.Context(), uint(id), principal.UserID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, domain.ErrCannotChangeOwnRole):
			return response.Conflict(c, "You cannot change your own role")
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to change role")
		}
	}

	return response.Success(c, "Role changed successfully", user)
}

// UpdateProfile lets a user change their own profile
// @Summary Update profile
// @Description Update the authenticated user's own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(c.Context(), principal.UserID, &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.ValidationFailed(c, vErr.Fields...)
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", user)
}
