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

// AdminRegistrationHandler handles the admin registration surface
type AdminRegistrationHandler struct {
	regService *services.RegistrationService
}

// NewAdminRegistrationHandler creates a new admin registration handler
func NewAdminRegistrationHandler(regService *services.RegistrationService) *AdminRegistrationHandler {
	return &AdminRegistrationHandler{regService: regService}
}

// List returns all registrations, optionally filtered by payment status
// @Summary List registrations
// @Description List all registrations with pagination
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "Payment status filter"
// @Success 200 {object} response.Response
// @Router /admin/registrations [get]
func (h *AdminRegistrationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.regService.ListAll(c.Context(), params.Page, params.Limit, c.Query("status"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPaymentStatus) {
			return response.BadRequest(c, "Invalid payment status filter")
		}
		return response.InternalServerError(c, "Failed to list registrations")
	}

	return response.Success(c, "Registrations retrieved successfully", result)
}

// ListByEvent returns one event's registrations
// @Summary List event registrations
// @Description List registrations for one event
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Router /admin/events/{id}/registrations [get]
func (h *AdminRegistrationHandler) ListByEvent(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	params := pagination.GetParams(c)

	result, err := h.regService.ListByEvent(c.Context(), uint(id), params.Page, params.Limit)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to list registrations")
	}

	return response.Success(c, "Registrations retrieved successfully", result)
}

// ListForUser returns one user's registrations
// @Summary List user registrations
// @Description List registrations for one user
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Router /admin/users/{id}/registrations [get]
func (h *AdminRegistrationHandler) ListForUser(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid user ID")
	}

	regs, err := h.regService.ListForUser(c.Context(), principal, uint(id))
	if err != nil {
		return registrationError(c, err)
	}

	return response.Success(c, "Registrations retrieved successfully", regs)
}

// Create registers a participant on their behalf
// @Summary Admin register
// @Description Register a participant on their behalf with trusted payment state
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/registrations [post]
func (h *AdminRegistrationHandler) Create(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.AdminRegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reg, err := h.regService.AdminRegister(c.Context(), principal, &req)
	if err != nil {
		return registrationError(c, err)
	}

	return response.Created(c, "Registration created successfully", reg)
}

// UpdatePaymentStatusRequest represents the payment transition body
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// UpdatePaymentStatus transitions a registration's payment state
// @Summary Update payment status
// @Description Transition a registration's payment status, hasPaid is derived
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/registrations/{id}/payment-status [patch]
func (h *AdminRegistrationHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid registration ID")
	}

	var req UpdatePaymentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	reg, err := h.regService.UpdatePaymentStatus(c.Context(), uint(id), req.PaymentStatus)
	if err != nil {
		return registrationError(c, err)
	}

	return response.Success(c, "Payment status updated successfully", reg)
}

// Delete permanently removes a registration (super admin)
// @Summary Delete registration
// @Description Permanently remove a registration and its evidence
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/registrations/{id} [delete]
func (h *AdminRegistrationHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid registration ID")
	}

	if err := h.regService.HardDelete(c.Context(), uint(id)); err != nil {
		return registrationError(c, err)
	}

	return response.Success(c, "Registration deleted successfully", nil)
}
