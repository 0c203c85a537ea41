package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"

	"apcb-events/internal/adapters/http/middleware"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/core/services"
	"apcb-events/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RegistrationHandler handles self-service registration endpoints
type RegistrationHandler struct {
	regService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(regService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regService: regService}
}

// parseRegisterForm reads the multipart registration submission
func parseRegisterForm(c *fiber.Ctx, userID uint) (*services.RegisterInput, *multipart.FileHeader) {
	eventID, _ := strconv.Atoi(c.FormValue("event_id"))

	input := &services.RegisterInput{
		EventID:       uint(eventID),
		UserID:        userID,
		DelegateType:  c.FormValue("delegate_type"),
		Country:       c.FormValue("country"),
		Organization:  c.FormValue("organization"),
		Position:      c.FormValue("position"),
		PaymentMethod: c.FormValue("payment_method"),
	}

	if v := c.FormValue("notes"); v != "" {
		input.Notes = &v
	}
	if v := c.FormValue("group_size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			input.GroupSize = &size
		}
	}
	if v := c.FormValue("group_payment_amount"); v != "" {
		input.GroupPaymentAmount = &v
	}
	if v := c.FormValue("group_payment_currency"); v != "" {
		input.GroupPaymentCurrency = &v
	}
	if v := c.FormValue("organization_reference"); v != "" {
		input.OrganizationReference = &v
	}

	// Evidence file is optional at parse time; the service decides
	// whether the chosen payment method demands it
	evidence, err := c.FormFile("payment_evidence")
	if err != nil {
		evidence = nil
	}

	return input, evidence
}

// Register handles self-service event registration
// @Summary Register for event
// @Description Submit a registration with payment details and optional evidence
// @Tags Registrations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	input, evidence := parseRegisterForm(c, principal.UserID)

	result, err := h.regService.Register(c.Context(), principal, input, evidence)
	if err != nil {
		return registrationError(c, err)
	}

	return response.Created(c, "Registration submitted successfully", fiber.Map{
		"registration":      result.Registration,
		"evidence_deferred": result.EvidenceDeferred,
	})
}

// MyRegistrations lists the caller's registrations
// @Summary My registrations
// @Description List the authenticated user's registrations with event details
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /registrations/my [get]
func (h *RegistrationHandler) MyRegistrations(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	regs, err := h.regService.ListForUser(c.Context(), principal, principal.UserID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list registrations")
	}

	return response.Success(c, "Registrations retrieved successfully", regs)
}

// Get returns one registration (owner or admin)
// @Summary Get registration
// @Description Get one registration by ID
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid registration ID")
	}

	reg, err := h.regService.GetForPrincipal(c.Context(), principal, uint(id))
	if err != nil {
		return registrationError(c, err)
	}

	return response.Success(c, "Registration retrieved successfully", reg)
}

// Cancel cancels a registration (owner or admin)
// @Summary Cancel registration
// @Description Cancel a registration, releasing its seat
// @Tags Registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /registrations/{id}/cancel [post]
func (h *RegistrationHandler) Cancel(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid registration ID")
	}

	reg, err := h.regService.Cancel(c.Context(), principal, uint(id))
	if err != nil {
		return registrationError(c, err)
	}

	return response.Success(c, "Registration cancelled successfully", reg)
}

// UploadEvidence replaces the payment evidence (owner or finance)
// @Summary Upload payment evidence
// @Description Upload or replace payment evidence for a registration
// @Tags Registrations
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Registration ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /registrations/{id}/evidence [put]
func (h *RegistrationHandler) UploadEvidence(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid registration ID")
	}

	file, err := c.FormFile("payment_evidence")
	if err != nil {
		return response.BadRequest(c, "Evidence file is required")
	}

	reg, err := h.regService.ReplaceEvidence(c.Context(), principal, uint(id), file)
	if err != nil {
		return registrationError(c, err)
	}

	return response.Success(c, "Evidence uploaded successfully", reg)
}

// registrationError maps registration service errors to HTTP responses
func registrationError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return response.ValidationFailed(c, vErr.Fields...)
	case errors.Is(err, domain.ErrInsufficientPermissions):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrEventNotFound):
		return response.NotFound(c, "Event not found")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrRegistrationNotFound):
		return response.NotFound(c, "Registration not found")
	case errors.Is(err, domain.ErrEventFull):
		return response.Conflict(c, "Event is fully booked")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		return response.Conflict(c, "Already registered for this event")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		return response.Conflict(c, "Registration is already cancelled")
	case errors.Is(err, domain.ErrNotCancelled):
		return response.Conflict(c, "Registration is not cancelled")
	case errors.Is(err, domain.ErrInvalidPaymentStatus):
		return response.BadRequest(c, "Invalid payment status")
	case errors.Is(err, domain.ErrStorageUpload):
		return response.InternalServerError(c, "Evidence upload failed, please try again")
	default:
		return response.InternalServerError(c, "Request failed")
	}
}
