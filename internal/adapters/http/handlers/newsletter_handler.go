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

// NewsletterHandler handles newsletter and campaign endpoints
type NewsletterHandler struct {
	newsletterService *services.NewsletterService
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterService *services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// Subscribe handles public newsletter signup
// @Summary Subscribe to newsletter
// @Description Add an email address to the newsletter list
// @Tags Newsletter
// @Accept json
// @Produce json
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /newsletter/subscribe [post]
func (h *NewsletterHandler) Subscribe(c *fiber.Ctx) error {
	var req services.SubscribeInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	sub, err := h.newsletterService.Subscribe(c.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.ValidationFailed(c, vErr.Fields...)
		case errors.Is(err, domain.ErrAlreadySubscribed):
			return response.Conflict(c, "Email is already subscribed")
		default:
			return response.InternalServerError(c, "Failed to subscribe")
		}
	}

	return response.Created(c, "Subscribed successfully", sub)
}

// ListSubscribers returns a page of subscribers (admin)
// @Summary List subscribers
// @Description List newsletter subscribers with pagination
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/newsletter/subscribers [get]
func (h *NewsletterHandler) ListSubscribers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.newsletterService.ListSubscribers(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list subscribers")
	}

	return response.Success(c, "Subscribers retrieved successfully", result)
}

// CreateCampaign records a new email campaign
// @Summary Create campaign
// @Description Create a draft or scheduled email campaign
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/campaigns [post]
func (h *NewsletterHandler) CreateCampaign(c *fiber.Ctx) error {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req services.CampaignInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	campaign, err := h.newsletterService.CreateCampaign(c.Context(), principal, &req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return response.ValidationFailed(c, vErr.Fields...)
		}
		return response.InternalServerError(c, "Failed to create campaign")
	}

	return response.Created(c, "Campaign created successfully", campaign)
}

// ListCampaigns returns a page of campaigns (admin)
// @Summary List campaigns
// @Description List email campaigns with pagination
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/campaigns [get]
func (h *NewsletterHandler) ListCampaigns(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	result, err := h.newsletterService.ListCampaigns(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list campaigns")
	}

	return response.Success(c, "Campaigns retrieved successfully", result)
}

// GetCampaign returns one campaign (admin)
// @Summary Get campaign
// @Description Get one campaign by ID
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/campaigns/{id} [get]
func (h *NewsletterHandler) GetCampaign(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid campaign ID")
	}

	campaign, err := h.newsletterService.GetCampaign(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrCampaignNotFound) {
			return response.NotFound(c, "Campaign not found")
		}
		return response.InternalServerError(c, "Failed to get campaign")
	}

	return response.Success(c, "Campaign retrieved successfully", campaign)
}

// SendCampaign dispatches a campaign immediately
// @Summary Send campaign
// @Description Send a draft or scheduled campaign now
// @Tags Newsletter
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campaign ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/campaigns/{id}/send [post]
func (h *NewsletterHandler) SendCampaign(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid campaign ID")
	}

	campaign, err := h.newsletterService.SendCampaign(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCampaignNotFound):
			return response.NotFound(c, "Campaign not found")
		case errors.Is(err, domain.ErrCampaignSent):
			return response.Conflict(c, "Campaign has already been sent")
		default:
			return response.InternalServerError(c, "Failed to send campaign")
		}
	}

	return response.Success(c, "Campaign sent successfully", campaign)
}
