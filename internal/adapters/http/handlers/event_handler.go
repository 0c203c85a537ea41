package handlers

import (
	"errors"
	"strconv"

	"apcb-events/internal/core/domain"
	"apcb-events/internal/core/services"
	"apcb-events/internal/pkg/pagination"
	"apcb-events/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EventHandler handles event catalogue endpoints
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// List handles the public event catalogue
// @Summary List events
// @Description List events with pagination and filters
// @Tags Events
// @Accept json
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param tag query string false "Filter by tag"
// @Param featured query bool false "Only featured events"
// @Param upcoming query bool false "Only upcoming events"
// @Success 200 {object} response.Response
// @Router /events [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListEventsInput{
		Page:     params.Page,
		Limit:    params.Limit,
		Tag:      c.Query("tag"),
		Upcoming: c.QueryBool("upcoming", false),
	}
	if v := c.Query("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			return response.BadRequest(c, "Invalid featured filter")
		}
		input.Featured = &featured
	}

	result, err := h.eventService.ListEvents(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	return response.Success(c, "Events retrieved successfully", result)
}

// Get handles single event retrieval
// @Summary Get event
// @Description Get one event by ID
// @Tags Events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.eventService.GetEvent(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to get event")
	}

	return response.Success(c, "Event retrieved successfully", event)
}

// Create handles event creation (event staff)
// @Summary Create event
// @Description Create a new event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/events [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req services.EventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.CreateEvent(c.Context(), &req)
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			return response.ValidationFailed(c, vErr.Fields...)
		}
		return response.InternalServerError(c, "Failed to create event")
	}

	return response.Created(c, "Event created successfully", event)
}

// Update handles event update (event staff)
// @Summary Update event
// @Description Update an existing event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/events/{id} [put]
func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	var req services.EventInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	event, err := h.eventService.UpdateEvent(c.Context(), uint(id), &req)
	if err != nil {
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			return response.ValidationFailed(c, vErr.Fields...)
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		default:
			return response.InternalServerError(c, "Failed to update event")
		}
	}

	return response.Success(c, "Event updated successfully", event)
}

// Delete handles event deletion (event staff)
// @Summary Delete event
// @Description Delete an event without active registrations
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/events/{id} [delete]
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid event ID")
	}

	if err := h.eventService.DeleteEvent(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			return response.NotFound(c, "Event not found")
		case errors.Is(err, domain.ErrEventHasRegistrations):
			return response.Conflict(c, "Event has active registrations")
		default:
			return response.InternalServerError(c, "Failed to delete event")
		}
	}

	return response.Success(c, "Event deleted successfully", nil)
}
