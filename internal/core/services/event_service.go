package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/cache"
	"apcb-events/internal/pkg/pagination"
	"apcb-events/internal/pkg/validator"
)

const eventCachePrefix = "events:list:"

// EventService handles event catalogue business logic
type EventService struct {
	eventRepo repositories.EventRepository
	cache     *cache.Cache
}

// NewEventService creates a new event service
func NewEventService(eventRepo repositories.EventRepository, c *cache.Cache) *EventService {
	return &EventService{eventRepo: eventRepo, cache: c}
}

// EventInput represents create/update event input
type EventInput struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required"`
	Location     *string   `json:"location"`
	Price        string    `json:"price" validate:"required"`
	MaxAttendees *int      `json:"max_attendees" validate:"omitempty,gte=1"`
	ImageURL     *string   `json:"image_url"`
	Tags         []string  `json:"tags"`
	Featured     bool      `json:"featured"`
}

func (s *EventService) validate(input *EventInput) error {
	if fields := validator.Struct(input); fields != nil {
		return domain.NewValidationError(fields...)
	}
	if input.EndDate.Before(input.StartDate) {
		return domain.NewValidationError(domain.FieldError{
			Field:   "end_date",
			Message: "End date must not be before start date",
		})
	}
	return nil
}

// CreateEvent creates a new event
func (s *EventService) CreateEvent(ctx context.Context, input *EventInput) (*models.EventResponse, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:        input.Title,
		Description:  input.Description,
		StartDate:    input.StartDate,
		EndDate:      input.EndDate,
		Location:     input.Location,
		Price:        input.Price,
		MaxAttendees: input.MaxAttendees,
		ImageURL:     input.ImageURL,
		Featured:     input.Featured,
	}
	event.SetTags(input.Tags)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, eventCachePrefix)
	log.Printf("✅ Event created: %s (ID: %d)", event.Title, event.ID)
	return event.ToResponse(), nil
}

// UpdateEvent updates an event. The attendee counter is never touched here.
func (s *EventService) UpdateEvent(ctx context.Context, id uint, input *EventInput) (*models.EventResponse, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	event.Title = input.Title
	event.Description = input.Description
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	event.Location = input.Location
	event.Price = input.Price
	event.MaxAttendees = input.MaxAttendees
	event.ImageURL = input.ImageURL
	event.Featured = input.Featured
	event.SetTags(input.Tags)

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.cache.InvalidatePrefix(ctx, eventCachePrefix)
	return event.ToResponse(), nil
}

// DeleteEvent removes an event, blocked while active registrations exist
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if _, err := s.eventRepo.GetByID(ctx, id); err != nil {
		return err
	}

	active, err := s.eventRepo.CountActiveRegistrations(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ErrEventHasRegistrations
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.InvalidatePrefix(ctx, eventCachePrefix)
	log.Printf("✅ Event %d deleted", id)
	return nil
}

// ListEventsInput represents public listing input
type ListEventsInput struct {
	Page     int
	Limit    int
	Tag      string
	Featured *bool
	Upcoming bool
}

// listCacheKey builds a stable key for a listing query. The featured
// filter is a *bool, so it is dereferenced into one of nil/true/false
// before formatting; identical queries must always share a key.
func listCacheKey(params *pagination.Params, input *ListEventsInput) string {
	featured := "nil"
	if input.Featured != nil {
		featured = strconv.FormatBool(*input.Featured)
	}
	return fmt.Sprintf("%sp%d:l%d:t%s:f%s:u%t",
		eventCachePrefix, params.Page, params.Limit, input.Tag, featured, input.Upcoming)
}

// ListEvents returns the public event catalogue, cached per query shape
func (s *EventService) ListEvents(ctx context.Context, input *ListEventsInput) (*pagination.Response, error) {
	params := pagination.Normalize(input.Page, input.Limit)
	key := listCacheKey(params, input)

	var cached pagination.Response
	if s.cache.GetJSON(ctx, key, &cached) {
		return &cached, nil
	}

	filter := repositories.EventFilter{
		Tag:      input.Tag,
		Featured: input.Featured,
		Upcoming: input.Upcoming,
	}
	events, total, err := s.eventRepo.List(ctx, params, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.EventResponse, 0, len(events))
	for _, e := range events {
		responses = append(responses, e.ToResponse())
	}

	result := pagination.NewResponse(responses, params, total)
	s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// GetEvent returns a single event
func (s *EventService) GetEvent(ctx context.Context, id uint) (*models.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return event.ToResponse(), nil
}
