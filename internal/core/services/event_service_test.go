package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/cache"
	"apcb-events/internal/pkg/pagination"
)

type fakeEventRepoWithCounts struct {
	fakeEventRepo
	activeCounts map[uint]int64
	deleted      []uint
}

func newFakeEventRepoWithCounts() *fakeEventRepoWithCounts {
	return &fakeEventRepoWithCounts{
		fakeEventRepo: *newFakeEventRepo(),
		activeCounts:  make(map[uint]int64),
	}
}

func (f *fakeEventRepoWithCounts) CountActiveRegistrations(ctx context.Context, eventID uint) (int64, error) {
	return f.activeCounts[eventID], nil
}

func (f *fakeEventRepoWithCounts) Delete(ctx context.Context, id uint) error {
	delete(f.events, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func validEventInput() *EventInput {
	return &EventInput{
		Title:       "Contract Management Workshop",
		Description: "Two day practical workshop",
		StartDate:   time.Now().Add(14 * 24 * time.Hour),
		EndDate:     time.Now().Add(16 * 24 * time.Hour),
		Price:       "150",
		Tags:        []string{"procurement", "workshop"},
	}
}

func TestCreateEventValidation(t *testing.T) {
	repo := newFakeEventRepoWithCounts()
	svc := NewEventService(repo, cache.New(nil, 0))
	ctx := context.Background()

	// End before start
	input := validEventInput()
	input.EndDate = input.StartDate.Add(-time.Hour)
	_, err := svc.CreateEvent(ctx, input)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %v, want validation error", err)
	}

	// Missing title
	input = validEventInput()
	input.Title = ""
	if _, err := svc.CreateEvent(ctx, input); !errors.As(err, &vErr) {
		t.Errorf("error = %v, want validation error", err)
	}

	// Zero capacity cap
	input = validEventInput()
	zero := 0
	input.MaxAttendees = &zero
	if _, err := svc.CreateEvent(ctx, input); !errors.As(err, &vErr) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreateEventStoresTags(t *testing.T) {
	repo := newFakeEventRepoWithCounts()
	svc := NewEventService(repo, cache.New(nil, 0))

	event, err := svc.CreateEvent(context.Background(), validEventInput())
	if err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	if len(event.Tags) != 2 || event.Tags[0] != "procurement" || event.Tags[1] != "workshop" {
		t.Errorf("Tags = %v, want [procurement workshop]", event.Tags)
	}
	if event.CurrentAttendees != 0 {
		t.Errorf("CurrentAttendees = %d, want 0", event.CurrentAttendees)
	}
}

func TestDeleteEventBlockedByActiveRegistrations(t *testing.T) {
	repo := newFakeEventRepoWithCounts()
	svc := NewEventService(repo, cache.New(nil, 0))
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, validEventInput())
	if err != nil {
		t.Fatal(err)
	}

	repo.activeCounts[created.ID] = 3
	err = svc.DeleteEvent(ctx, created.ID)
	if !errors.Is(err, domain.ErrEventHasRegistrations) {
		t.Errorf("error = %v, want ErrEventHasRegistrations", err)
	}

	repo.activeCounts[created.ID] = 0
	if err := svc.DeleteEvent(ctx, created.ID); err != nil {
		t.Errorf("DeleteEvent() error = %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("deleted = %v, want one deletion", repo.deleted)
	}
}

func TestListCacheKeyIsStable(t *testing.T) {
	params := pagination.Normalize(1, 10)

	// Two Featured pointers holding the same value must share a key
	a, b := true, true
	k1 := listCacheKey(params, &ListEventsInput{Tag: "workshop", Featured: &a})
	k2 := listCacheKey(params, &ListEventsInput{Tag: "workshop", Featured: &b})
	if k1 != k2 {
		t.Errorf("keys differ for identical queries: %s vs %s", k1, k2)
	}
	if k1 != "events:list:p1:l10:tworkshop:ftrue:ufalse" {
		t.Errorf("key = %s, want events:list:p1:l10:tworkshop:ftrue:ufalse", k1)
	}

	// nil, true and false filters are distinct queries
	f := false
	unfiltered := listCacheKey(params, &ListEventsInput{})
	filteredOut := listCacheKey(params, &ListEventsInput{Featured: &f})
	if unfiltered == filteredOut || unfiltered == k1 {
		t.Errorf("featured filter variants must not collide: %s, %s, %s", unfiltered, filteredOut, k1)
	}
	if unfiltered != "events:list:p1:l10:t:fnil:ufalse" {
		t.Errorf("key = %s, want events:list:p1:l10:t:fnil:ufalse", unfiltered)
	}
}

func TestGetEventNotFound(t *testing.T) {
	repo := newFakeEventRepoWithCounts()
	svc := NewEventService(repo, cache.New(nil, 0))

	_, err := svc.GetEvent(context.Background(), 404)
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("error = %v, want ErrEventNotFound", err)
	}
}
