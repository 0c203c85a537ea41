package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/pagination"
)

type fakeNewsletterRepo struct {
	subs map[string]*models.NewsletterSubscription
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{subs: make(map[string]*models.NewsletterSubscription)}
}

func (f *fakeNewsletterRepo) Subscribe(ctx context.Context, sub *models.NewsletterSubscription) error {
	sub.ID = uint(len(f.subs) + 1)
	f.subs[sub.Email] = sub
	return nil
}

func (f *fakeNewsletterRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := f.subs[email]
	return ok, nil
}

func (f *fakeNewsletterRepo) List(ctx context.Context, params *pagination.Params) ([]*models.NewsletterSubscription, int64, error) {
	var out []*models.NewsletterSubscription
	for _, s := range f.subs {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeNewsletterRepo) SubscriberEmails(ctx context.Context) ([]string, error) {
	var out []string
	for email := range f.subs {
		out = append(out, email)
	}
	return out, nil
}

type fakeCampaignRepo struct {
	campaigns   map[uint]*models.EmailCampaign
	registrants []string
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: make(map[uint]*models.EmailCampaign)}
}

func (f *fakeCampaignRepo) Create(ctx context.Context, c *models.EmailCampaign) error {
	c.ID = uint(len(f.campaigns) + 1)
	f.campaigns[c.ID] = c
	return nil
}

func (f *fakeCampaignRepo) GetByID(ctx context.Context, id uint) (*models.EmailCampaign, error) {
	c, ok := f.campaigns[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return c, nil
}

func (f *fakeCampaignRepo) Update(ctx context.Context, c *models.EmailCampaign) error {
	f.campaigns[c.ID] = c
	return nil
}

func (f *fakeCampaignRepo) List(ctx context.Context, params *pagination.Params) ([]*models.EmailCampaign, int64, error) {
	var out []*models.EmailCampaign
	for _, c := range f.campaigns {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCampaignRepo) DueScheduled(ctx context.Context) ([]*models.EmailCampaign, error) {
	var out []*models.EmailCampaign
	now := time.Now()
	for _, c := range f.campaigns {
		if c.Status == string(domain.CampaignScheduled) && c.ScheduledAt != nil && c.ScheduledAt.Before(now) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) RegistrantEmails(ctx context.Context, eventID *uint) ([]string, error) {
	return f.registrants, nil
}

func newNewsletterFixture() (*NewsletterService, *fakeNewsletterRepo, *fakeCampaignRepo) {
	subs := newFakeNewsletterRepo()
	campaigns := newFakeCampaignRepo()
	svc := NewNewsletterService(subs, campaigns, NewMailService("", "", ""))
	return svc, subs, campaigns
}

func adminPrincipal() domain.Principal {
	return domain.Principal{UserID: 1, Role: domain.RoleSuperAdmin}
}

func TestSubscribeRejectsDuplicate(t *testing.T) {
	svc, _, _ := newNewsletterFixture()
	ctx := context.Background()

	if _, err := svc.Subscribe(ctx, &SubscribeInput{Email: "news@example.org"}); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	_, err := svc.Subscribe(ctx, &SubscribeInput{Email: "news@example.org"})
	if !errors.Is(err, domain.ErrAlreadySubscribed) {
		t.Errorf("error = %v, want ErrAlreadySubscribed", err)
	}
}

func TestSubscribeValidatesEmail(t *testing.T) {
	svc, _, _ := newNewsletterFixture()

	_, err := svc.Subscribe(context.Background(), &SubscribeInput{Email: "not-an-email"})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreateCampaignRejectsPastSchedule(t *testing.T) {
	svc, _, _ := newNewsletterFixture()

	past := time.Now().Add(-time.Hour)
	_, err := svc.CreateCampaign(context.Background(), adminPrincipal(), &CampaignInput{
		Subject:     "Upcoming workshops",
		Body:        "<p>Hello</p>",
		Audience:    string(domain.AudienceSubscribers),
		ScheduledAt: &past,
	})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestCreateCampaignStatuses(t *testing.T) {
	svc, _, _ := newNewsletterFixture()
	ctx := context.Background()

	draft, err := svc.CreateCampaign(ctx, adminPrincipal(), &CampaignInput{
		Subject:  "Upcoming workshops",
		Body:     "<p>Hello</p>",
		Audience: string(domain.AudienceSubscribers),
	})
	if err != nil {
		t.Fatal(err)
	}
	if draft.Status != string(domain.CampaignDraft) {
		t.Errorf("Status = %s, want draft", draft.Status)
	}

	future := time.Now().Add(time.Hour)
	scheduled, err := svc.CreateCampaign(ctx, adminPrincipal(), &CampaignInput{
		Subject:     "Reminder",
		Body:        "<p>Hello</p>",
		Audience:    string(domain.AudienceSubscribers),
		ScheduledAt: &future,
	})
	if err != nil {
		t.Fatal(err)
	}
	if scheduled.Status != string(domain.CampaignScheduled) {
		t.Errorf("Status = %s, want scheduled", scheduled.Status)
	}
}

func TestSendCampaignDeduplicatesAllAudience(t *testing.T) {
	svc, subs, campaigns := newNewsletterFixture()
	ctx := context.Background()

	subs.subs["shared@example.org"] = &models.NewsletterSubscription{Email: "shared@example.org"}
	subs.subs["subscriber@example.org"] = &models.NewsletterSubscription{Email: "subscriber@example.org"}
	campaigns.registrants = []string{"shared@example.org", "delegate@example.org"}

	created, err := svc.CreateCampaign(ctx, adminPrincipal(), &CampaignInput{
		Subject:  "Annual conference",
		Body:     "<p>Hello</p>",
		Audience: string(domain.AudienceAll),
	})
	if err != nil {
		t.Fatal(err)
	}

	sent, err := svc.SendCampaign(ctx, created.ID)
	if err != nil {
		t.Fatalf("SendCampaign() error = %v", err)
	}
	if sent.Recipients != 3 {
		t.Errorf("Recipients = %d, want 3 (deduplicated)", sent.Recipients)
	}
	if sent.Status != string(domain.CampaignSent) {
		t.Errorf("Status = %s, want sent", sent.Status)
	}
	if sent.SentAt == nil {
		t.Error("SentAt should be recorded")
	}
}

func TestSendCampaignRejectsResend(t *testing.T) {
	svc, subs, _ := newNewsletterFixture()
	ctx := context.Background()

	subs.subs["a@example.org"] = &models.NewsletterSubscription{Email: "a@example.org"}

	created, err := svc.CreateCampaign(ctx, adminPrincipal(), &CampaignInput{
		Subject:  "Once only",
		Body:     "<p>Hello</p>",
		Audience: string(domain.AudienceSubscribers),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendCampaign(ctx, created.ID); err != nil {
		t.Fatal(err)
	}

	_, err = svc.SendCampaign(ctx, created.ID)
	if !errors.Is(err, domain.ErrCampaignSent) {
		t.Errorf("error = %v, want ErrCampaignSent", err)
	}
}

func TestDispatchDueSendsOnlyOverdueScheduled(t *testing.T) {
	svc, subs, campaigns := newNewsletterFixture()
	ctx := context.Background()

	subs.subs["a@example.org"] = &models.NewsletterSubscription{Email: "a@example.org"}

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	campaigns.campaigns[1] = &models.EmailCampaign{
		ID: 1, Subject: "Due", Body: "x",
		Audience: string(domain.AudienceSubscribers),
		Status:   string(domain.CampaignScheduled), ScheduledAt: &past,
	}
	campaigns.campaigns[2] = &models.EmailCampaign{
		ID: 2, Subject: "Not yet", Body: "x",
		Audience: string(domain.AudienceSubscribers),
		Status:   string(domain.CampaignScheduled), ScheduledAt: &future,
	}

	svc.DispatchDue(ctx)

	if campaigns.campaigns[1].Status != string(domain.CampaignSent) {
		t.Errorf("overdue campaign status = %s, want sent", campaigns.campaigns[1].Status)
	}
	if campaigns.campaigns[2].Status != string(domain.CampaignScheduled) {
		t.Errorf("future campaign status = %s, want scheduled", campaigns.campaigns[2].Status)
	}
}
