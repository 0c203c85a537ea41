package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"apcb-events/internal/adapters/persistence/models"
)

// MailService delivers transactional and campaign email through an HTTP
// mail API. When no API key is configured delivery is a silent no-op so
// local setups run without mail credentials.
type MailService struct {
	apiURL  string
	apiKey  string
	from    string
	client  *http.Client
	enabled bool
}

// NewMailService creates a new mail service
func NewMailService(apiURL, apiKey, from string) *MailService {
	return &MailService{
		apiURL:  apiURL,
		apiKey:  apiKey,
		from:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
		enabled: apiURL != "" && apiKey != "",
	}
}

// IsEnabled checks if mail delivery is enabled
func (s *MailService) IsEnabled() bool {
	return s.enabled
}

type mailPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send delivers one message to the given recipients
func (s *MailService) Send(ctx context.Context, to []string, subject, body string) error {
	if !s.enabled || len(to) == 0 {
		return nil
	}

	payload, err := json.Marshal(mailPayload{
		From:    s.from,
		To:      to,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode)
	}
	return nil
}

// SendBatch delivers one message per recipient and reports how many went
// out. Individual failures are logged and skipped, not fatal.
func (s *MailService) SendBatch(ctx context.Context, recipients []string, subject, body string) int {
	sent := 0
	for _, addr := range recipients {
		if err := s.Send(ctx, []string{addr}, subject, body); err != nil {
			log.Printf("⚠️ Mail to %s failed: %v", addr, err)
			continue
		}
		sent++
	}
	return sent
}

// SendRegistrationConfirmation emails the participant their registration
// number and event details. Best effort, never blocks the registration.
func (s *MailService) SendRegistrationConfirmation(ctx context.Context, user *models.User, event *models.Event, reg *models.EventRegistration) {
	if !s.enabled {
		return
	}

	subject := fmt.Sprintf("Registration confirmed: %s", event.Title)
	body := fmt.Sprintf(
		`<p>Dear %s %s,</p>
<p>Your registration for <strong>%s</strong> has been received.</p>
<p>Registration number: <strong>%s</strong><br>
Event dates: %s to %s</p>
<p>Please keep your registration number for reference.</p>`,
		user.FirstName, user.LastName,
		event.Title,
		reg.RegistrationNumber,
		event.StartDate.Format("2 January 2006"),
		event.EndDate.Format("2 January 2006"),
	)

	if err := s.Send(ctx, []string{user.Email}, subject, body); err != nil {
		log.Printf("⚠️ Confirmation mail for %s failed: %v", reg.RegistrationNumber, err)
	}
}

// SendWelcome emails an admin-created account its initial password
func (s *MailService) SendWelcome(ctx context.Context, user *models.User, initialPassword string) {
	if !s.enabled {
		return
	}

	subject := "Your account has been created"
	body := fmt.Sprintf(
		`<p>Dear %s %s,</p>
<p>An account has been created for you.</p>
<p>Email: %s<br>
Temporary password: <strong>%s</strong></p>
<p>Please sign in and change your password.</p>`,
		user.FirstName, user.LastName, user.Email, initialPassword,
	)

	if err := s.Send(ctx, []string{user.Email}, subject, body); err != nil {
		log.Printf("⚠️ Welcome mail for %s failed: %v", user.Email, err)
	}
}
