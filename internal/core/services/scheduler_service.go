package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"apcb-events/internal/adapters/persistence/repositories"
)

const (
	// Scheduled campaigns: check every minute
	campaignDispatchSpec = "* * * * *"
	// Expired refresh tokens: purge daily at 03:00
	tokenCleanupSpec = "0 3 * * *"
)

// SchedulerService runs the background jobs: scheduled campaign dispatch
// and refresh token cleanup.
type SchedulerService struct {
	cron             *cron.Cron
	newsletter       *NewsletterService
	refreshTokenRepo repositories.RefreshTokenRepository
}

// NewSchedulerService creates a new scheduler service
func NewSchedulerService(newsletter *NewsletterService, refreshTokenRepo repositories.RefreshTokenRepository) *SchedulerService {
	return &SchedulerService{
		cron:             cron.New(),
		newsletter:       newsletter,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Start registers the jobs and launches the scheduler
func (s *SchedulerService) Start() {
	if _, err := s.cron.AddFunc(campaignDispatchSpec, func() {
		s.newsletter.DispatchDue(context.Background())
	}); err != nil {
		log.Printf("❌ Failed to schedule campaign dispatch: %v", err)
	}

	if _, err := s.cron.AddFunc(tokenCleanupSpec, func() {
		if err := s.refreshTokenRepo.DeleteExpired(context.Background()); err != nil {
			log.Printf("❌ Refresh token cleanup error: %v", err)
		}
	}); err != nil {
		log.Printf("❌ Failed to schedule refresh token cleanup: %v", err)
	}

	s.cron.Start()
	log.Println("🚀 SchedulerService started")
}

// Stop gracefully stops the scheduler
func (s *SchedulerService) Stop() {
	s.cron.Stop()
	log.Println("🛑 SchedulerService stopped")
}
