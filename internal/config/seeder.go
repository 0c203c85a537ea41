package config

import (
	"log"
	"os"
	"time"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedSuperAdmin(); err != nil {
		log.Printf("⚠️ Super admin seeder skipped: %v", err)
	}
	if err := s.seedRegistrationSequence(); err != nil {
		return err
	}
	if getEnv("APP_MODE", "dev") == "dev" {
		if err := s.seedDemoEvents(); err != nil {
			return err
		}
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedSuperAdmin seeds the initial super admin account. The password
// comes from SEED_ADMIN_PASSWORD; without it the seed is skipped so no
// environment ever gets a well-known default credential.
func (s *Seeder) seedSuperAdmin() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", string(domain.RoleSuperAdmin)).Count(&count)
	if count > 0 {
		return nil // Super admin already exists
	}

	seedPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if seedPassword == "" {
		log.Println("⚠️ Skipping super admin seed: SEED_ADMIN_PASSWORD not set")
		return nil
	}

	hashedPassword, err := password.Hash(seedPassword)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     getEnv("SEED_ADMIN_EMAIL", "admin@apcb.org"),
		Password:  hashedPassword,
		Role:      string(domain.RoleSuperAdmin),
	}
	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Super admin created: %s", admin.Email)
	return nil
}

// seedRegistrationSequence ensures the allocator row exists so the first
// registration does not have to create it inside its transaction.
func (s *Seeder) seedRegistrationSequence() error {
	var count int64
	s.db.Model(&models.RegistrationSequence{}).Count(&count)
	if count > 0 {
		return nil
	}

	return s.db.Create(&models.RegistrationSequence{ID: 1, Value: 0}).Error
}

// seedDemoEvents seeds sample events for development environments
func (s *Seeder) seedDemoEvents() error {
	var count int64
	s.db.Model(&models.Event{}).Count(&count)
	if count > 0 {
		return nil // Events already exist
	}

	loc := func(v string) *string { return &v }
	seats := func(v int) *int { return &v }
	now := time.Now()

	events := []models.Event{
		{
			Title:        "Annual Procurement Summit",
			Description:  "Three days of plenary sessions and workshops on public procurement reform.",
			StartDate:    now.AddDate(0, 1, 0),
			EndDate:      now.AddDate(0, 1, 3),
			Location:     loc("Lusaka, Zambia"),
			Price:        "250 USD",
			MaxAttendees: seats(300),
			Tags:         "procurement,summit",
			Featured:     true,
		},
		{
			Title:        "Contract Management Masterclass",
			Description:  "Hands-on training covering contract administration and dispute handling.",
			StartDate:    now.AddDate(0, 2, 0),
			EndDate:      now.AddDate(0, 2, 2),
			Location:     loc("Nairobi, Kenya"),
			Price:        "180 USD",
			MaxAttendees: seats(60),
			Tags:         "training,contracts",
		},
	}

	for _, e := range events {
		if err := s.db.Create(&e).Error; err != nil {
			return err
		}
		log.Printf("   Created event: %s", e.Title)
	}
	return nil
}
