package services

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"regexp"

	"gorm.io/gorm"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/pagination"
	"apcb-events/internal/pkg/storage"
	"apcb-events/internal/pkg/validator"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegistrationService implements the registration workflow and payment
// state machine. All counter-touching mutations go through transactional
// repository primitives so the ledger and the attendee counters never
// diverge.
type RegistrationService struct {
	regRepo   repositories.RegistrationRepository
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
	blobs     storage.BlobStore
	mail      *MailService
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	regRepo repositories.RegistrationRepository,
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	blobs storage.BlobStore,
	mail *MailService,
) *RegistrationService {
	return &RegistrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		blobs:     blobs,
		mail:      mail,
	}
}

// RegisterInput represents the single atomic submission of the multi-step
// registration form. The steps are client-side UX; every rule is enforced
// here regardless of what the client claims to have validated.
type RegisterInput struct {
	EventID       uint    `json:"event_id" validate:"required"`
	UserID        uint    `json:"user_id" validate:"required"`
	DelegateType  string  `json:"delegate_type"`
	Country       string  `json:"country"`
	Organization  string  `json:"organization"`
	Position      string  `json:"position"`
	PaymentMethod string  `json:"payment_method"`
	Notes         *string `json:"notes"`

	// group_payment fields
	GroupSize            *int    `json:"group_size"`
	GroupPaymentAmount   *string `json:"group_payment_amount"`
	GroupPaymentCurrency *string `json:"group_payment_currency"`

	// org_paid fields
	OrganizationReference *string `json:"organization_reference"`
}

// RegistrationResult is the creation outcome. EvidenceDeferred reports
// that a group/org evidence upload failed and may be supplied later.
type RegistrationResult struct {
	Registration     *models.EventRegistration `json:"registration"`
	EvidenceDeferred bool                      `json:"evidence_deferred"`
}

// validateSteps runs the three logical form steps server-side:
// identity → affiliation → payment. Failures name the offending field so
// the client re-prompts for that field only.
func (s *RegistrationService) validateSteps(input *RegisterInput, user *models.User) []domain.FieldError {
	var fields []domain.FieldError

	// Step 1: identity
	if user.FirstName == "" {
		fields = append(fields, domain.FieldError{Field: "first_name", Message: "First name is required"})
	}
	if user.LastName == "" {
		fields = append(fields, domain.FieldError{Field: "last_name", Message: "Last name is required"})
	}
	if !emailPattern.MatchString(user.Email) {
		fields = append(fields, domain.FieldError{Field: "email", Message: "Must be a valid email address"})
	}
	if user.PhoneNumber == nil || *user.PhoneNumber == "" {
		fields = append(fields, domain.FieldError{Field: "phone_number", Message: "Phone number is required"})
	}
	if input.Country == "" {
		fields = append(fields, domain.FieldError{Field: "country", Message: "Country is required"})
	}
	if !domain.ValidDelegateType(domain.DelegateType(input.DelegateType)) {
		fields = append(fields, domain.FieldError{Field: "delegate_type", Message: "Must be one of: private public international"})
	}

	// Step 2: affiliation
	if input.Organization == "" {
		fields = append(fields, domain.FieldError{Field: "organization", Message: "Organization is required"})
	}
	if input.Position == "" {
		fields = append(fields, domain.FieldError{Field: "position", Message: "Position is required"})
	}

	// Step 3: payment
	method := domain.PaymentMethod(input.PaymentMethod)
	if !domain.ValidPaymentMethod(method) {
		fields = append(fields, domain.FieldError{Field: "payment_method", Message: "Must be one of: mobile bank cash group_payment org_paid"})
		return fields
	}
	if method == domain.MethodGroupPayment && (input.GroupSize == nil || *input.GroupSize < 1) {
		fields = append(fields, domain.FieldError{Field: "group_size", Message: "Group size must be at least 1"})
	}
	if method == domain.MethodOrgPaid && (input.OrganizationReference == nil || *input.OrganizationReference == "") {
		fields = append(fields, domain.FieldError{Field: "organization_reference", Message: "Organization reference is required"})
	}

	return fields
}

// Register creates a self-service registration. Payment state submitted by
// the client is never trusted: the row always starts pending, except that
// the org_paid path claims hasPaid immediately pending finance review.
func (s *RegistrationService) Register(ctx context.Context, principal domain.Principal, input *RegisterInput, evidence *multipart.FileHeader) (*RegistrationResult, error) {
	// Self-registration only; staff use the admin path
	if principal.UserID != input.UserID && !principal.Role.Can(domain.CapRegisterOthers) {
		return nil, domain.ErrInsufficientPermissions
	}

	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	// Cheap duplicate pre-check; the creation transaction re-checks under lock
	existing, err := s.regRepo.GetActiveByUserAndEvent(ctx, input.UserID, input.EventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyRegistered
	}

	if fields := s.validateSteps(input, user); len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	method := domain.PaymentMethod(input.PaymentMethod)
	if method.RequiresEvidence() && evidence == nil {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "payment_evidence",
			Message: "Payment evidence is required for this payment method",
		})
	}

	reg := &models.EventRegistration{
		UserID:                input.UserID,
		EventID:               event.ID,
		PaymentStatus:         string(domain.PaymentPending),
		PaymentMethod:         strPtr(input.PaymentMethod),
		HasPaid:               method == domain.MethodOrgPaid,
		DelegateType:          input.DelegateType,
		Country:               input.Country,
		Organization:          input.Organization,
		Position:              input.Position,
		Notes:                 input.Notes,
		GroupSize:             input.GroupSize,
		GroupPaymentAmount:    input.GroupPaymentAmount,
		GroupPaymentCurrency:  input.GroupPaymentCurrency,
		OrganizationReference: input.OrganizationReference,
	}

	// Evidence goes to the blob store before the row exists: mobile/bank
	// block on failure, group/org degrade to "deferred"
	evidenceDeferred := false
	if evidence != nil {
		path, err := s.storeEvidence(ctx, input.UserID, event.ID, evidence, storage.MaxSelfServiceEvidenceSize)
		if err != nil {
			var vErr *domain.ValidationError
			if errors.As(err, &vErr) {
				return nil, err
			}
			if !method.EvidenceDeferrable() {
				log.Printf("❌ Evidence upload failed for user %d event %d: %v", input.UserID, event.ID, err)
				return nil, domain.ErrStorageUpload
			}
			log.Printf("⚠️ Evidence deferred for user %d event %d: %v", input.UserID, event.ID, err)
			evidenceDeferred = true
		} else {
			reg.PaymentEvidence = &path
		}
	}

	if err := s.regRepo.CreateWithClaim(ctx, reg); err != nil {
		// Never leave an orphan blob behind a failed creation
		if reg.PaymentEvidence != nil {
			if delErr := s.blobs.Delete(ctx, *reg.PaymentEvidence); delErr != nil {
				log.Printf("⚠️ Orphan evidence cleanup failed: %v", delErr)
			}
		}
		return nil, err
	}

	created, err := s.regRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, err
	}

	s.mail.SendRegistrationConfirmation(ctx, user, event, created)

	log.Printf("✅ Registration %s created: user %d → event %d (%s)",
		created.RegistrationNumber, input.UserID, event.ID, input.PaymentMethod)
	return &RegistrationResult{Registration: created, EvidenceDeferred: evidenceDeferred}, nil
}

// AdminRegisterInput extends the self-service input with trusted payment
// state for the on-behalf admin path.
type AdminRegisterInput struct {
	RegisterInput
	PaymentStatus string `json:"payment_status"`
	HasPaid       *bool  `json:"has_paid"`
}

// AdminRegister registers a participant on their behalf. Duplicate and
// capacity rules still apply; payment state is trusted admin input.
func (s *RegistrationService) AdminRegister(ctx context.Context, principal domain.Principal, input *AdminRegisterInput) (*models.EventRegistration, error) {
	if !principal.Role.Can(domain.CapRegisterOthers) {
		return nil, domain.ErrInsufficientPermissions
	}

	if fields := validator.Struct(&input.RegisterInput); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	if fields := s.validateSteps(&input.RegisterInput, user); len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	status := domain.PaymentStatus(input.PaymentStatus)
	if input.PaymentStatus == "" {
		status = domain.PaymentPending
	}
	if !domain.ValidPaymentStatus(status) || status == domain.PaymentCancelled {
		return nil, domain.ErrInvalidPaymentStatus
	}

	hasPaid := domain.DerivePaid(status)
	if input.HasPaid != nil {
		hasPaid = *input.HasPaid
	}

	reg := &models.EventRegistration{
		UserID:                input.UserID,
		EventID:               event.ID,
		PaymentStatus:         string(status),
		PaymentMethod:         strPtr(input.PaymentMethod),
		HasPaid:               hasPaid,
		DelegateType:          input.DelegateType,
		Country:               input.Country,
		Organization:          input.Organization,
		Position:              input.Position,
		Notes:                 input.Notes,
		GroupSize:             input.GroupSize,
		GroupPaymentAmount:    input.GroupPaymentAmount,
		GroupPaymentCurrency:  input.GroupPaymentCurrency,
		OrganizationReference: input.OrganizationReference,
	}

	if err := s.regRepo.CreateWithClaim(ctx, reg); err != nil {
		return nil, err
	}

	created, err := s.regRepo.GetByID(ctx, reg.ID)
	if err != nil {
		return nil, err
	}

	s.mail.SendRegistrationConfirmation(ctx, user, event, created)

	log.Printf("✅ Admin %d registered user %d for event %d (%s)",
		principal.UserID, input.UserID, event.ID, created.RegistrationNumber)
	return created, nil
}

// Cancel soft-cancels a registration, releasing its seat. A cancelled
// registration stays cancelled; re-registering creates a new row with a
// new registration number.
func (s *RegistrationService) Cancel(ctx context.Context, principal domain.Principal, regID uint) (*models.EventRegistration, error) {
	reg, err := s.regRepo.GetByID(ctx, regID)
	if err != nil {
		return nil, err
	}

	if !domain.OwnerOrAdmin(principal.UserID, principal.Role, reg.UserID) {
		return nil, domain.ErrInsufficientPermissions
	}
	if !reg.IsActive() {
		return nil, domain.ErrAlreadyCancelled
	}

	if err := s.regRepo.Cancel(ctx, reg.ID, reg.EventID); err != nil {
		return nil, err
	}

	log.Printf("✅ Registration %s cancelled (by user %d)", reg.RegistrationNumber, principal.UserID)
	return s.regRepo.GetByID(ctx, regID)
}

// UpdatePaymentStatus is the finance-gated transition. hasPaid is always
// derived from the new status; re-applying the current status is a no-op.
// Reverting a cancelled registration re-claims a seat and may fail with
// ErrEventFull.
func (s *RegistrationService) UpdatePaymentStatus(ctx context.Context, regID uint, newStatus string) (*models.EventRegistration, error) {
	status := domain.PaymentStatus(newStatus)
	if !domain.ValidPaymentStatus(status) {
		return nil, domain.ErrInvalidPaymentStatus
	}

	reg, err := s.regRepo.GetByID(ctx, regID)
	if err != nil {
		return nil, err
	}

	current := domain.PaymentStatus(reg.PaymentStatus)
	if current == status {
		return reg, nil // idempotent
	}

	hasPaid := domain.DerivePaid(status)
	switch {
	case status == domain.PaymentCancelled:
		err = s.regRepo.Cancel(ctx, reg.ID, reg.EventID)
	case current == domain.PaymentCancelled:
		err = s.regRepo.Reactivate(ctx, reg.ID, reg.EventID, string(status), hasPaid)
	default:
		err = s.regRepo.SetPaymentState(ctx, reg.ID, string(status), hasPaid)
	}
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Registration %s: %s → %s", reg.RegistrationNumber, current, status)
	return s.regRepo.GetByID(ctx, regID)
}

// ReplaceEvidence stores a new evidence blob and only then discards the
// previous one, so the ledger never points at a deleted file.
func (s *RegistrationService) ReplaceEvidence(ctx context.Context, principal domain.Principal, regID uint, file *multipart.FileHeader) (*models.EventRegistration, error) {
	reg, err := s.regRepo.GetByID(ctx, regID)
	if err != nil {
		return nil, err
	}

	isOwner := principal.UserID == reg.UserID
	if !isOwner && !principal.Role.Can(domain.CapManageFinance) {
		return nil, domain.ErrInsufficientPermissions
	}

	maxSize := int64(storage.MaxEvidenceSize)
	if isOwner && !principal.Role.Can(domain.CapManageFinance) {
		maxSize = storage.MaxSelfServiceEvidenceSize
	}

	path, err := s.storeEvidence(ctx, reg.UserID, reg.EventID, file, maxSize)
	if err != nil {
		return nil, err
	}

	oldPath := reg.PaymentEvidence
	if err := s.regRepo.SetEvidence(ctx, reg.ID, path); err != nil {
		// The row still points at the old blob; drop the new one
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			log.Printf("⚠️ Orphan evidence cleanup failed: %v", delErr)
		}
		return nil, err
	}

	if oldPath != nil && *oldPath != path {
		if err := s.blobs.Delete(ctx, *oldPath); err != nil {
			log.Printf("⚠️ Stale evidence cleanup failed for %s: %v", *oldPath, err)
		}
	}

	return s.regRepo.GetByID(ctx, regID)
}

// storeEvidence validates size and sniffed content type, then uploads
func (s *RegistrationService) storeEvidence(ctx context.Context, userID, eventID uint, file *multipart.FileHeader, maxSize int64) (string, error) {
	if file.Size > maxSize {
		return "", domain.NewValidationError(domain.FieldError{
			Field:   "payment_evidence",
			Message: "File size exceeds the allowed limit",
		})
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	contentType, err := storage.SniffContentType(src)
	if err != nil {
		return "", err
	}
	if !storage.AllowedEvidenceType(contentType) {
		return "", domain.NewValidationError(domain.FieldError{
			Field:   "payment_evidence",
			Message: "Only JPEG, PNG and PDF files are accepted",
		})
	}

	path := storage.EvidencePath(userID, eventID, file.Filename)
	if err := s.blobs.Upload(ctx, path, src); err != nil {
		return "", err
	}
	return path, nil
}

// HardDelete permanently removes a registration (super admin only path),
// releasing its seat when still active and discarding its evidence blob.
func (s *RegistrationService) HardDelete(ctx context.Context, regID uint) error {
	reg, err := s.regRepo.GetByID(ctx, regID)
	if err != nil {
		return err
	}

	if err := s.regRepo.HardDelete(ctx, reg.ID, reg.EventID, reg.IsActive()); err != nil {
		return err
	}

	if reg.PaymentEvidence != nil {
		if err := s.blobs.Delete(ctx, *reg.PaymentEvidence); err != nil {
			log.Printf("⚠️ Evidence cleanup failed for %s: %v", *reg.PaymentEvidence, err)
		}
	}

	log.Printf("✅ Registration %s permanently deleted", reg.RegistrationNumber)
	return nil
}

// ListForUser returns a user's registrations with embedded events,
// readable by the owner or any admin-data role
func (s *RegistrationService) ListForUser(ctx context.Context, principal domain.Principal, userID uint) ([]*models.EventRegistration, error) {
	if !domain.OwnerOrAdmin(principal.UserID, principal.Role, userID) {
		return nil, domain.ErrInsufficientPermissions
	}
	return s.regRepo.ListByUser(ctx, userID)
}

// GetForPrincipal returns one registration, owner or admin readable
func (s *RegistrationService) GetForPrincipal(ctx context.Context, principal domain.Principal, regID uint) (*models.EventRegistration, error) {
	reg, err := s.regRepo.GetByID(ctx, regID)
	if err != nil {
		return nil, err
	}
	if !domain.OwnerOrAdmin(principal.UserID, principal.Role, reg.UserID) {
		return nil, domain.ErrInsufficientPermissions
	}
	return reg, nil
}

// ListAll returns a page of every registration (admin surface)
func (s *RegistrationService) ListAll(ctx context.Context, page, limit int, status string) (*pagination.Response, error) {
	if status != "" && !domain.ValidPaymentStatus(domain.PaymentStatus(status)) {
		return nil, domain.ErrInvalidPaymentStatus
	}
	params := pagination.Normalize(page, limit)
	regs, total, err := s.regRepo.List(ctx, params, status)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(regs, params, total), nil
}

// ListByEvent returns a page of one event's registrations (admin surface)
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID uint, page, limit int) (*pagination.Response, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	params := pagination.Normalize(page, limit)
	regs, total, err := s.regRepo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(regs, params, total), nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
