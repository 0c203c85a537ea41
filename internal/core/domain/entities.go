package domain

// Role represents user role in the system
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleFinancePerson Role = "finance_person"
	RoleEventManager  Role = "event_manager"
	RoleOrdinaryUser  Role = "ordinary_user"
)

// Capability represents a single admin-surface permission
type Capability string

const (
	CapManageUsers    Capability = "manage_users"
	CapManageEvents   Capability = "manage_events"
	CapManageFinance  Capability = "manage_finance"
	CapRegisterOthers Capability = "register_others"
	CapViewAdminData  Capability = "view_admin_data"
)

// roleCapabilities enumerates what each role may do. Capabilities are
// listed per role, not inherited; anything missing is denied.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleSuperAdmin: {
		CapManageUsers:    true,
		CapManageEvents:   true,
		CapManageFinance:  true,
		CapRegisterOthers: true,
		CapViewAdminData:  true,
	},
	RoleFinancePerson: {
		CapManageFinance: true,
		CapViewAdminData: true,
	},
	RoleEventManager: {
		CapManageEvents:   true,
		CapRegisterOthers: true,
		CapViewAdminData:  true,
	},
	RoleOrdinaryUser: {},
}

// ValidRole reports whether r is one of the closed role set
func ValidRole(r Role) bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Can reports whether the role holds the given capability
func (r Role) Can(capability Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[capability]
}

// Authorize checks a principal role against an explicit required role set.
// An empty required set denies everyone.
func Authorize(principal Role, required ...Role) error {
	for _, r := range required {
		if principal == r {
			return nil
		}
	}
	return ErrInsufficientPermissions
}

// OwnerOrAdmin reports whether a principal may act on a resource:
// either they own it, or their role carries the admin-data capability.
func OwnerOrAdmin(principalID uint, principal Role, ownerID uint) bool {
	if principalID == ownerID {
		return true
	}
	return principal.Can(CapViewAdminData)
}

// PaymentStatus represents the payment state of a registration
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCompleted PaymentStatus = "completed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentFailed    PaymentStatus = "failed"
)

// ValidPaymentStatus reports whether s is a known payment status
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentCompleted, PaymentCancelled, PaymentFailed:
		return true
	}
	return false
}

// Active reports whether a registration in this status still holds a seat
func (s PaymentStatus) Active() bool {
	return s != PaymentCancelled
}

// PaymentMethod represents how the participant intends to pay
type PaymentMethod string

const (
	MethodMobile       PaymentMethod = "mobile"
	MethodBank         PaymentMethod = "bank"
	MethodCash         PaymentMethod = "cash"
	MethodGroupPayment PaymentMethod = "group_payment"
	MethodOrgPaid      PaymentMethod = "org_paid"
)

// ValidPaymentMethod reports whether m is a known payment method
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case MethodMobile, MethodBank, MethodCash, MethodGroupPayment, MethodOrgPaid:
		return true
	}
	return false
}

// RequiresEvidence reports whether the method needs an uploaded proof of
// payment before submission completes. Group and org-paid evidence may be
// supplied later; cash is settled at the venue.
func (m PaymentMethod) RequiresEvidence() bool {
	return m == MethodMobile || m == MethodBank
}

// EvidenceDeferrable reports whether a failed evidence upload should
// degrade to "evidence deferred" instead of failing the registration.
func (m PaymentMethod) EvidenceDeferrable() bool {
	return m == MethodGroupPayment || m == MethodOrgPaid
}

// DerivePaid returns the hasPaid flag implied by a payment status
func DerivePaid(s PaymentStatus) bool {
	return s == PaymentPaid || s == PaymentCompleted
}

// DelegateType represents the pricing/category tier of a participant
type DelegateType string

const (
	DelegatePrivate       DelegateType = "private"
	DelegatePublic        DelegateType = "public"
	DelegateInternational DelegateType = "international"
)

// ValidDelegateType reports whether d is a known delegate type
func ValidDelegateType(d DelegateType) bool {
	switch d {
	case DelegatePrivate, DelegatePublic, DelegateInternational:
		return true
	}
	return false
}

// CampaignStatus represents the lifecycle of an email campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSent      CampaignStatus = "sent"
	CampaignFailed    CampaignStatus = "failed"
)

// CampaignAudience selects who a campaign is delivered to
type CampaignAudience string

const (
	AudienceSubscribers CampaignAudience = "subscribers"
	AudienceRegistrants CampaignAudience = "registrants"
	AudienceAll         CampaignAudience = "all"
)

// ValidCampaignAudience reports whether a is a known audience
func ValidCampaignAudience(a CampaignAudience) bool {
	switch a {
	case AudienceSubscribers, AudienceRegistrants, AudienceAll:
		return true
	}
	return false
}

// Principal is the authenticated identity attached to a request
type Principal struct {
	UserID uint
	Email  string
	Role   Role
}

// FieldError is a validation failure tied to a single input field so the
// caller can re-prompt for that field only.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
