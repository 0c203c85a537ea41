package domain

import "testing"

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleSuperAdmin, CapManageUsers, true},
		{RoleSuperAdmin, CapManageEvents, true},
		{RoleSuperAdmin, CapManageFinance, true},
		{RoleSuperAdmin, CapRegisterOthers, true},
		{RoleSuperAdmin, CapViewAdminData, true},

		{RoleFinancePerson, CapManageFinance, true},
		{RoleFinancePerson, CapViewAdminData, true},
		{RoleFinancePerson, CapManageUsers, false},
		{RoleFinancePerson, CapManageEvents, false},
		{RoleFinancePerson, CapRegisterOthers, false},

		{RoleEventManager, CapManageEvents, true},
		{RoleEventManager, CapRegisterOthers, true},
		{RoleEventManager, CapViewAdminData, true},
		{RoleEventManager, CapManageUsers, false},
		{RoleEventManager, CapManageFinance, false},

		{RoleOrdinaryUser, CapManageUsers, false},
		{RoleOrdinaryUser, CapManageEvents, false},
		{RoleOrdinaryUser, CapManageFinance, false},
		{RoleOrdinaryUser, CapRegisterOthers, false},
		{RoleOrdinaryUser, CapViewAdminData, false},

		// Unknown roles hold nothing
		{Role("superuser"), CapManageUsers, false},
		{Role(""), CapViewAdminData, false},
	}

	for _, tt := range tests {
		if got := tt.role.Can(tt.capability); got != tt.want {
			t.Errorf("%s.Can(%s) = %v, want %v", tt.role, tt.capability, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range []Role{RoleSuperAdmin, RoleFinancePerson, RoleEventManager, RoleOrdinaryUser} {
		if !ValidRole(r) {
			t.Errorf("ValidRole(%s) = false, want true", r)
		}
	}
	for _, r := range []Role{"admin", "ADMIN", "", "finance"} {
		if ValidRole(r) {
			t.Errorf("ValidRole(%s) = true, want false", r)
		}
	}
}

func TestAuthorize(t *testing.T) {
	if err := Authorize(RoleFinancePerson, RoleSuperAdmin, RoleFinancePerson); err != nil {
		t.Errorf("finance_person should be allowed: %v", err)
	}
	if err := Authorize(RoleOrdinaryUser, RoleSuperAdmin, RoleFinancePerson); err == nil {
		t.Error("ordinary_user should be denied")
	}
	// Empty required set denies everyone
	if err := Authorize(RoleSuperAdmin); err == nil {
		t.Error("empty required set should deny super_admin too")
	}
}

func TestOwnerOrAdmin(t *testing.T) {
	tests := []struct {
		name        string
		principalID uint
		role        Role
		ownerID     uint
		want        bool
	}{
		{"owner", 5, RoleOrdinaryUser, 5, true},
		{"other ordinary user", 5, RoleOrdinaryUser, 6, false},
		{"super admin", 1, RoleSuperAdmin, 6, true},
		{"finance person", 2, RoleFinancePerson, 6, true},
		{"event manager", 3, RoleEventManager, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OwnerOrAdmin(tt.principalID, tt.role, tt.ownerID); got != tt.want {
				t.Errorf("OwnerOrAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPaymentStatus(t *testing.T) {
	for _, s := range []PaymentStatus{PaymentPending, PaymentPaid, PaymentCompleted, PaymentCancelled, PaymentFailed} {
		if !ValidPaymentStatus(s) {
			t.Errorf("ValidPaymentStatus(%s) = false, want true", s)
		}
	}
	if ValidPaymentStatus("refunded") {
		t.Error("ValidPaymentStatus(refunded) = true, want false")
	}

	// Only cancelled releases the seat
	for _, s := range []PaymentStatus{PaymentPending, PaymentPaid, PaymentCompleted, PaymentFailed} {
		if !s.Active() {
			t.Errorf("%s.Active() = false, want true", s)
		}
	}
	if PaymentCancelled.Active() {
		t.Error("cancelled.Active() = true, want false")
	}
}

func TestDerivePaid(t *testing.T) {
	tests := []struct {
		status PaymentStatus
		want   bool
	}{
		{PaymentPending, false},
		{PaymentPaid, true},
		{PaymentCompleted, true},
		{PaymentCancelled, false},
		{PaymentFailed, false},
	}

	for _, tt := range tests {
		if got := DerivePaid(tt.status); got != tt.want {
			t.Errorf("DerivePaid(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPaymentMethod(t *testing.T) {
	if !MethodMobile.RequiresEvidence() || !MethodBank.RequiresEvidence() {
		t.Error("mobile and bank must require evidence")
	}
	for _, m := range []PaymentMethod{MethodCash, MethodGroupPayment, MethodOrgPaid} {
		if m.RequiresEvidence() {
			t.Errorf("%s.RequiresEvidence() = true, want false", m)
		}
	}

	if !MethodGroupPayment.EvidenceDeferrable() || !MethodOrgPaid.EvidenceDeferrable() {
		t.Error("group_payment and org_paid must be deferrable")
	}
	for _, m := range []PaymentMethod{MethodMobile, MethodBank, MethodCash} {
		if m.EvidenceDeferrable() {
			t.Errorf("%s.EvidenceDeferrable() = true, want false", m)
		}
	}

	if ValidPaymentMethod("credit_card") {
		t.Error("ValidPaymentMethod(credit_card) = true, want false")
	}
}

func TestValidationError(t *testing.T) {
	if err := NewValidationError(); err != nil {
		t.Errorf("NewValidationError() with no fields = %v, want nil", err)
	}

	err := NewValidationError(
		FieldError{Field: "country", Message: "Country is required"},
		FieldError{Field: "position", Message: "Position is required"},
	)
	if err == nil {
		t.Fatal("NewValidationError() with fields = nil, want error")
	}
	vErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(vErr.Fields) != 2 {
		t.Errorf("len(Fields) = %d, want 2", len(vErr.Fields))
	}
}
