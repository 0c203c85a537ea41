package jwt

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "amina@example.org", "finance_person", "test-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ValidateAccessToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "amina@example.org" {
		t.Errorf("Email = %s, want amina@example.org", claims.Email)
	}
	if claims.Role != "finance_person" {
		t.Errorf("Role = %s, want finance_person", claims.Role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.co", "ordinary_user", "right-secret", 15)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateAccessToken(token, "wrong-secret"); err != ErrTokenInvalid {
		t.Errorf("error = %v, want ErrTokenInvalid", err)
	}
}

func TestAccessTokenExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "a@b.co", "ordinary_user", "secret", -1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ValidateAccessToken(token, "secret"); err != ErrTokenExpired {
		t.Errorf("error = %v, want ErrTokenExpired", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-uuid", "refresh-secret", 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := ValidateRefreshToken(token, "refresh-secret")
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if claims.UserID != 7 || claims.TokenID != "token-uuid" {
		t.Errorf("claims = %+v, want UserID 7 TokenID token-uuid", claims)
	}
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	token, err := GenerateRefreshToken(7, "token-uuid", "same-secret", 7)
	if err != nil {
		t.Fatal(err)
	}

	// A refresh token carries no access claims; validating it as an access
	// token with the same key must still yield empty identity, not panic
	claims, err := ValidateAccessToken(token, "same-secret")
	if err == nil && claims.UserID == 7 && claims.Email != "" {
		t.Error("refresh token should not carry access identity")
	}
}

func TestGetExpiryTime(t *testing.T) {
	got := GetExpiryTime(7)
	want := time.Now().Add(7 * 24 * time.Hour)
	if diff := got.Sub(want); diff > time.Minute || diff < -time.Minute {
		t.Errorf("GetExpiryTime(7) = %v, want ~%v", got, want)
	}
}
