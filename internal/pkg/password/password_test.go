package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("s3cure-pass")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "s3cure-pass" {
		t.Fatal("hash must not equal the plain password")
	}

	if !Verify("s3cure-pass", hash) {
		t.Error("Verify() = false for correct password")
	}
	if Verify("wrong-pass", hash) {
		t.Error("Verify() = true for wrong password")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-refresh-token")
	b := HashToken("some-refresh-token")
	c := HashToken("another-token")

	if a != b {
		t.Error("HashToken must be deterministic")
	}
	if a == c {
		t.Error("different tokens must not collide")
	}
	if len(a) != 64 {
		t.Errorf("hex sha256 length = %d, want 64", len(a))
	}
}

func TestValidate(t *testing.T) {
	if Validate("short") {
		t.Error("Validate(short) = true, want false")
	}
	if !Validate("long-enough") {
		t.Error("Validate(long-enough) = false, want true")
	}
}

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		p, err := Generate(12)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(p) != 12 {
			t.Errorf("len = %d, want 12", len(p))
		}
		// Ambiguous characters are excluded from the alphabet
		if strings.ContainsAny(p, "0O1lI") {
			t.Errorf("generated password contains ambiguous characters: %s", p)
		}
		if seen[p] {
			t.Errorf("duplicate password generated: %s", p)
		}
		seen[p] = true
	}
}
