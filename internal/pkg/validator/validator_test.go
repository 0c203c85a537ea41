package validator

import "testing"

type sampleInput struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=5"`
	Age   int    `json:"age" validate:"omitempty,gte=18"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	fields := Struct(&sampleInput{Email: "bad", Name: "toolongname", Age: 12})
	if fields == nil {
		t.Fatal("Struct() = nil, want field errors")
	}

	byField := make(map[string]string)
	for _, f := range fields {
		byField[f.Field] = f.Message
	}

	for _, want := range []string{"email", "name", "age"} {
		if _, ok := byField[want]; !ok {
			t.Errorf("missing field error for %q, got %v", want, byField)
		}
	}
	if byField["email"] != "Must be a valid email address" {
		t.Errorf("email message = %q", byField["email"])
	}
}

func TestStructValidInput(t *testing.T) {
	fields := Struct(&sampleInput{Email: "ok@example.org", Name: "Amina", Age: 30})
	if fields != nil {
		t.Errorf("Struct() = %v, want nil", fields)
	}
}
