package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"apcb-events/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json tag names so field errors match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// Struct validates a tagged struct and converts failures into field-level
// errors the presentation layer can map 1:1 to inputs.
func Struct(s interface{}) []domain.FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []domain.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return fields
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		return "Value is below the minimum of " + fe.Param()
	case "max":
		return "Value exceeds the maximum of " + fe.Param()
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gte":
		return "Must be at least " + fe.Param()
	default:
		return "Invalid value"
	}
}
