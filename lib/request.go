package lib

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names instead of Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ExtractAndValidateBody decodes the JSON body into T and runs struct validation.
func ExtractAndValidateBody[T any](r *http.Request) (*T, error) {
	return extractBody[T](r, false)
}

// ExtractOptionalBody is ExtractAndValidateBody for endpoints whose body may be omitted.
func ExtractOptionalBody[T any](r *http.Request) (*T, error) {
	return extractBody[T](r, true)
}

func extractBody[T any](r *http.Request, allowEmpty bool) (*T, error) {
	defer r.Body.Close()

	var body T

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return &body, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Message: "request body is required"}
		}
		return nil, &ValidationError{Message: "malformed request body: " + err.Error()}
	}

	if err := ValidateStruct(&body); err != nil {
		return nil, err
	}

	return &body, nil
}

// ValidateStruct runs the validator tags on v and maps failures to a ValidationError.
func ValidateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return mapValidationErrors(ve)
		}
		return err
	}
	return nil
}

func mapValidationErrors(errs validator.ValidationErrors) *ValidationError {
	out := &ValidationError{Message: "validation failed"}

	for _, e := range errs {
		field := e.Namespace()
		if idx := strings.Index(field, "."); idx != -1 {
			field = field[idx+1:]
		}

		var message string
		switch e.Tag() {
		case "required":
			message = "is required"
		case "email":
			message = "must be a valid email address"
		case "url":
			message = "must be a valid URL"
		case "max":
			message = "must be at most " + e.Param() + " characters"
		case "gt":
			message = "must be greater than " + e.Param()
		case "gte":
			message = "must be greater than or equal to " + e.Param()
		case "oneof":
			message = "must be one of: " + e.Param()
		default:
			message = "is invalid"
		}

		out.Errors = append(out.Errors, FieldError{
			Field:   field,
			Message: message,
		})
	}

	return out
}
