package service

import (
	"errors"
	"reflect"
	"strings"

	"tech-hub-backend/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so field errors line up with request bodies.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// check runs struct validation and converts the result to a *ValidationError.
// A nil return means the input is valid.
func check(input any) *ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	verr := &ValidationError{}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("_", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		verr.add(fe.Field(), describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		names := make([]string, len(models.Experiences))
		for i, e := range models.Experiences {
			names[i] = string(e)
		}
		return "must be one of " + strings.Join(names, ", ")
	default:
		return "is invalid"
	}
}
