package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError is a client-side form error. It is shown inline and is
// never sent to the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("category", validCategory)
	})
	return validate
}

// Allows only the enumerated item categories
func validCategory(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for _, c := range Categories {
		if string(c) == value {
			return true
		}
	}
	return false
}

// Validate checks a form struct and reports the first failing field.
func Validate(form any) error {
	err := formValidator().Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:   strings.ToLower(fe.Field()),
		Message: describe(fe),
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "number":
		return "must contain digits only"
	case "numeric":
		return "must be a number"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "category":
		return "is not a known category"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// ReturnCodeForm is the renter's one-time return code entry.
type ReturnCodeForm struct {
	Code string `json:"otp" validate:"required,len=6,number"`
}

// ReturnRejectionForm is an owner's rejection; notes describe the damage.
type ReturnRejectionForm struct {
	Notes string `json:"notes" validate:"required"`
}
