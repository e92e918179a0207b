package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"quiz-gate/internal/domain"

	"github.com/go-playground/validator/v10"
)

// resourceIDPattern matches course, video and question identifiers.
var resourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validator provides request validation functionality
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("resource_id", func(fl validator.FieldLevel) bool {
		return resourceIDPattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct runs the struct's validate tags and converts failures into
// domain.ValidationErrors. It returns nil when s is valid.
func (v *Validator) ValidateStruct(s interface{}) domain.ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}

	out := make(domain.ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, toDomainError(fe))
	}
	return out
}

// ValidateResourceID validates a path identifier such as courseId.
func (v *Validator) ValidateResourceID(field, value string) domain.ValidationErrors {
	if strings.TrimSpace(value) == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if err := v.validate.Var(value, "resource_id"); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, value)}
	}
	return nil
}

func toDomainError(fe validator.FieldError) domain.ValidationError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.NewMissingFieldError(field)
	case "min", "max":
		return rangeError(fe, field)
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}

// rangeError reports string and map lengths as invalid format and numbers as out of range.
func rangeError(fe validator.FieldError, field string) domain.ValidationError {
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		min, max := 0, 100
		bound, _ := strconv.Atoi(fe.Param())
		if fe.Tag() == "min" {
			min = bound
		} else {
			max = bound
		}
		return domain.NewOutOfRangeError(field, fe.Value(), min, max)
	default:
		return domain.NewInvalidFormatError(field, fe.Value())
	}
}
