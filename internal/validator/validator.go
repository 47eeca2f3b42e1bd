package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/enoturismo/recorridos/api"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their JSON name
	validator.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	validator.RegisterValidation("estado", validateEstado)
	validator.RegisterValidation("not_blank", validateNotBlank)
	validator.RegisterValidation("decimal", validateDecimal)

	return validator
}

func validateEstado(fl validator.FieldLevel) bool {
	estado, ok := fl.Field().Interface().(api.RecorridoEstado)
	if !ok {
		return false
	}

	return estado == api.PENDIENTE || estado == api.CONFIRMADO || estado == api.CANCELADO
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateDecimal accepts non-negative decimal strings such as "12.50".
func validateDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return !d.IsNegative()
}

const (
	ErrRequired       = "is required"
	ErrMinValue       = "must be greater than or equal to %s"
	ErrMaxValue       = "must be less than or equal to %s"
	ErrMinLength      = "must be at least %s characters long"
	ErrMaxLength      = "must be at most %s characters long"
	ErrOneOf          = "must be one of: %s"
	ErrInvalidEstado  = "must be one of: PENDIENTE, CONFIRMADO, CANCELADO"
	ErrBlank          = "must not be blank"
	ErrInvalidDecimal = "must be a non-negative number"
	ErrDefaultInvalid = "is invalid"
)

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		if isNumber(err.Kind()) {
			return fmt.Sprintf(ErrMinValue, err.Param())
		}
		return fmt.Sprintf(ErrMinLength, err.Param())
	case "max":
		if isNumber(err.Kind()) {
			return fmt.Sprintf(ErrMaxValue, err.Param())
		}
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "oneof":
		return fmt.Sprintf(ErrOneOf, err.Param())
	case "estado":
		return ErrInvalidEstado
	case "not_blank":
		return ErrBlank
	case "decimal", "numeric":
		return ErrInvalidDecimal
	default:
		return ErrDefaultInvalid
	}
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
