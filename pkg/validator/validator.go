package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describe un campo que no pasó la validación.
type FieldError struct {
	FailedField string `json:"field"`
	Tag         string `json:"tag"`
	Value       string `json:"param,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// barcode: exactamente 8 dígitos (formato que emite el asignador)
	if err := validate.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != 8 {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	}); err != nil {
		panic("validator: registrar barcode: " + err.Error())
	}
}

// ValidateStruct valida data según sus tags `validate` y devuelve los campos con error.
func ValidateStruct(data interface{}) []*FieldError {
	var out []*FieldError
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{FailedField: "", Tag: err.Error()}}
	}
	for _, fe := range verrs {
		out = append(out, &FieldError{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Param(),
		})
	}
	return out
}

// Summary une los errores en un único mensaje legible.
func Summary(errs []*FieldError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s: %s", e.FailedField, e.Tag))
	}
	return strings.Join(parts, "; ")
}

// IsEmail indica si s es una dirección de correo válida.
func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// IsBarcode indica si s tiene el formato de código que emite el asignador.
func IsBarcode(s string) bool {
	return validate.Var(s, "barcode") == nil
}
