package validators

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// decimal.Decimal is validated as a number (min, max, gte...).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := schedule.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})

	return v
}

var messages = map[string]string{
	"required": "Campo obligatorio",
	"hhmm":     "Debe tener formato HH:MM",
	"date":     "Debe ser una fecha válida (YYYY-MM-DD)",
	"email":    "Debe ser un email válido",
	"uuid":     "Debe ser un UUID válido",
	"oneof":    "Valor no permitido",
	"min":      "Valor por debajo del mínimo",
	"max":      "Valor por encima del máximo",
	"gte":      "Valor por debajo del mínimo",
	"lte":      "Valor por encima del máximo",
	"gt":       "Debe ser mayor",
}

// Struct validates s and returns a validation BusinessError listing every
// failing field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	details := make([]httperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = "Valor inválido"
		}
		details = append(details, httperr.FieldError{Field: fe.Field(), Message: msg})
	}
	return httperr.ErrValidation("Datos inválidos.", details...)
}
