// Package validator wires go-playground/validator with the card-specific rules.
package validator

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/model"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with custom rules registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("palette_color", validatePaletteColor)
		_ = validate.RegisterValidation("category", validateCategory)
		_ = validate.RegisterValidation("filter", validateFilter)
	})
	return validate
}

// Struct validates s and converts the first failure to a ValidationError.
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	return kanerr.InvalidField(fieldName(fe.Field()), message(fe))
}

// Draft trims and validates a card draft.
func Draft(d model.Draft) (model.Draft, error) {
	d = d.Trimmed()
	if err := Struct(d); err != nil {
		return d, err
	}
	if hex, ok := model.LookupColor(d.Color); ok {
		d.Color = hex
	}
	return d, nil
}

func validatePaletteColor(fl validator.FieldLevel) bool {
	return model.IsPaletteColor(fl.Field().String())
}

func validateCategory(fl validator.FieldLevel) bool {
	return model.Category(fl.Field().String()).IsValid()
}

func validateFilter(fl validator.FieldLevel) bool {
	return model.IsValidFilter(fl.Field().String())
}

func fieldName(structField string) string {
	switch structField {
	case "StoreName":
		return "store name"
	case "BarcodeNumber":
		return "barcode number"
	default:
		return strings.ToLower(structField)
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "palette_color":
		return "must be one of the palette colors"
	case "category", "filter":
		return "unknown category"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed " + fe.Tag() + " check"
	}
}
