package forms

import (
	"errors"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	estranslations "github.com/go-playground/validator/v10/translations/es"
)

// FieldErrors maps a field's JSON name to the message shown under it.
type FieldErrors map[string]string

// messageSet holds the custom text of a form, keyed "field.tag".
type messageSet map[string]string

// messenger is implemented by forms that carry their own messages.
type messenger interface {
	messages() messageSet
}

// Validator checks form structs and renders failures in Spanish. A form's
// own messages win; anything else uses validator's Spanish translations.
type Validator struct {
	v     *validator.Validate
	trans ut.Translator
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	locale := es.New()
	trans, _ := ut.New(locale, locale).GetTranslator("es")
	if err := estranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(err)
	}
	return &Validator{v: v, trans: trans}
}

// Check validates form and returns one message per failing field, or nil.
func (fv *Validator) Check(form any) FieldErrors {
	err := fv.v.Struct(form)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return FieldErrors{"": err.Error()}
	}

	var custom messageSet
	if m, ok := form.(messenger); ok {
		custom = m.messages()
	}

	out := make(FieldErrors, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := custom[field+"."+fe.Tag()]; ok {
			out[field] = msg
			continue
		}
		out[field] = fe.Translate(fv.trans)
	}
	return out
}

// Validate satisfies echo.Validator.
func (fv *Validator) Validate(i any) error {
	if errs := fv.Check(i); errs != nil {
		return &InvalidError{Fields: errs}
	}
	return nil
}

// InvalidError is returned by Validate when a form fails its checks.
type InvalidError struct {
	Fields FieldErrors
}

func (e *InvalidError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return strings.Join(parts, "; ")
}
