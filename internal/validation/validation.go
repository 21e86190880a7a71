// Package validation owns the single go-playground validator instance used
// by every store backend. Validation lives next to the data, not in the
// HTTP layer, so any caller that creates a student gets the same checks.
//
// Error messages are produced by an English universal-translator and refer
// to fields by their JSON names ("phoneNumber", not "PhoneNumber").
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// ErrInvalid is wrapped by every error returned from Struct, so callers can
// test with errors.Is(err, validation.ErrInvalid).
var ErrInvalid = errors.New("validation failed")

var (
	validate   *validator.Validate
	translator ut.Translator

	// Spaces and dashes are allowed while typing ("+91 98765-43210") and
	// removed before matching.
	phoneSeparators = strings.NewReplacer(" ", "", "-", "")
	phoneRegex      = regexp.MustCompile(`^\+?[0-9]{10,13}$`)
)

// custom validation tags & texts
var customTags = []struct {
	tag  string
	text string
	fn   validator.Func
}{
	{"notblank", "{0} must not be blank", notBlank},
	{"course", "{0} must be one of the offered courses", isCourse},
	{"status", "{0} must be active or inactive", isStatus},
	{"phone", "{0} must hold 10 to 13 digits with an optional leading +", isPhone},
}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	for _, c := range customTags {
		_ = validate.RegisterValidation(c.tag, c.fn)
		registerTranslation(c.tag, c.text)
	}
}

func registerTranslation(tag, text string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Struct validates v against its validate:"..." tags.
//
// On failure the returned error wraps both ErrInvalid and the underlying
// validator.ValidationErrors, so either can be recovered:
//
//	errors.Is(err, validation.ErrInvalid)        → true
//	errors.As(err, &validator.ValidationErrors{}) → true
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, verrs)
	}
	// InvalidValidationError: v was not a struct. That is a programming
	// error, but it is still surfaced as an invalid input.
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

// Messages turns validation errors into human-readable sentences, one per
// failing field, in struct order.
func Messages(errs validator.ValidationErrors) []string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(translator))
	}
	return msgs
}

// NormalizePhone strips the separators a user may type between digits.
func NormalizePhone(s string) string {
	return phoneSeparators.Replace(strings.TrimSpace(s))
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isCourse(fl validator.FieldLevel) bool {
	return types.Course(fl.Field().String()).Valid()
}

func isStatus(fl validator.FieldLevel) bool {
	return types.Status(fl.Field().String()).Valid()
}

func isPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(NormalizePhone(fl.Field().String()))
}
