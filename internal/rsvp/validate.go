// Package rsvp validates guest registrations and simulates their submission.
package rsvp

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tartampluch/go-thoinoi/internal/config"
)

// Entry is one guest registration. It is transient and never persisted.
// Lengths are counted in characters.
type Entry struct {
	Name       string `json:"name" validate:"required,max=100"`
	Phone      string `json:"phone" validate:"min=10,max=15"`
	GuestCount int    `json:"guestCount" validate:"min=1,max=10"`
	Message    string `json:"message" validate:"max=500"`
}

// DefaultEntry returns the blank form a visitor starts with.
func DefaultEntry() Entry {
	return Entry{GuestCount: config.DefaultGuestCount}
}

// Normalized returns a copy with surrounding whitespace removed from the text fields.
func (e Entry) Normalized() Entry {
	e.Name = strings.TrimSpace(e.Name)
	e.Phone = strings.TrimSpace(e.Phone)
	e.Message = strings.TrimSpace(e.Message)
	return e
}

// FieldErrors maps a field name (its JSON name) to a translation key.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range fe.Fields() {
		parts = append(parts, field+": "+fe[field])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Fields lists the offending fields in a stable order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// Localize resolves every key through translate.
func (fe FieldErrors) Localize(translate func(key string) string) map[string]string {
	out := make(map[string]string, len(fe))
	for field, key := range fe {
		out[field] = translate(key)
	}
	return out
}

// messageKeys maps a (field, failed rule) pair to the message shown next to the field.
var messageKeys = map[string]map[string]string{
	config.FieldName: {
		"required": config.TKeyErrNameRequired,
		"max":      config.TKeyErrNameTooLong,
	},
	config.FieldPhone: {
		"min": config.TKeyErrPhoneInvalid,
		"max": config.TKeyErrPhoneTooLong,
	},
	config.FieldGuestCount: {
		"min": config.TKeyErrGuestsMin,
		"max": config.TKeyErrGuestsMax,
	},
	config.FieldMessage: {
		"max": config.TKeyErrMessageLong,
	},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every field of the trimmed entry on its own, so a bad name
// does not hide a bad phone number. It returns nil when the entry is valid.
func Validate(e Entry) FieldErrors {
	err := validate.Struct(e.Normalized())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable on programmer error (non-struct input).
		panic(err)
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key, ok := messageKeys[fe.Field()][fe.Tag()]
		if !ok {
			continue
		}
		out[fe.Field()] = key
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
