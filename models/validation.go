package models

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// moneyScale is the number of fractional digits of decimal(10,2) columns.
const moneyScale = 2

// Now is the clock used by time based validations.
var Now = time.Now

// FieldErrors maps a JSON field name to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, message string) {
	for _, m := range f[field] {
		if m == message {
			return
		}
	}
	f[field] = append(f[field], message)
}

// Merge copies every message of other into f.
func (f FieldErrors) Merge(other FieldErrors) {
	for field, messages := range other {
		for _, m := range messages {
			f.Add(field, m)
		}
	}
}

func (f FieldErrors) Any() bool {
	return len(f) > 0
}

func (f FieldErrors) String() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+strings.Join(f[field], ", "))
	}
	return strings.Join(parts, "; ")
}

// ValidationError is returned by repositories when a record fails validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Fields.String()
}

// AsValidationError returns fields as an error, or nil when empty.
func AsValidationError(fields FieldErrors) error {
	if !fields.Any() {
		return nil
	}
	return &ValidationError{Fields: fields}
}

type enumValue interface {
	IsValid() bool
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// enum accepts unset values so that "required" reports them instead.
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		if fl.Field().Int() == 0 {
			return true
		}
		e, ok := fl.Field().Interface().(enumValue)
		return ok && e.IsValid()
	})
	_ = v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok || t.IsZero() {
			return true
		}
		return t.After(Now())
	})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && !d.IsNegative()
	})
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})
	// decimallt bounds a decimal after rounding to the scale of its column.
	_ = v.RegisterValidation("decimallt", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		if !ok {
			return false
		}
		limit, err := decimal.NewFromString(fl.Param())
		if err != nil {
			return false
		}
		return d.Round(moneyScale).LessThan(limit)
	})
	_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "present":
		return "can't be blank"
	case "enum":
		return "is not included in the list"
	case "future":
		return "must be in the future"
	case "nonnegative":
		return "must be greater than or equal to 0"
	case "positive":
		return "must be greater than 0"
	case "decimallt":
		return "must be less than " + fe.Param()
	case "min":
		return fmt.Sprintf("is too short (minimum is %s characters)", fe.Param())
	case "email":
		return "is invalid"
	case "eqfield":
		return "doesn't match " + strings.ReplaceAll(fe.Param(), "Password", "password")
	default:
		return "is invalid"
	}
}

// Validate runs the struct tag rules of record and returns its field errors.
func Validate(record interface{}) FieldErrors {
	fields := FieldErrors{}
	err := validate.Struct(record)
	if err == nil {
		return fields
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		fields.Add("base", err.Error())
		return fields
	}
	for _, fe := range verrs {
		fields.Add(fe.Field(), messageFor(fe))
	}
	return fields
}

var decodeErrField = regexp.MustCompile(`'([^']*)'`)

// Assign decodes a whitelisted attribute bag onto record using its json
// tag names. Keys absent from attrs leave the record untouched; an explicit
// nil clears the field. Input is weakly typed so form values work.
func Assign(record interface{}, attrs map[string]interface{}) error {
	if len(attrs) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           record,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			timeHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
	})
	if err != nil {
		return errors.Wrap(err, "build decoder")
	}

	if err := decoder.Decode(attrs); err != nil {
		var derr *mapstructure.Error
		if !errors.As(err, &derr) {
			return errors.Wrap(err, "assign attributes")
		}
		fields := FieldErrors{}
		for _, msg := range derr.Errors {
			field := "base"
			if m := decodeErrField.FindStringSubmatch(msg); m != nil && m[1] != "" {
				field = m[1]
				if i := strings.LastIndex(field, "."); i >= 0 {
					field = field[i+1:]
				}
				if i := strings.Index(field, "["); i >= 0 {
					field = field[:i]
				}
			}
			fields.Add(field, "is invalid")
		}
		return &ValidationError{Fields: fields}
	}
	return nil
}

func decimalHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) || from == to {
		return data, nil
	}
	s := strings.TrimSpace(cast.ToString(data))
	if s == "" {
		return decimal.Decimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Errorf("%q is not a number", s)
	}
	return d, nil
}

func timeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) || from == to {
		return data, nil
	}
	s := strings.TrimSpace(cast.ToString(data))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return nil, errors.Wrapf(err, "%q is not a date", s)
	}
	return t, nil
}
