package validation

import (
	"appointments/cmd/internal/utils/validators"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind int

const (
	KindNotEmpty Kind = iota
	KindDate
	KindTime
	KindBool
	KindOneOf
)

// Mode selects the extra comparison of date and time rules.
type Mode int

const (
	ModeNone Mode = iota
	ModeFutureDate
	ModeGreaterThan
)

type ErrorKind string

const (
	ErrEmpty               ErrorKind = "empty"
	ErrInvalidFormat       ErrorKind = "invalid_format"
	ErrConstraintViolation ErrorKind = "constraint_violation"
	ErrNotAllowed          ErrorKind = "not_allowed"
)

type FieldError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Message
}

// Rule is a single check on a form field. Other names the field a
// ModeGreaterThan rule compares against, Allowed is the set of a KindOneOf rule.
type Rule struct {
	Kind    Kind
	Mode    Mode
	Other   string
	Allowed []string
}

func NotEmpty() Rule {
	return Rule{Kind: KindNotEmpty}
}

func Date() Rule {
	return Rule{Kind: KindDate}
}

// FutureDate accepts today and later days.
func FutureDate() Rule {
	return Rule{Kind: KindDate, Mode: ModeFutureDate}
}

// DateGreaterThan requires the date not to lie before the date in field other.
// Equal dates pass.
func DateGreaterThan(other string) Rule {
	return Rule{Kind: KindDate, Mode: ModeGreaterThan, Other: other}
}

func Time() Rule {
	return Rule{Kind: KindTime}
}

// TimeGreaterThan requires the time not to lie before the time in field other.
func TimeGreaterThan(other string) Rule {
	return Rule{Kind: KindTime, Mode: ModeGreaterThan, Other: other}
}

func Bool() Rule {
	return Rule{Kind: KindBool}
}

func OneOf(allowed ...string) Rule {
	return Rule{Kind: KindOneOf, Allowed: allowed}
}

// Weekdays are the allowed values of a weekday field, 0 being Monday.
func Weekdays() []string {
	days := make([]string, 7)
	for i := range days {
		days[i] = strconv.Itoa(i)
	}
	return days
}

// Check runs the rule against value and returns the normalized value. Every
// rule but NotEmpty and OneOf accepts an empty value.
func (r Rule) Check(validate *validator.Validate, value string, fields Fields) (string, *FieldError) {
	switch r.Kind {
	case KindNotEmpty:
		if validate.Var(value, "required") != nil {
			return value, &FieldError{Kind: ErrEmpty, Message: "must not be empty"}
		}
		return value, nil

	case KindDate:
		if value == "" {
			return value, nil
		}
		if validate.Var(value, validators.TagDate) != nil {
			return value, &FieldError{Kind: ErrInvalidFormat, Message: "is not a valid date"}
		}
		d, _ := validators.ParseDate(value)
		value = d.Format("2006-01-02")
		return value, r.compare(validate, value, fields, validators.TagFutureDate, validators.TagDateGTE)

	case KindTime:
		if value == "" {
			return value, nil
		}
		if validate.Var(value, validators.TagTime) != nil {
			return value, &FieldError{Kind: ErrInvalidFormat, Message: "is not a valid time"}
		}
		t, _ := validators.ParseTime(value)
		value = t.Format("15:04")
		return value, r.compare(validate, value, fields, "", validators.TagTimeGTE)

	case KindBool:
		if validate.Var(value, validators.TagBool) != nil {
			return value, &FieldError{Kind: ErrInvalidFormat, Message: "is not a boolean value"}
		}
		if b, _ := validators.ParseBool(value); b {
			return "1", nil
		}
		return "0", nil

	case KindOneOf:
		if value == "" || validate.Var(value, "oneof="+strings.Join(r.Allowed, " ")) != nil {
			return value, &FieldError{Kind: ErrNotAllowed, Message: "must be one of " + strings.Join(r.Allowed, ", ")}
		}
		return value, nil
	}
	return value, nil
}

func (r Rule) compare(validate *validator.Validate, value string, fields Fields, futureTag, gteTag string) *FieldError {
	switch r.Mode {
	case ModeFutureDate:
		if futureTag != "" && validate.Var(value, futureTag) != nil {
			return &FieldError{Kind: ErrConstraintViolation, Message: "must not be in the past"}
		}
	case ModeGreaterThan:
		if validate.VarWithValue(value, fields.Get(r.Other), gteTag) != nil {
			return &FieldError{Kind: ErrConstraintViolation, Message: "must not be before " + r.Other}
		}
	}
	return nil
}
