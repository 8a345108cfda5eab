package validators

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Tags registered by Register.
const (
	TagDate       = "sfwdate"
	TagFutureDate = "sfwfuture"
	TagDateGTE    = "sfwdategte"
	TagTime       = "sfwtime"
	TagTimeGTE    = "sfwtimegte"
	TagBool       = "sfwbool"
)

const isoDate = "2006-01-02"

var (
	dateLayouts = []string{isoDate, "02.01.2006"}
	timeLayouts = []string{"15:04", "15:04:05"}

	boolValues = map[string]bool{
		"": false, "0": false, "false": false, "off": false, "no": false,
		"1": true, "true": true, "on": true, "yes": true,
	}

	ErrNotBool = errors.New("not a boolean value")
)

// Register adds the date, time and boolean tags to validate. now decides what
// counts as "today" for TagFutureDate.
func Register(validate *validator.Validate, now func() time.Time) error {
	return errors.Join(
		validate.RegisterValidation(TagDate, IsDate),
		validate.RegisterValidation(TagFutureDate, IsFutureDate(now)),
		validate.RegisterValidation(TagDateGTE, IsDateNotBefore),
		validate.RegisterValidation(TagTime, IsTime),
		validate.RegisterValidation(TagTimeGTE, IsTimeNotBefore),
		validate.RegisterValidation(TagBool, IsBool),
	)
}

func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t, nil
		}
		err = perr
	}
	return time.Time{}, err
}

func ParseTime(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t, nil
		}
		err = perr
	}
	return time.Time{}, err
}

func ParseBool(s string) (bool, error) {
	b, ok := boolValues[strings.ToLower(s)]
	if !ok {
		return false, ErrNotBool
	}
	return b, nil
}

func IsDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

// IsFutureDate accepts today and every later day.
func IsFutureDate(now func() time.Time) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := ParseDate(fl.Field().String())
		if err != nil {
			return false
		}
		return d.Format(isoDate) >= now().Format(isoDate)
	}
}

// IsDateNotBefore compares the field against the value passed to
// Validate.VarWithValue. An empty or unparsable reference always passes.
func IsDateNotBefore(fl validator.FieldLevel) bool {
	d, err := ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	ref, err := ParseDate(reference(fl))
	if err != nil {
		return true
	}
	return !d.Before(ref)
}

func IsTime(fl validator.FieldLevel) bool {
	_, err := ParseTime(fl.Field().String())
	return err == nil
}

// IsTimeNotBefore is IsDateNotBefore for clock times.
func IsTimeNotBefore(fl validator.FieldLevel) bool {
	t, err := ParseTime(fl.Field().String())
	if err != nil {
		return false
	}
	ref, err := ParseTime(reference(fl))
	if err != nil {
		return true
	}
	return !t.Before(ref)
}

func IsBool(fl validator.FieldLevel) bool {
	_, err := ParseBool(fl.Field().String())
	return err == nil
}

func reference(fl validator.FieldLevel) string {
	parent := fl.Parent()
	if !parent.IsValid() {
		return ""
	}
	if s, ok := parent.Interface().(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
