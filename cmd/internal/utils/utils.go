package utils

import (
	"net/url"
	"reflect"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	TimeLayout      = "15:04:05"
	ShortTimeLayout = "15:04"
)

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// ClockIn returns a clock reporting the current time in loc.
func ClockIn(loc *time.Location) func() time.Time {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// TruncateTime drops the seconds of a stored "HH:MM:SS" value.
func TruncateTime(t string) string {
	if len(t) > len(ShortTimeLayout) {
		return t[:len(ShortTimeLayout)]
	}
	return t
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// SanitizeForm flattens submitted form values into a field map, keeping the
// first value of each key with surrounding whitespace removed.
func SanitizeForm(values url.Values) map[string]string {
	fields := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		fields[key] = sanitizeString(vals[0])
	}
	return fields
}

// Sanitize trims every string field of the struct o points to.
func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
