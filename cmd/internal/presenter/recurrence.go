package presenter

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

var weekdays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// WeeklyRule builds the recurrence of an appointment on weekday offset day
// (0 = Monday) starting at clock time startTime ("HH:MM[:SS]") in the week of from.
func WeeklyRule(day int, startTime string, from time.Time) (*rrule.RRule, error) {
	if day < 0 || day >= len(weekdays) {
		return nil, fmt.Errorf("weekday offset %d out of range", day)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(startTime, "%d:%d", &hour, &minute); err != nil {
		return nil, fmt.Errorf("parse start time %q: %w", startTime, err)
	}

	dtstart := time.Date(from.Year(), from.Month(), from.Day(), hour, minute, 0, 0, from.Location())
	return rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: []rrule.Weekday{weekdays[day]},
		Dtstart:   dtstart,
	})
}

// NextOccurrence returns the first start of the appointment at or after now.
func NextOccurrence(day int, startTime string, now time.Time) (time.Time, error) {
	rule, err := WeeklyRule(day, startTime, now)
	if err != nil {
		return time.Time{}, err
	}
	return rule.After(now, true), nil
}
