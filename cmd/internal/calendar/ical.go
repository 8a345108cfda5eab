package calendar

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/presenter"
	"appointments/cmd/internal/utils"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/labstack/gommon/log"
)

const (
	productID    = "-//sfw2//appointments//DE"
	gameDuration = 2 * time.Hour
	slotDuration = time.Hour
)

// Builder renders stored appointments as an iCalendar feed. Stored dates and
// times are interpreted in Location.
type Builder struct {
	Location *time.Location
	Now      func() time.Time
}

func NewBuilder(loc *time.Location, now func() time.Time) *Builder {
	if loc == nil {
		loc = time.Local
	}
	return &Builder{Location: loc, Now: now}
}

func (b *Builder) newCalendar(name string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(name)
	return cal
}

func uid(kind string, pathID, id int) string {
	return fmt.Sprintf("%s-%d-%d@appointments", kind, pathID, id)
}

// Recurring emits one weekly repeating event per appointment, starting at its
// next occurrence.
func (b *Builder) Recurring(pathID int, appts []*entity.RecurringAppointment) string {
	cal := b.newCalendar("Termine")
	now := b.Now().In(b.Location)

	for _, appt := range appts {
		rule, err := presenter.WeeklyRule(appt.Day, appt.StartTime, now)
		if err != nil {
			log.Warnf("skipping recurring appointment %d in calendar: %v", appt.ID, err)
			continue
		}
		start := rule.After(now, true)
		end := start.Add(slotDuration)
		if appt.EndTime != nil {
			if t, ok := b.at(start.Format(utils.DateLayout), *appt.EndTime); ok && t.After(start) {
				end = t
			}
		}

		event := cal.AddEvent(uid("recurring", pathID, appt.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(appt.Description)
		event.AddRrule(rule.OrigOptions.RRuleString())
	}
	return cal.Serialize()
}

// OneTime emits all-day events for appointments without a start time.
func (b *Builder) OneTime(pathID int, appts []*entity.OneTimeAppointment) string {
	cal := b.newCalendar("Termine")
	now := b.Now().In(b.Location)

	for _, appt := range appts {
		lastDay := appt.StartDate
		if appt.EndDate != nil {
			lastDay = *appt.EndDate
		}

		if appt.StartTime == nil {
			first, ok := b.at(appt.StartDate, "00:00")
			last, lastOK := b.at(lastDay, "00:00")
			if !ok || !lastOK {
				log.Warnf("skipping one-time appointment %d with broken dates", appt.ID)
				continue
			}
			event := b.addOneTime(cal, pathID, appt, now)
			event.SetAllDayStartAt(first)
			event.SetAllDayEndAt(last.AddDate(0, 0, 1))
			continue
		}

		start, ok := b.at(appt.StartDate, *appt.StartTime)
		if !ok {
			log.Warnf("skipping one-time appointment %d with broken start", appt.ID)
			continue
		}
		endClock := *appt.StartTime
		if appt.EndTime != nil {
			endClock = *appt.EndTime
		}
		end, ok := b.at(lastDay, endClock)
		if !ok || !end.After(start) {
			end = start.Add(slotDuration)
		}

		event := b.addOneTime(cal, pathID, appt, now)
		event.SetStartAt(start)
		event.SetEndAt(end)
	}
	return cal.Serialize()
}

func (b *Builder) addOneTime(cal *ical.Calendar, pathID int, appt *entity.OneTimeAppointment, now time.Time) *ical.VEvent {
	event := cal.AddEvent(uid("onetime", pathID, appt.ID))
	event.SetDtStampTime(now)
	event.SetSummary(appt.Description)
	event.SetLocation(appt.Location)
	return event
}

func (b *Builder) GameEncounters(pathID int, games []*entity.GameEncounter) string {
	cal := b.newCalendar("Spielpläne")
	now := b.Now().In(b.Location)

	for _, game := range games {
		start, ok := b.at(game.StartDate, game.StartTime)
		if !ok {
			log.Warnf("skipping game encounter %d with broken start", game.ID)
			continue
		}
		event := cal.AddEvent(uid("game", pathID, game.ID))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(start.Add(gameDuration))
		event.SetSummary(game.Home + " - " + game.Guest)
	}
	return cal.Serialize()
}

// at combines a stored date and clock time in the builder's location.
func (b *Builder) at(date, clock string) (time.Time, bool) {
	t, err := time.ParseInLocation(utils.DateLayout+" "+utils.ShortTimeLayout, date+" "+utils.TruncateTime(clock), b.Location)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
