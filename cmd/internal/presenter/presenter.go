package presenter

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/permission"
	"appointments/cmd/internal/utils"
	"bytes"
	"html/template"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/yuin/goldmark"
)

type RecurringEntry struct {
	ID            int    `json:"id"`
	Day           string `json:"day"`
	From          string `json:"from"`
	Till          string `json:"till"`
	Desc          string `json:"desc"`
	Next          string `json:"next"`
	OwnEntry      bool   `json:"ownEntry"`
	DeleteAllowed bool   `json:"delete_allowed"`
}

type OneTimeEntry struct {
	ID              int           `json:"id"`
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	Description     string        `json:"description"`
	DescriptionHTML template.HTML `json:"description_html"`
	Location        string        `json:"location"`
	Changeable      bool          `json:"changeable"`
	OwnEntry        bool          `json:"ownEntry"`
	DeleteAllowed   bool          `json:"delete_allowed"`
}

type GameEncounterEntry struct {
	ID            int    `json:"id"`
	Home          string `json:"home"`
	Guest         string `json:"guest"`
	StartDate     string `json:"startDate"`
	StartDay      string `json:"startDay"`
	StartTime     string `json:"startTime"`
	OwnEntry      bool   `json:"ownEntry"`
	DeleteAllowed bool   `json:"delete_allowed"`
}

// Viewer describes who looks at a listing.
type Viewer struct {
	Actor         *permission.Actor
	DeleteAllowed bool
}

// Presenter maps stored rows to display fields. It performs no I/O.
type Presenter struct {
	Dates    DateFormatter
	Markdown goldmark.Markdown
	Now      func() time.Time
}

func New(dates DateFormatter, now func() time.Time) *Presenter {
	return &Presenter{Dates: dates, Markdown: goldmark.New(), Now: now}
}

func (p *Presenter) Recurring(appt *entity.RecurringAppointment, viewer Viewer) *RecurringEntry {
	entry := &RecurringEntry{
		ID:            appt.ID,
		Day:           p.Dates.Day(appt.Day),
		From:          utils.TruncateTime(appt.StartTime),
		Till:          utils.TruncateTime(utils.Deref(appt.EndTime)),
		Desc:          appt.Description,
		OwnEntry:      viewer.Actor.Owns(appt.UserID),
		DeleteAllowed: viewer.DeleteAllowed,
	}

	next, err := NextOccurrence(appt.Day, appt.StartTime, p.Now())
	if err != nil {
		log.Warnf("no next occurrence for recurring appointment %d: %v", appt.ID, err)
	} else if !next.IsZero() {
		entry.Next = p.Dates.Date(next.Format(utils.DateLayout))
	}
	return entry
}

func (p *Presenter) OneTime(appt *entity.OneTimeAppointment, viewer Viewer) *OneTimeEntry {
	entry := &OneTimeEntry{
		ID:              appt.ID,
		Date:            DateRange(p.Dates, appt.StartDate, utils.Deref(appt.EndDate)),
		Time:            TimeRange(utils.Deref(appt.StartTime), utils.Deref(appt.EndTime)),
		Description:     appt.Description,
		DescriptionHTML: p.markdown(appt.Description),
		Location:        appt.Location,
		Changeable:      appt.Changeable,
		DeleteAllowed:   viewer.DeleteAllowed,
	}
	if appt.UserID != nil {
		entry.OwnEntry = viewer.Actor.Owns(*appt.UserID)
	}
	return entry
}

func (p *Presenter) GameEncounter(game *entity.GameEncounter, viewer Viewer) *GameEncounterEntry {
	return &GameEncounterEntry{
		ID:            game.ID,
		Home:          game.Home,
		Guest:         game.Guest,
		StartDate:     p.Dates.Date(game.StartDate),
		StartDay:      p.Dates.Weekday(game.StartDate),
		StartTime:     utils.TruncateTime(game.StartTime),
		OwnEntry:      viewer.Actor.Owns(game.UserID),
		DeleteAllowed: viewer.DeleteAllowed,
	}
}

// markdown renders a description to HTML. Raw HTML in the source is escaped
// by goldmark's default renderer.
func (p *Presenter) markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := p.Markdown.Convert([]byte(src), &buf); err != nil {
		log.Warnf("failed to render description as markdown: %v", err)
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}
