package presenter

import (
	"appointments/cmd/internal/utils"
	"fmt"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
)

// DateFormatter turns stored dates and weekday offsets into display strings.
type DateFormatter interface {
	// Day names the weekday offset, 0 being Monday.
	Day(offset int) string
	// Date formats a YYYY-MM-DD date including its weekday.
	Date(date string) string
	// Weekday names the weekday of a YYYY-MM-DD date.
	Weekday(date string) string
}

type GermanDates struct {
	tr locales.Translator
}

func NewGermanDates() *GermanDates {
	return &GermanDates{tr: de.New()}
}

func (g *GermanDates) Day(offset int) string {
	if offset < 0 || offset > 6 {
		return ""
	}
	return g.tr.WeekdayWide(time.Weekday((offset + 1) % 7))
}

func (g *GermanDates) Date(date string) string {
	t, err := time.Parse(utils.DateLayout, date)
	if err != nil {
		return date
	}
	return g.tr.WeekdayWide(t.Weekday()) + ", " + g.tr.FmtDateMedium(t)
}

func (g *GermanDates) Weekday(date string) string {
	t, err := time.Parse(utils.DateLayout, date)
	if err != nil {
		return ""
	}
	return g.tr.WeekdayWide(t.Weekday())
}

// DateRange renders "<start>" or "<start> bis <end>".
func DateRange(f DateFormatter, start, end string) string {
	if end == "" || end == start {
		return f.Date(start)
	}
	return f.Date(start) + " bis " + f.Date(end)
}

// TimeRange renders the clock times of an appointment: "von X bis Y Uhr" when
// both are known, "ab X Uhr" without an end, "bis Y Uhr" without a start.
func TimeRange(start, end string) string {
	start, end = utils.TruncateTime(start), utils.TruncateTime(end)
	switch {
	case start != "" && end != "":
		return "von " + start + " bis " + end + " Uhr"
	case start != "":
		return "ab " + start + " Uhr"
	case end != "":
		return "bis " + end + " Uhr"
	}
	return ""
}

// Season names the season running at now. A new season starts in July.
func Season(now time.Time) string {
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d/%d", year, year+1)
}
