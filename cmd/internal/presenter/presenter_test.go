package presenter

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/permission"
	"strings"
	"testing"
	"time"
)

// Wednesday
var now = time.Date(2026, time.October, 14, 18, 0, 0, 0, time.UTC)

type plainDates struct{}

func (plainDates) Day(offset int) string {
	return []string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}[offset]
}
func (plainDates) Date(date string) string    { return "D(" + date + ")" }
func (plainDates) Weekday(date string) string { return "W(" + date + ")" }

func strPtr(s string) *string { return &s }

func newPresenter() *Presenter {
	return New(plainDates{}, func() time.Time { return now })
}

func TestTimeRange(t *testing.T) {
	tests := []struct {
		start, end, want string
	}{
		{"14:00:00", "16:30:00", "von 14:00 bis 16:30 Uhr"},
		{"14:00:00", "", "ab 14:00 Uhr"},
		{"", "16:30:00", "bis 16:30 Uhr"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := TimeRange(tt.start, tt.end); got != tt.want {
			t.Errorf("TimeRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestDateRange(t *testing.T) {
	if got := DateRange(plainDates{}, "2099-01-01", ""); got != "D(2099-01-01)" {
		t.Errorf("single day = %q", got)
	}
	if got := DateRange(plainDates{}, "2099-01-01", "2099-01-03"); got != "D(2099-01-01) bis D(2099-01-03)" {
		t.Errorf("range = %q", got)
	}
}

func TestSeason(t *testing.T) {
	if got := Season(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)); got != "2026/2027" {
		t.Errorf("autumn season = %q", got)
	}
	if got := Season(time.Date(2027, time.March, 1, 0, 0, 0, 0, time.UTC)); got != "2026/2027" {
		t.Errorf("spring season = %q", got)
	}
}

func TestGermanDates(t *testing.T) {
	dates := NewGermanDates()

	if got := dates.Day(0); got != "Montag" {
		t.Errorf("Day(0) = %q", got)
	}
	if got := dates.Day(6); got != "Sonntag" {
		t.Errorf("Day(6) = %q", got)
	}
	if got := dates.Day(7); got != "" {
		t.Errorf("Day(7) = %q", got)
	}
	if got := dates.Date("2099-01-01"); !strings.HasPrefix(got, "Donnerstag, ") || !strings.Contains(got, "2099") {
		t.Errorf("Date = %q", got)
	}
	if got := dates.Date("soon"); got != "soon" {
		t.Errorf("unparsable Date = %q", got)
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name  string
		day   int
		start string
		want  time.Time
	}{
		{"later this week", 4, "10:00:00", time.Date(2026, time.October, 16, 10, 0, 0, 0, time.UTC)},
		{"today still ahead", 2, "19:30:00", time.Date(2026, time.October, 14, 19, 30, 0, 0, time.UTC)},
		{"today already over", 2, "17:00:00", time.Date(2026, time.October, 21, 17, 0, 0, 0, time.UTC)},
		{"next monday", 0, "09:00", time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextOccurrence(tt.day, tt.start, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("next = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := NextOccurrence(9, "10:00", now); err == nil {
		t.Error("expected error for weekday offset 9")
	}
}

func TestRecurringEntry(t *testing.T) {
	actor := &permission.Actor{UserID: 5}
	appt := &entity.RecurringAppointment{ID: 3, UserID: 5, Day: 4, StartTime: "10:00:00", EndTime: strPtr("11:30:00"), Description: "Training"}

	got := newPresenter().Recurring(appt, Viewer{Actor: actor, DeleteAllowed: true})

	if got.Day != "Fr" || got.From != "10:00" || got.Till != "11:30" || got.Desc != "Training" {
		t.Errorf("entry = %+v", got)
	}
	if got.Next != "D(2026-10-16)" {
		t.Errorf("next = %q", got.Next)
	}
	if !got.OwnEntry || !got.DeleteAllowed {
		t.Errorf("flags = own %v delete %v", got.OwnEntry, got.DeleteAllowed)
	}
}

func TestOneTimeEntry(t *testing.T) {
	appt := &entity.OneTimeAppointment{
		ID:          8,
		StartDate:   "2099-01-01",
		StartTime:   strPtr("18:00:00"),
		Description: "Meeting <b>now</b> with **board**",
		Location:    "Hall",
		Changeable:  true,
	}

	got := newPresenter().OneTime(appt, Viewer{})

	if got.Date != "D(2099-01-01)" || got.Time != "ab 18:00 Uhr" || got.Location != "Hall" || !got.Changeable {
		t.Errorf("entry = %+v", got)
	}
	if got.OwnEntry {
		t.Error("anonymous viewer owns entry")
	}
	html := string(got.DescriptionHTML)
	if !strings.Contains(html, "<strong>board</strong>") || strings.Contains(html, "<b>") {
		t.Errorf("description html = %q", html)
	}
}

func TestGameEncounterEntry(t *testing.T) {
	game := &entity.GameEncounter{ID: 2, UserID: 4, Home: "TV Nord", Guest: "SC Süd", StartDate: "2099-03-07", StartTime: "15:00:00"}

	got := newPresenter().GameEncounter(game, Viewer{Actor: &permission.Actor{UserID: 9}})

	if got.StartDate != "D(2099-03-07)" || got.StartDay != "W(2099-03-07)" || got.StartTime != "15:00" {
		t.Errorf("entry = %+v", got)
	}
	if got.OwnEntry || got.DeleteAllowed {
		t.Errorf("flags = own %v delete %v", got.OwnEntry, got.DeleteAllowed)
	}
}
