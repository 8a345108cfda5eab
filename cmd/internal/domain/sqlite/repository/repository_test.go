package repository

import (
	"appointments/cmd/internal/domain/entity"
	"appointments/cmd/internal/domain/sqlite"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqlite.Init(":memory:", "sfw2")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func ptr(s string) *string {
	return &s
}

func TestTablePrefix(t *testing.T) {
	db := openDB(t)
	for _, table := range []string{"sfw2_recurring_appointments", "sfw2_one_time_appointments", "sfw2_game_encounters"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("table %s missing", table)
		}
	}
}

func TestListIsScopedByPath(t *testing.T) {
	db := openDB(t)
	recurring := NewRecurringRepository(db)
	oneTime := NewOneTimeRepository(db)
	games := NewGameEncounterRepository(db)

	for _, path := range []int{1, 1, 2} {
		if err := recurring.Save(&entity.RecurringAppointment{PathID: path, UserID: 1, Day: 2, StartTime: "18:00:00", Description: "Training"}); err != nil {
			t.Fatal(err)
		}
		if err := oneTime.Save(&entity.OneTimeAppointment{PathID: path, StartDate: "2099-01-01", Description: "Meeting", Location: "Hall"}); err != nil {
			t.Fatal(err)
		}
		if err := games.Save(&entity.GameEncounter{PathID: path, UserID: 1, Home: "A", Guest: "B", StartDate: "2099-01-01", StartTime: "15:00:00"}); err != nil {
			t.Fatal(err)
		}
	}

	for _, path := range []int{1, 2, 3} {
		want := map[int]int{1: 2, 2: 1, 3: 0}[path]

		r, err := recurring.List(path, 0, 500)
		if err != nil || len(r) != want {
			t.Errorf("recurring path %d: got %d rows (err %v), want %d", path, len(r), err, want)
		}
		for _, row := range r {
			if row.PathID != path {
				t.Errorf("recurring path %d returned row of path %d", path, row.PathID)
			}
		}

		o, err := oneTime.List(path, 0, 500)
		if err != nil || len(o) != want {
			t.Errorf("one-time path %d: got %d rows (err %v), want %d", path, len(o), err, want)
		}

		g, err := games.List(path, 0, 500)
		if err != nil || len(g) != want {
			t.Errorf("games path %d: got %d rows (err %v), want %d", path, len(g), err, want)
		}

		count, err := oneTime.Count(path)
		if err != nil || count != int64(want) {
			t.Errorf("one-time count path %d: got %d (err %v), want %d", path, count, err, want)
		}
	}
}

func TestDeleteIsScopedByPath(t *testing.T) {
	db := openDB(t)
	repo := NewRecurringRepository(db)

	appt := &entity.RecurringAppointment{PathID: 1, UserID: 1, Day: 0, StartTime: "10:00:00", Description: "Yoga"}
	if err := repo.Save(appt); err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(1, appt.ID+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing id: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(2, appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign path: got %v, want ErrNotFound", err)
	}
	if err := repo.Delete(1, appt.ID); err != nil {
		t.Errorf("own path: got %v", err)
	}
	if err := repo.Delete(1, appt.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestOneTimeRoundTrip(t *testing.T) {
	db := openDB(t)
	repo := NewOneTimeRepository(db)

	owner := 4
	in := &entity.OneTimeAppointment{
		PathID:      1,
		UserID:      &owner,
		StartDate:   "2099-01-01",
		StartTime:   ptr("14:00:00"),
		Description: "Meeting",
		Location:    "Hall",
		Changeable:  true,
	}
	if err := repo.Save(in); err != nil {
		t.Fatal(err)
	}

	rows, err := repo.List(1, 0, 500)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	got := rows[0]
	if got.Description != "Meeting" || got.Location != "Hall" || !got.Changeable {
		t.Errorf("got %+v", got)
	}
	if got.UserID == nil || *got.UserID != owner {
		t.Errorf("owner = %v, want %d", got.UserID, owner)
	}
	if got.EndDate != nil || got.EndTime != nil {
		t.Errorf("unset end columns came back as %v / %v", got.EndDate, got.EndTime)
	}
}

func TestListOrderAndWindow(t *testing.T) {
	db := openDB(t)
	repo := NewOneTimeRepository(db)

	for _, date := range []string{"2099-01-02", "2099-01-03", "2099-01-01"} {
		if err := repo.Save(&entity.OneTimeAppointment{PathID: 1, StartDate: date, Description: date, Location: "x"}); err != nil {
			t.Fatal(err)
		}
	}

	rows, err := repo.List(1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].StartDate != "2099-01-02" {
		t.Errorf("window [1,2) = %+v, want the 2099-01-02 row", rows)
	}

	rec := NewRecurringRepository(db)
	for _, day := range []int{4, 0, 2} {
		if err := rec.Save(&entity.RecurringAppointment{PathID: 1, UserID: 1, Day: day, StartTime: "09:00:00", Description: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	recRows, err := rec.List(1, 0, 500)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int{0, 2, 4} {
		if recRows[i].Day != want {
			t.Errorf("recurring row %d has day %d, want %d", i, recRows[i].Day, want)
		}
	}
}

func TestOneTimeDeleteExpired(t *testing.T) {
	db := openDB(t)
	repo := NewOneTimeRepository(db)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	rows := map[string]*entity.OneTimeAppointment{
		"ended 6 days ago": {PathID: 1, StartDate: day(-8), EndDate: ptr(day(-6)), Description: "a", Location: "x"},
		"ended 4 days ago": {PathID: 1, StartDate: day(-8), EndDate: ptr(day(-4)), Description: "b", Location: "x"},
		"single day 6 ago": {PathID: 1, StartDate: day(-6), Description: "c", Location: "x"},
		"single day 5 ago": {PathID: 1, StartDate: day(-5), Description: "d", Location: "x"},
		"single day 4 ago": {PathID: 2, StartDate: day(-4), Description: "e", Location: "x"},
		"upcoming":         {PathID: 2, StartDate: day(3), Description: "f", Location: "x"},
	}
	for name, row := range rows {
		if err := repo.Save(row); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	removed, err := repo.DeleteExpired(now)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed %d rows, want 3", removed)
	}

	var left []entity.OneTimeAppointment
	if err := db.Order("description").Find(&left).Error; err != nil {
		t.Fatal(err)
	}
	var got string
	for _, row := range left {
		got += row.Description
	}
	if got != "bef" {
		t.Errorf("remaining rows %q, want %q", got, "bef")
	}
}

func TestGameEncounterDeleteExpired(t *testing.T) {
	db := openDB(t)
	repo := NewGameEncounterRepository(db)
	now := time.Date(2030, 5, 10, 10, 0, 0, 0, time.UTC)

	games := []*entity.GameEncounter{
		{PathID: 1, UserID: 1, Home: "yesterday", Guest: "x", StartDate: "2030-05-09", StartTime: "20:00:00"},
		{PathID: 1, UserID: 1, Home: "this morning", Guest: "x", StartDate: "2030-05-10", StartTime: "09:00:00"},
		{PathID: 2, UserID: 1, Home: "tonight", Guest: "x", StartDate: "2030-05-10", StartTime: "20:00:00"},
		{PathID: 1, UserID: 1, Home: "tomorrow", Guest: "x", StartDate: "2030-05-11", StartTime: "11:00:00"},
	}
	for _, g := range games {
		if err := repo.Save(g); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := repo.DeleteExpired(now)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removed %d, want 3", removed)
	}

	for _, path := range []int{1, 2} {
		left, err := repo.List(path, 0, 500)
		if err != nil {
			t.Fatal(err)
		}
		want := map[int]int{1: 1, 2: 0}[path]
		if len(left) != want {
			t.Errorf("path %d keeps %d encounters, want %d", path, len(left), want)
		}
		if want == 1 && left[0].Home != "tomorrow" {
			t.Errorf("path %d keeps %q, want tomorrow", path, left[0].Home)
		}
	}
}

func TestUsersAndGrants(t *testing.T) {
	db := openDB(t)
	users := NewUserRepository(db)
	grants := NewGrantRepository(db)

	missing, err := users.FindBySub("nobody")
	if err != nil || missing != nil {
		t.Fatalf("FindBySub(nobody) = %v, %v; want nil, nil", missing, err)
	}

	user := &entity.User{SubUUID: "sub-1", Username: "anna", CreatedAt: 1, UpdatedAt: 1}
	if err := users.Save(user); err != nil {
		t.Fatal(err)
	}
	found, err := users.FindBySub("sub-1")
	if err != nil || found == nil || found.ID != user.ID {
		t.Fatalf("FindBySub(sub-1) = %v, %v", found, err)
	}

	grant, err := grants.FindGrant(1, user.ID, "create")
	if err != nil || grant != nil {
		t.Fatalf("FindGrant before upsert = %v, %v", grant, err)
	}

	for _, level := range []int{1, 3} {
		if err := grants.Upsert(&entity.Grant{PathID: 1, UserID: user.ID, Action: "create", Level: level}); err != nil {
			t.Fatal(err)
		}
	}

	grant, err = grants.FindGrant(1, user.ID, "create")
	if err != nil || grant == nil || grant.Level != 3 {
		t.Errorf("FindGrant after upsert = %+v, %v; want level 3", grant, err)
	}

	var count int64
	db.Model(&entity.Grant{}).Count(&count)
	if count != 1 {
		t.Errorf("got %d grants, want 1", count)
	}
}
