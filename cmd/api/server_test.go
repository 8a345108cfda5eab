package main

import (
	"appointments/cmd/internal/config"
	"appointments/cmd/internal/service"
	"appointments/cmd/internal/utils"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Database = ":memory:"
	cfg.JWTSecret = "secret"
	cfg.Timezone = "UTC"

	app, err := newApplication(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(app.Close)
	return app
}

func TestServerRoundTrip(t *testing.T) {
	app := newTestApplication(t)
	e, err := newServer(app)
	if err != nil {
		t.Fatal(err)
	}

	if _, apierr := app.users.CreateUser(&service.CreateUserRequest{Sub: "sub-1", Username: "anna"}); apierr != nil {
		t.Fatal(apierr)
	}
	if apierr := app.users.SetGrant(&service.GrantRequest{Sub: "sub-1", PathID: 7, Action: "create", Level: "full"}); apierr != nil {
		t.Fatal(apierr)
	}
	token, err := utils.SignToken("sub-1", []byte(app.cfg.JWTSecret), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	serve := func(method, target string, form url.Values, auth bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if auth {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := serve(http.MethodGet, "/health", nil, false); rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("health = %d %q", rec.Code, rec.Body.String())
	}

	form := url.Values{"sdstartdate": {"2099-01-01"}, "sddesc": {"Meeting"}, "sdlocation": {"Hall"}, "sdchangeable": {"on"}}
	if rec := serve(http.MethodPost, "/paths/7/one-time-appointments/create", form, false); rec.Code != http.StatusForbidden {
		t.Errorf("anonymous create = %d, want 403", rec.Code)
	}
	if rec := serve(http.MethodPost, "/paths/7/one-time-appointments/create", form, true); rec.Code != http.StatusOK {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}

	rec := serve(http.MethodGet, "/paths/7/one-time-appointments/read", nil, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("read = %d", rec.Code)
	}
	for _, want := range []string{`"location":"Hall"`, `"changeable":true`, `"offset":500`, `"hasNext":false`, `"has_changeable":true`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("read body misses %s: %s", want, rec.Body.String())
		}
	}

	rec = serve(http.MethodGet, "/paths/8/one-time-appointments/read", nil, true)
	if !strings.Contains(rec.Body.String(), `"entries":[]`) {
		t.Errorf("path 8 body = %s", rec.Body.String())
	}

	rec = serve(http.MethodGet, "/paths/7/one-time-appointments/ical", nil, false)
	if !strings.Contains(rec.Body.String(), "SUMMARY:Meeting") {
		t.Errorf("feed = %s", rec.Body.String())
	}

	rec = serve(http.MethodGet, "/users/me", nil, true)
	if !strings.Contains(rec.Body.String(), `"username":"anna"`) {
		t.Errorf("me = %d %s", rec.Code, rec.Body.String())
	}
}
