package internal

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"taskboard-web/internal/configs"
	"taskboard-web/internal/contextkeys"
	"testing"
)

const tasksJSON = `[
	{"id": 1, "title": "Write report", "status": "In Progress", "due_date": "2026-03-02"},
	{"id": "b7", "title": "Call plumber", "completed": true}
]`

type backendRequest struct {
	method, path, contentType, body string
}

// fakeTasksBackend ведет себя как Flask-бэкенд: читает только JSON и отвечает 415 на остальное
func fakeTasksBackend(t *testing.T) (*httptest.Server, *[]backendRequest) {
	t.Helper()
	var got []backendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, backendRequest{r.Method, r.URL.Path, r.Header.Get("Content-Type"), string(body)})

		if !strings.HasPrefix(r.URL.Path, "/api/tasks") {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodPost || r.Method == http.MethodPut {
			if r.Header.Get("Content-Type") != "application/json" || !json.Valid(body) {
				http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, tasksJSON)
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id": 3}`)
		default:
			_, _ = io.WriteString(w, `{}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func backendURL(t *testing.T) string {
	t.Helper()
	srv, _ := fakeTasksBackend(t)
	return srv.URL
}

func testConfig(apiURL string) *configs.AppConfig {
	return &configs.AppConfig{
		AppName:   "taskboard-web",
		Rest:      configs.RESTconfig{PORT: "0"},
		ApiClient: configs.ApiClientConfig{TASKS_API_URL: apiURL, TASKS_API_BASE_PATH: "/api", PROXY_ENABLED: true},
		Shell:     configs.ShellConfig{BaseURL: "/", Title: "Tasks"},
		Calendar:  configs.CalendarConfig{Locale: "en", FirstDayOfWeek: 2},
		Cors:      configs.CorsConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestApp_CalendarPage(t *testing.T) {
	app, err := newApp(testConfig(backendURL(t)), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := get(t, app.Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d\n%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{
		`<div id="app">`,
		"Write report",
		"2026-03-02",
		"vc-task--done",
		`<li>Mon</li>`,
		`href="/static/calendar.css"`,
		`href="/static/style.css"`,
		`method="post" action="/"`,
		`aria-current="page">Calendar</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("calendar page missing %q", want)
		}
	}
}

func TestApp_BoardPage(t *testing.T) {
	app, err := newApp(testConfig(backendURL(t)), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	for _, path := range []string{"/kanban", "/kanban/"} {
		rec := get(t, app.Handler(), path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, `data-status="In Progress"`) || !strings.Contains(body, `data-task-id="b7"`) {
			t.Errorf("%s: board missing cards:\n%s", path, body)
		}
	}
}

func TestApp_UnknownPathIs404Shell(t *testing.T) {
	app, err := newApp(testConfig(backendURL(t)), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := get(t, app.Handler(), "/settings")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d; want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<div id="app"></div>`) {
		t.Fatalf("404 page should render an empty mount point:\n%s", rec.Body.String())
	}
}

func TestApp_BackendDown(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	url := backend.URL
	backend.Close()

	app, err := newApp(testConfig(url), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := get(t, app.Handler(), "/kanban")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d; want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `role="alert"`) {
		t.Fatalf("missing error banner:\n%s", rec.Body.String())
	}
}

func TestApp_APIProxy(t *testing.T) {
	app, err := newApp(testConfig(backendURL(t)), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := get(t, app.Handler(), "/api/tasks")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Call plumber") {
		t.Fatalf("proxy response = %d %q", rec.Code, rec.Body.String())
	}
}

func TestApp_BaseURL(t *testing.T) {
	cfg := testConfig(backendURL(t))
	cfg.Shell.BaseURL = "/planner/"
	cfg.ApiClient.PROXY_ENABLED = false

	app, err := newApp(cfg, contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := get(t, app.Handler(), "/planner/kanban")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/planner/kanban"`) {
		t.Errorf("nav links should carry the base url:\n%s", rec.Body.String())
	}
	if rec := get(t, app.Handler(), "/kanban"); rec.Code != http.StatusNotFound {
		t.Errorf("path outside base status = %d; want 404", rec.Code)
	}

	cal := get(t, app.Handler(), "/planner/")
	if !strings.Contains(cal.Body.String(), `method="post" action="/planner/"`) {
		t.Errorf("the form should post back to the calendar page:\n%s", cal.Body.String())
	}
}

func TestApp_StartupErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*configs.AppConfig)
		target error
	}{
		{"relative api url", func(c *configs.AppConfig) { c.ApiClient.TASKS_API_URL = "tasks:5000" }, nil},
		{"invalid first day", func(c *configs.AppConfig) { c.Calendar.FirstDayOfWeek = 9 }, nil},
		{"empty api url", func(c *configs.AppConfig) { c.ApiClient.TASKS_API_URL = "" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig("http://127.0.0.1:5000")
			tt.modify(cfg)

			_, err := newApp(cfg, contextkeys.NoopLogger())
			if err == nil {
				t.Fatal("expected startup error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Fatalf("err = %v; want %v", err, tt.target)
			}
		})
	}
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestApp_CreateTaskFromCalendarForm(t *testing.T) {
	for _, proxy := range []bool{true, false} {
		backend, got := fakeTasksBackend(t)
		cfg := testConfig(backend.URL)
		cfg.ApiClient.PROXY_ENABLED = proxy

		app, err := newApp(cfg, contextkeys.NoopLogger())
		if err != nil {
			t.Fatalf("newApp: %v", err)
		}

		rec := postForm(t, app.Handler(), "/", url.Values{"title": {"x"}, "due_date": {"2026-03-02"}})
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
			t.Fatalf("proxy=%v: response = %d Location=%q\n%s", proxy, rec.Code, rec.Header().Get("Location"), rec.Body.String())
		}

		if len(*got) != 1 {
			t.Fatalf("proxy=%v: backend calls = %+v", proxy, *got)
		}
		call := (*got)[0]
		if call.method != http.MethodPost || call.path != "/api/tasks" || call.contentType != "application/json" {
			t.Fatalf("proxy=%v: backend got %+v", proxy, call)
		}
		var sent map[string]string
		if err := json.Unmarshal([]byte(call.body), &sent); err != nil {
			t.Fatalf("backend body is not JSON: %q", call.body)
		}
		if sent["title"] != "x" || sent["due_date"] != "2026-03-02" {
			t.Fatalf("backend body = %v", sent)
		}
	}
}

func TestApp_CalendarFormErrors(t *testing.T) {
	backend, got := fakeTasksBackend(t)
	app, err := newApp(testConfig(backend.URL), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := postForm(t, app.Handler(), "/", url.Values{"title": {" "}})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), `role="alert"`) {
		t.Fatalf("empty title: %d\n%s", rec.Code, rec.Body.String())
	}
	for _, call := range *got {
		if call.method == http.MethodPost {
			t.Fatalf("invalid form must not reach the backend: %+v", call)
		}
	}

	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			http.Error(w, "nope", http.StatusUnprocessableEntity)
			return
		}
		_, _ = io.WriteString(w, "[]")
	}))
	t.Cleanup(rejecting.Close)

	app, err = newApp(testConfig(rejecting.URL), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	rec = postForm(t, app.Handler(), "/", url.Values{"title": {"x"}})
	if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), `role="alert"`) {
		t.Fatalf("rejected create: %d\n%s", rec.Code, rec.Body.String())
	}
}

func TestApp_BoardActions(t *testing.T) {
	backend, got := fakeTasksBackend(t)
	app, err := newApp(testConfig(backend.URL), contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}

	rec := postForm(t, app.Handler(), "/kanban", url.Values{"op": {"move"}, "id": {"1"}, "status": {"Done"}})
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/kanban" {
		t.Fatalf("move: %d Location=%q", rec.Code, rec.Header().Get("Location"))
	}
	rec = postForm(t, app.Handler(), "/kanban", url.Values{"op": {"delete"}, "id": {"b7"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("delete: %d", rec.Code)
	}

	want := []backendRequest{
		{http.MethodPut, "/api/tasks/1", "application/json", `{"status":"Done"}`},
		{http.MethodDelete, "/api/tasks/b7", "application/json", ""},
	}
	if len(*got) != len(want) {
		t.Fatalf("backend calls = %+v", *got)
	}
	for i := range want {
		if (*got)[i] != want[i] {
			t.Errorf("call %d = %+v; want %+v", i, (*got)[i], want[i])
		}
	}
}

func TestApp_UnknownLocaleFallsBackToEnglish(t *testing.T) {
	cfg := testConfig(backendURL(t))
	cfg.Calendar.Locale = "not_a_locale!"

	app, err := newApp(cfg, contextkeys.NoopLogger())
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	body := get(t, app.Handler(), "/").Body.String()
	if !strings.Contains(body, `<html lang="en">`) || !strings.Contains(body, `class="vc-container" lang="en"`) {
		t.Fatalf("page should fall back to English:\n%s", body)
	}
}
