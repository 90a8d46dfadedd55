package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/planner/internal/adapters/repository"
	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	dir := t.TempDir()
	scheduleRepo, err := repository.NewScheduleRepository(repository.NewJSONFile[entities.Schedule](filepath.Join(dir, "schedules.json")))
	require.NoError(t, err)
	templateRepo, err := repository.NewTemplateRepository(repository.NewJSONFile[entities.ScheduleTemplate](filepath.Join(dir, "templates.json")))
	require.NoError(t, err)

	log := logger.NewNop()
	scheduleService := services.NewScheduleService(scheduleRepo, templateRepo, log, nil)
	templateService := services.NewTemplateService(templateRepo, log, nil)

	e := echo.New()
	e.Validator = NewCustomValidator()
	e.HTTPErrorHandler = NewErrorHandler(log)
	RegisterRoutes(e.Group("/api"),
		NewScheduleHandler(scheduleService, log),
		NewTemplateHandler(templateService, scheduleService, log),
	)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, contentType, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func doJSON(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return do(t, e, method, target, echo.MIMEApplicationJSON, body)
}

const standup = `{
	"title": "Standup",
	"startDate": "2026-11-02T09:00:00Z",
	"endDate": "2026-11-02T09:15:00Z",
	"category": "meeting",
	"priority": "medium",
	"tags": ["team"]
}`

func createSchedule(t *testing.T, e *echo.Echo, body string) entities.Schedule {
	t.Helper()

	rec, env := doJSON(t, e, http.MethodPost, "/api/schedules", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var s entities.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &s))
	return s
}

func TestScheduleHandler_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
		wantMsg    string
	}{
		{
			name:       "single",
			body:       standup,
			wantStatus: http.StatusCreated,
			wantMsg:    "schedule created",
		},
		{
			name: "weekly series",
			body: `{"title":"Review","startDate":"2026-11-02T09:00:00Z","endDate":"2026-11-02T10:00:00Z",
				"category":"work","priority":"high","repeatType":"weekly","repeatInterval":1,
				"repeatEndDate":"2026-11-23T09:00:00Z"}`,
			wantStatus: http.StatusCreated,
			wantMsg:    "schedule created with 3 occurrences",
		},
		{
			name:       "end before start",
			body:       `{"title":"x","startDate":"2026-11-02T10:00:00Z","endDate":"2026-11-02T09:00:00Z","category":"work","priority":"low"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "endDate",
		},
		{
			name:       "missing category",
			body:       `{"title":"x","startDate":"2026-11-02T09:00:00Z","endDate":"2026-11-02T10:00:00Z","priority":"low"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "category",
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestAPI(t)
			rec, env := doJSON(t, e, http.MethodPost, "/api/schedules", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, env.Message)
			}
			if tt.wantField != "" {
				require.NotEmpty(t, env.Details)
				assert.Equal(t, tt.wantField, env.Details[0].Field)
			}
		})
	}
}

func TestScheduleHandler_ListAndFilters(t *testing.T) {
	t.Parallel()

	e := newTestAPI(t)
	createSchedule(t, e, standup)
	createSchedule(t, e, `{"title":"Gym","startDate":"2026-11-01T18:00:00Z","endDate":"2026-11-01T19:00:00Z","category":"personal","priority":"low","tags":["health"]}`)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantTitles []string
	}{
		{name: "all sorted by start", query: "", wantStatus: http.StatusOK, wantTitles: []string{"Gym", "Standup"}},
		{name: "category", query: "?category=meeting", wantStatus: http.StatusOK, wantTitles: []string{"Standup"}},
		{name: "tags any match", query: "?tags=nope,%20health", wantStatus: http.StatusOK, wantTitles: []string{"Gym"}},
		{name: "search", query: "?search=STAND", wantStatus: http.StatusOK, wantTitles: []string{"Standup"}},
		{name: "date range", query: "?startDate=2026-11-02&endDate=2026-11-03", wantStatus: http.StatusOK, wantTitles: []string{"Standup"}},
		{name: "bad boolean", query: "?isCompleted=maybe", wantStatus: http.StatusBadRequest},
		{name: "bad category", query: "?category=errand", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := doJSON(t, e, http.MethodGet, "/api/schedules"+tt.query, "")
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var got []entities.Schedule
			require.NoError(t, json.Unmarshal(env.Data, &got))
			titles := make([]string, 0, len(got))
			for _, s := range got {
				titles = append(titles, s.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
			require.NotNil(t, env.Total)
			assert.Equal(t, len(tt.wantTitles), *env.Total)
		})
	}
}

func TestScheduleHandler_GetUpdateDelete(t *testing.T) {
	t.Parallel()

	e := newTestAPI(t)
	s := createSchedule(t, e, standup)

	rec, env := doJSON(t, e, http.MethodGet, "/api/schedules/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "schedule not found", env.Error)

	rec, env = doJSON(t, e, http.MethodPut, "/api/schedules/"+s.ID, `{"isCompleted":true,"title":"Daily standup"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated entities.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Daily standup", updated.Title)
	assert.Equal(t, []string{"team"}, updated.Tags)

	rec, env = doJSON(t, e, http.MethodPut, "/api/schedules/"+s.ID, `{"endDate":"2026-11-01T00:00:00Z"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotEmpty(t, env.Details)
	assert.Equal(t, "endDate", env.Details[0].Field)

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/schedules/"+s.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = doJSON(t, e, http.MethodDelete, "/api/schedules/"+s.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScheduleHandler_BulkAndDeleteAll(t *testing.T) {
	t.Parallel()

	e := newTestAPI(t)
	a := createSchedule(t, e, standup)
	createSchedule(t, e, standup)

	rec, env := doJSON(t, e, http.MethodDelete, "/api/schedules/bulk", `{"ids":["`+a.ID+`","ghost"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		DeletedCount int      `json:"deletedCount"`
		Errors       []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.DeletedCount)
	assert.Equal(t, []string{"schedule ghost not found"}, result.Errors)

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/schedules/bulk", `{"ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doJSON(t, e, http.MethodDelete, "/api/schedules/all", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 schedules deleted", env.Message)
}

func TestScheduleHandler_AnalyticsAndStats(t *testing.T) {
	t.Parallel()

	e := newTestAPI(t)
	createSchedule(t, e, standup)

	rec, env := doJSON(t, e, http.MethodGet, "/api/schedules/analytics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
		CategoryDistribution map[string]int `json:"categoryDistribution"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.CategoryDistribution["meeting"])

	rec, env = doJSON(t, e, http.MethodGet, "/api/schedules/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats struct {
		FileExists    bool `json:"fileExists"`
		ScheduleCount int  `json:"scheduleCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.True(t, stats.FileExists)
	assert.Equal(t, 1, stats.ScheduleCount)
}

func TestScheduleHandler_Export(t *testing.T) {
	t.Parallel()

	e := newTestAPI(t)
	createSchedule(t, e, standup)

	tests := []struct {
		path        string
		wantStatus  int
		wantType    string
		wantExt     string
		wantContent string
	}{
		{path: "/api/schedules/export", wantStatus: http.StatusOK, wantType: "application/json", wantExt: ".json", wantContent: `"exportedAt"`},
		{path: "/api/schedules/export/csv", wantStatus: http.StatusOK, wantType: "text/csv", wantExt: ".csv", wantContent: "Standup"},
		{path: "/api/schedules/export/yml", wantStatus: http.StatusOK, wantType: "application/yaml", wantExt: ".yaml", wantContent: "scheduleCount: 1"},
		{path: "/api/schedules/export/ics", wantStatus: http.StatusOK, wantType: "text/calendar", wantExt: ".ics", wantContent: "SUMMARY:Standup"},
		{path: "/api/schedules/export/pdf", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), tt.wantType))
			disposition := rec.Header().Get(echo.HeaderContentDisposition)
			assert.Contains(t, disposition, "attachment; filename=\"schedules-export-")
			assert.Contains(t, disposition, tt.wantExt)
			assert.Contains(t, rec.Body.String(), tt.wantContent)
		})
	}
}

func TestScheduleHandler_Import(t *testing.T) {
	t.Parallel()

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		e := newTestAPI(t)
		rec, env := doJSON(t, e, http.MethodPost, "/api/schedules/import", `{"schedules":[
			{"title":"A","startDate":"2026-11-02T09:00:00Z","endDate":"2026-11-02T10:00:00Z"},
			{"title":"","startDate":"2026-11-02T09:00:00Z","endDate":"2026-11-02T10:00:00Z"}
		]}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result struct {
			ImportedCount int      `json:"importedCount"`
			ErrorCount    int      `json:"errorCount"`
			Errors        []string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, 1, result.ImportedCount)
		assert.Equal(t, 1, result.ErrorCount)
		assert.Len(t, result.Errors, 1)
	})

	t.Run("missing schedules", func(t *testing.T) {
		t.Parallel()

		e := newTestAPI(t)
		rec, _ := doJSON(t, e, http.MethodPost, "/api/schedules/import", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ics", func(t *testing.T) {
		t.Parallel()

		e := newTestAPI(t)
		feed := strings.Join([]string{
			"BEGIN:VCALENDAR",
			"VERSION:2.0",
			"PRODID:-//test//EN",
			"BEGIN:VEVENT",
			"UID:one",
			"DTSTART:20261105T090000Z",
			"DTEND:20261105T100000Z",
			"SUMMARY:Dentist",
			"END:VEVENT",
			"BEGIN:VEVENT",
			"UID:two",
			"DTSTART:20261106T090000Z",
			"END:VEVENT",
			"END:VCALENDAR",
			"",
		}, "\r\n")

		rec, env := do(t, e, http.MethodPost, "/api/schedules/import/ics", "text/calendar", feed)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var result struct {
			ImportedCount int      `json:"importedCount"`
			ErrorCount    int      `json:"errorCount"`
			Errors        []string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, 1, result.ImportedCount)
		assert.Equal(t, 1, result.ErrorCount)

		_, env = doJSON(t, e, http.MethodGet, "/api/schedules?search=dentist", "")
		require.NotNil(t, env.Total)
		assert.Equal(t, 1, *env.Total)
	})
}

func TestTemplateHandler(t *testing.T) {
	t.Parallel()

	e := newTestAPI(t)

	rec, env := doJSON(t, e, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Total)
	assert.Equal(t, 5, *env.Total)

	rec, _ = doJSON(t, e, http.MethodGet, "/api/templates/category/errand", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doJSON(t, e, http.MethodPost, "/api/templates",
		`{"name":"Focus","category":"work","priority":"high","duration":50,"tags":["deep"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tmpl entities.ScheduleTemplate
	require.NoError(t, json.Unmarshal(env.Data, &tmpl))

	rec, _ = doJSON(t, e, http.MethodPost, "/api/templates",
		`{"name":"Too long","category":"work","priority":"high","duration":2000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doJSON(t, e, http.MethodGet, "/api/templates/category/work", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var work []entities.ScheduleTemplate
	require.NoError(t, json.Unmarshal(env.Data, &work))
	for _, w := range work {
		assert.Equal(t, entities.CategoryWork, w.Category)
	}

	rec, env = do(t, e, http.MethodPost, "/api/templates/"+tmpl.ID+"/duplicate", "", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var dup entities.ScheduleTemplate
	require.NoError(t, json.Unmarshal(env.Data, &dup))
	assert.Equal(t, "Focus (copy)", dup.Name)

	rec, env = doJSON(t, e, http.MethodPost, "/api/templates/"+tmpl.ID+"/use", `{"startDate":"2026-11-09T08:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s entities.Schedule
	require.NoError(t, json.Unmarshal(env.Data, &s))
	assert.Equal(t, "Focus", s.Title)
	assert.Equal(t, 50*time.Minute, s.Duration())

	rec, _ = doJSON(t, e, http.MethodPost, "/api/templates/missing/use", `{"startDate":"2026-11-09T08:00:00Z"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = doJSON(t, e, http.MethodPost, "/api/templates/from-schedule/"+s.ID, `{"name":"Focus again"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var back entities.ScheduleTemplate
	require.NoError(t, json.Unmarshal(env.Data, &back))
	assert.Equal(t, 50, back.Duration)

	rec, _ = doJSON(t, e, http.MethodPut, "/api/templates/"+tmpl.ID, `{"duration":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = doJSON(t, e, http.MethodPut, "/api/templates/"+tmpl.ID, `{"duration":25}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var renamed entities.ScheduleTemplate
	require.NoError(t, json.Unmarshal(env.Data, &renamed))
	assert.Equal(t, 25, renamed.Duration)
	assert.Equal(t, "Focus", renamed.Name)

	rec, _ = doJSON(t, e, http.MethodDelete, "/api/templates/"+tmpl.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, env = doJSON(t, e, http.MethodGet, "/api/templates/"+tmpl.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "template not found", env.Error)
}
