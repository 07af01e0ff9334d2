package shift

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "jget.app/jget/crm/v1"
	"jget.app/jget/desk/core"
	"jget.app/jget/desk/model"
)

const upstreamShift = `{
	"id": 1,
	"name": "June",
	"start_date": "2026-06-01",
	"end_date": "2026-06-05",
	"employees": [
		{"id": 1, "full_name": "Anna Petrova", "position": "counselor", "rate_per_day": 1000,
		 "attendance": {"1_2026-06-01": "present", "1_2026-06-02": "present", "1_2026-06-03": "present"}}
	],
	"students": [
		{"id": 10, "full_name": "Vera", "attendance_type": "full", "default_price": "500,00",
		 "attendance": {}, "total_paid": "0,00"}
	],
	"expenses": [],
	"salaries": [],
	"available_employees": [],
	"available_students": []
}`

type stubJournal struct{}

func (stubJournal) Journal(_ context.Context, shiftID, limit int) ([]model.JournalEntry, error) {
	return []model.JournalEntry{
		{ID: "j-1", ShiftID: shiftID, EntityKey: "employee:1", Kind: "toggle_attendance", CreatedAt: time.Now()},
	}, nil
}

func newTestRouter(t *testing.T, upstream map[string]http.HandlerFunc) *gin.Engine {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/schedule/1/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, upstreamShift)
	})
	for path, handler := range upstream {
		mux.HandleFunc(path, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	desk := core.NewDesk(v1.NewCrmClient(v1.Session{BaseURL: srv.URL}), nil, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	Register(r.Group("/api"), desk, stubJournal{})
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func viewData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestGetView(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/shifts/1/view", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := viewData(t, w)
	assert.Equal(t, "June", data["name"])
	assert.Len(t, data["dates"], 5)

	summary := data["summary"].(map[string]any)
	assert.Equal(t, 0.0, summary["income"])
}

func TestInvalidShiftID(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(r, http.MethodGet, "/api/shifts/abc/view", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleAttendance(t *testing.T) {
	r := newTestRouter(t, map[string]http.HandlerFunc{
		"/schedule/1/toggle_attendance/": func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, `{"status": "success", "present": false, "excused": false, "employee_id": 1, "date": "2026-06-03"}`)
		},
	})

	w := do(r, http.MethodPost, "/api/shifts/1/attendance/toggle",
		`{"kind": "employee", "id": 1, "date": "2026-06-03"}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := viewData(t, w)
	employees := data["employees"].([]any)
	anna := employees[0].(map[string]any)
	attendance := anna["attendance"].(map[string]any)
	assert.Equal(t, "absent", attendance["2026-06-03"])
}

func TestToggleBindingErrors(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "Empty body", body: ""},
		{name: "Unknown kind", body: `{"kind": "parent", "id": 1, "date": "2026-06-01"}`},
		{name: "Missing id", body: `{"kind": "employee", "date": "2026-06-01"}`},
		{name: "Bad date", body: `{"kind": "employee", "id": 1, "date": "June 3rd"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/api/shifts/1/attendance/toggle", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpstreamValidationMapsTo422(t *testing.T) {
	r := newTestRouter(t, map[string]http.HandlerFunc{
		"/payroll/expenses/create/": func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, `{"success": false, "errors": {"category": ["unknown value"]}}`)
		},
	})

	w := do(r, http.MethodPost, "/api/shifts/1/expenses",
		`{"category": "misc", "amount": 100}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Fields map[string][]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"unknown value"}, resp.Fields["category"])
}

func TestBusinessRejectionMapsTo409(t *testing.T) {
	r := newTestRouter(t, map[string]http.HandlerFunc{
		"/schedule/1/toggle_attendance/": func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, `{"status": "error", "message": "shift is archived"}`)
		},
	})

	w := do(r, http.MethodPost, "/api/shifts/1/attendance/toggle",
		`{"kind": "employee", "id": 1, "date": "2026-06-03"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpstreamFailureMapsTo502(t *testing.T) {
	r := newTestRouter(t, map[string]http.HandlerFunc{
		"/schedule/1/toggle_attendance/": func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})

	w := do(r, http.MethodPost, "/api/shifts/1/attendance/toggle",
		`{"kind": "employee", "id": 1, "date": "2026-06-03"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRemoveEmployeeRoute(t *testing.T) {
	r := newTestRouter(t, map[string]http.HandlerFunc{
		"/schedule/1/remove_employee/1/": func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, `{"success": true}`)
		},
	})

	w := do(r, http.MethodDelete, "/api/shifts/1/employees/1", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := viewData(t, w)
	assert.Empty(t, data["employees"])
	assert.Len(t, data["available_employees"], 1)
}

func TestFilterRoute(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodPost, "/api/shifts/1/filter", `{"name": "nobody"}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := viewData(t, w)
	summary := data["summary"].(map[string]any)
	assert.Equal(t, 0.0, summary["income"])
	students := data["students"].([]any)
	vera := students[0].(map[string]any)
	assert.Equal(t, 0.0, vera["no"], "hidden rows drop out of numbering")
}

func TestExportRoute(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/shifts/1/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "shift_1_students.xlsx")
	assert.NotZero(t, w.Body.Len())
}

func TestQuickEditFragmentPassthrough(t *testing.T) {
	r := newTestRouter(t, map[string]http.HandlerFunc{
		"/students/10/quick_edit/": func(w http.ResponseWriter, req *http.Request) {
			fmt.Fprint(w, `<form id="quick-edit"></form>`)
		},
	})

	w := do(r, http.MethodGet, "/api/shifts/1/students/10/quick-edit", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `<form id="quick-edit"></form>`, w.Body.String())
}

func TestJournalRoute(t *testing.T) {
	r := newTestRouter(t, nil)

	w := do(r, http.MethodGet, "/api/shifts/1/journal", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "employee:1", resp.Data[0]["entityKey"])
}
