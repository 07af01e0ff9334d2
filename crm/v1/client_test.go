package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jget.app/jget/crm/v1/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *CrmClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewCrmClient(Session{
		BaseURL:   srv.URL,
		CSRFToken: "csrf-token",
		SessionID: "session-id",
	})
}

func TestTransportDecoratesRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "csrf-token", r.Header.Get("X-CSRFToken"))
		cookie, err := r.Cookie("sessionid")
		require.NoError(t, err)
		assert.Equal(t, "session-id", cookie.Value)
		fmt.Fprint(w, `{"status": "success", "present": true}`)
	})

	_, err := client.Schedules.ToggleEmployee(context.Background(), 7, 1, "2026-06-01")
	require.NoError(t, err)
}

func TestToggleParsesResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule/7/toggle_attendance/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"status": "success", "present": false, "excused": true, "student_id": 10, "date": "2026-06-02"}`)
	})

	res, err := client.Schedules.ToggleStudent(context.Background(), 7, 10, "2026-06-02")
	require.NoError(t, err)
	assert.False(t, res.Present)
	assert.True(t, res.Excused)
	assert.Equal(t, 10, res.StudentID)
}

func TestToggleRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "error", "message": "shift is archived"}`)
	})

	_, err := client.Schedules.ToggleEmployee(context.Background(), 7, 1, "2026-06-01")
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorContains(t, err, "shift is archived")
}

func TestAddEmployeeFormShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "add_employee", r.PostForm.Get("action"))
		assert.Equal(t, "3", r.PostForm.Get("employee"))
		fmt.Fprint(w, `{"success": true, "employee": {"id": 3, "full_name": "Egor Sidorov", "position": "driver", "rate_per_day": 900, "attendance": {}}}`)
	})

	dto, err := client.Schedules.AddEmployee(context.Background(), 7, 3)
	require.NoError(t, err)
	assert.Equal(t, "Egor Sidorov", dto.FullName)
}

func TestAddStudentValidationErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "errors": {"student": ["already assigned"]}}`)
	})

	_, err := client.Schedules.AddStudent(context.Background(), 7, 11)
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
}

func TestSaveExpensePathSelection(t *testing.T) {
	tests := []struct {
		name         string
		id           int
		expectedPath string
	}{
		{name: "Create", id: 0, expectedPath: "/payroll/expenses/create/"},
		{name: "Edit", id: 42, expectedPath: "/payroll/expenses/edit/42/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.expectedPath, r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "250.00", r.PostForm.Get("amount"))
				fmt.Fprint(w, `{"success": true, "expense": {"id": 42, "category": "food", "category_display": "Food", "amount": "250,00"}}`)
			})

			dto, err := client.Payroll.SaveExpense(context.Background(), ExpenseForm{
				ID: tt.id, Schedule: 7, Category: "food", Amount: 250,
			})
			require.NoError(t, err)
			assert.Equal(t, 42, dto.ID)
		})
	}
}

func TestSaveSalaryIsPaidFlag(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "on", r.PostForm.Get("is_paid"))
		assert.Equal(t, "fixed", r.PostForm.Get("payment_type"))
		fmt.Fprint(w, `{"success": true, "salary": {"id": 400, "employee": 1, "total_payment": "3000,00", "is_paid": true}}`)
	})

	dto, err := client.Payroll.SaveSalary(context.Background(), SalaryForm{
		Employee: 1, Schedule: 7, PaymentType: "fixed", TotalPayment: 3000, IsPaid: true,
	})
	require.NoError(t, err)
	assert.True(t, dto.IsPaid)
}

func TestTransportSurfacesHTTPFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	})

	err := client.Schedules.RemoveEmployee(context.Background(), 7, 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, "status code 504")
}

func TestGetReturnsRawFragment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("student_id"))
		assert.Equal(t, "7", r.URL.Query().Get("schedule_id"))
		fmt.Fprint(w, `<form id="payment-form"></form>`)
	})

	html, err := client.Students.PaymentFormHTML(context.Background(), 10, 7)
	require.NoError(t, err)
	assert.Equal(t, `<form id="payment-form"></form>`, html)
}
