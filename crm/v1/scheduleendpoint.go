package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"jget.app/jget/crm/v1/common"
)

type ScheduleEndpoint struct {
	transport *Transport
}

// Detail fetches the full payload of one schedule view for hydration.
func (ep *ScheduleEndpoint) Detail(ctx context.Context, shiftID int) (*common.ShiftDTO, error) {
	data, err := ep.transport.Get(ctx, fmt.Sprintf("/api/schedule/%d/", shiftID), nil)
	if err != nil {
		return nil, err
	}
	var dto common.ShiftDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// ToggleEmployee cycles an employee's mark for one date. The server owns
// the cycle; the result carries the state it landed on.
func (ep *ScheduleEndpoint) ToggleEmployee(ctx context.Context, shiftID, employeeID int, date string) (*common.ToggleResult, error) {
	return ep.toggle(ctx, shiftID, map[string]any{
		"employee_id": employeeID,
		"date":        date,
	})
}

func (ep *ScheduleEndpoint) ToggleStudent(ctx context.Context, shiftID, studentID int, date string) (*common.ToggleResult, error) {
	return ep.toggle(ctx, shiftID, map[string]any{
		"student_id": studentID,
		"date":       date,
	})
}

func (ep *ScheduleEndpoint) toggle(ctx context.Context, shiftID int, payload map[string]any) (*common.ToggleResult, error) {
	resp, err := ep.transport.PostJSON(ctx, fmt.Sprintf("/schedule/%d/toggle_attendance/", shiftID), payload)
	if err != nil {
		return nil, err
	}

	var result common.ToggleResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		if result.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, result.Message)
		}
		return nil, fmt.Errorf("%w: status %s", ErrRejected, result.Status)
	}
	return &result, nil
}

// AddEmployee assigns an employee to the shift and returns the confirmed
// row data, attendance cells included.
func (ep *ScheduleEndpoint) AddEmployee(ctx context.Context, shiftID, employeeID int) (*common.EmployeeDTO, error) {
	form := url.Values{}
	form.Set("action", "add_employee")
	form.Set("employee", strconv.Itoa(employeeID))

	resp, err := ep.transport.PostForm(ctx, fmt.Sprintf("/schedule/%d/", shiftID), form)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		common.FormResult
		Employee *common.EmployeeDTO `json:"employee"`
	}
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.Err(); err != nil {
		return nil, err
	}
	if envelope.Employee == nil {
		return nil, fmt.Errorf("add_employee: empty payload")
	}
	return envelope.Employee, nil
}

func (ep *ScheduleEndpoint) AddStudent(ctx context.Context, shiftID, studentID int) (*common.StudentDTO, error) {
	form := url.Values{}
	form.Set("action", "add_student")
	form.Set("student", strconv.Itoa(studentID))

	resp, err := ep.transport.PostForm(ctx, fmt.Sprintf("/schedule/%d/", shiftID), form)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		common.FormResult
		Student *common.StudentDTO `json:"student"`
	}
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.Err(); err != nil {
		return nil, err
	}
	if envelope.Student == nil {
		return nil, fmt.Errorf("add_student: empty payload")
	}
	return envelope.Student, nil
}

// RemoveEmployee is idempotent by id upstream.
func (ep *ScheduleEndpoint) RemoveEmployee(ctx context.Context, shiftID, employeeID int) error {
	return ep.remove(ctx, fmt.Sprintf("/schedule/%d/remove_employee/%d/", shiftID, employeeID))
}

func (ep *ScheduleEndpoint) RemoveStudent(ctx context.Context, shiftID, studentID int) error {
	return ep.remove(ctx, fmt.Sprintf("/schedule/%d/remove_student/%d/", shiftID, studentID))
}

func (ep *ScheduleEndpoint) remove(ctx context.Context, path string) error {
	resp, err := ep.transport.PostJSON(ctx, path, map[string]any{})
	if err != nil {
		return err
	}
	var result common.FormResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return err
	}
	return result.Err()
}
