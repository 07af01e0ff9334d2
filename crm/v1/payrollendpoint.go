package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"jget.app/jget/crm/v1/common"
)

type PayrollEndpoint struct {
	transport *Transport
}

type ExpenseForm struct {
	ID       int // 0 creates, otherwise edits
	Schedule int
	Category string
	Comment  string
	Amount   float64
}

// SaveExpense creates or edits an expense record. Validation failures come
// back as *common.ValidationError carrying field errors and the
// re-rendered form fragment.
func (ep *PayrollEndpoint) SaveExpense(ctx context.Context, form ExpenseForm) (*common.ExpenseDTO, error) {
	values := url.Values{}
	values.Set("schedule", strconv.Itoa(form.Schedule))
	values.Set("category", form.Category)
	values.Set("comment", form.Comment)
	values.Set("amount", strconv.FormatFloat(form.Amount, 'f', 2, 64))

	path := "/payroll/expenses/create/"
	if form.ID != 0 {
		path = fmt.Sprintf("/payroll/expenses/edit/%d/", form.ID)
	}

	resp, err := ep.transport.PostForm(ctx, path, values)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		common.FormResult
		Expense *common.ExpenseDTO `json:"expense"`
	}
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.Err(); err != nil {
		return nil, err
	}
	if envelope.Expense == nil {
		return nil, fmt.Errorf("save expense: empty payload")
	}
	return envelope.Expense, nil
}

func (ep *PayrollEndpoint) DeleteExpense(ctx context.Context, id int) error {
	return ep.delete(ctx, fmt.Sprintf("/payroll/expenses/delete/%d/", id))
}

type SalaryForm struct {
	ID           int
	Employee     int
	Schedule     int
	PaymentType  string
	DailyRate    float64
	PercentRate  float64
	TotalPayment float64
	IsPaid       bool
}

// SaveSalary records a payout. The desk treats a saved salary as the
// freeze point for the employee's derived figure.
func (ep *PayrollEndpoint) SaveSalary(ctx context.Context, form SalaryForm) (*common.SalaryDTO, error) {
	values := url.Values{}
	values.Set("employee", strconv.Itoa(form.Employee))
	values.Set("schedule", strconv.Itoa(form.Schedule))
	values.Set("payment_type", form.PaymentType)
	values.Set("daily_rate", strconv.FormatFloat(form.DailyRate, 'f', 2, 64))
	values.Set("percent_rate", strconv.FormatFloat(form.PercentRate, 'f', 2, 64))
	values.Set("total_payment", strconv.FormatFloat(form.TotalPayment, 'f', 2, 64))
	if form.IsPaid {
		values.Set("is_paid", "on")
	}

	path := "/payroll/salaries/create/"
	if form.ID != 0 {
		path = fmt.Sprintf("/payroll/salaries/edit/%d/", form.ID)
	}

	resp, err := ep.transport.PostForm(ctx, path, values)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		common.FormResult
		Salary *common.SalaryDTO `json:"salary"`
	}
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.Err(); err != nil {
		return nil, err
	}
	if envelope.Salary == nil {
		return nil, fmt.Errorf("save salary: empty payload")
	}
	return envelope.Salary, nil
}

func (ep *PayrollEndpoint) DeleteSalary(ctx context.Context, id int) error {
	return ep.delete(ctx, fmt.Sprintf("/payroll/salaries/delete/%d/", id))
}

func (ep *PayrollEndpoint) delete(ctx context.Context, path string) error {
	resp, err := ep.transport.PostForm(ctx, path, url.Values{})
	if err != nil {
		return err
	}
	var result common.FormResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return err
	}
	return result.Err()
}
