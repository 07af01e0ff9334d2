package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"jget.app/jget/crm/v1/common"
)

type StudentEndpoint struct {
	transport *Transport
}

type PaymentForm struct {
	Student  int
	Schedule int
	Amount   float64
	Comment  string
}

// CreatePayment records a student payment against the shift and returns
// the confirmed record together with the student's new running total.
func (ep *StudentEndpoint) CreatePayment(ctx context.Context, form PaymentForm) (*common.PaymentDTO, error) {
	values := url.Values{}
	values.Set("student", strconv.Itoa(form.Student))
	values.Set("schedule", strconv.Itoa(form.Schedule))
	values.Set("amount", strconv.FormatFloat(form.Amount, 'f', 2, 64))
	values.Set("comment", form.Comment)

	resp, err := ep.transport.PostForm(ctx, "/students/payments/create/", values)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		common.FormResult
		Payment *common.PaymentDTO `json:"payment"`
	}
	if err := json.Unmarshal(resp.Data, &envelope); err != nil {
		return nil, err
	}
	if err := envelope.Err(); err != nil {
		return nil, err
	}
	if envelope.Payment == nil {
		return nil, fmt.Errorf("create payment: empty payload")
	}
	return envelope.Payment, nil
}

// QuickEditForm fetches the server-rendered edit form fragment for a
// student, injected verbatim into the modal container.
func (ep *StudentEndpoint) QuickEditForm(ctx context.Context, studentID int) (string, error) {
	data, err := ep.transport.Get(ctx, fmt.Sprintf("/students/%d/quick_edit/", studentID), nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// PaymentFormHTML fetches the payment form fragment pre-bound to a student
// and shift.
func (ep *StudentEndpoint) PaymentFormHTML(ctx context.Context, studentID, shiftID int) (string, error) {
	data, err := ep.transport.Get(ctx, "/students/payments/create/", map[string]string{
		"student_id":  strconv.Itoa(studentID),
		"schedule_id": strconv.Itoa(shiftID),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}
