package v1

import "errors"

// ErrRejected marks a request the CRM refused on business grounds, as
// opposed to a validation or transport failure.
var ErrRejected = errors.New("rejected by CRM")

type CrmClient struct {
	Transport *Transport
	Schedules *ScheduleEndpoint
	Payroll   *PayrollEndpoint
	Students  *StudentEndpoint
}

// NewCrmClient initializes the API client for one CRM session
func NewCrmClient(session Session) *CrmClient {
	t := NewTransport(session)
	return &CrmClient{
		Transport: t,
		Schedules: &ScheduleEndpoint{transport: t},
		Payroll:   &PayrollEndpoint{transport: t},
		Students:  &StudentEndpoint{transport: t},
	}
}
