package core

// AttendanceStatus is the three-valued per-person per-date mark used by the
// CRM. The server owns the toggle cycle; the desk only mirrors it.
type AttendanceStatus string

const (
	Present AttendanceStatus = "present"
	Excused AttendanceStatus = "excused"
	Absent  AttendanceStatus = "absent"
)

// Next returns the status the server's toggle cycle moves to.
func (s AttendanceStatus) Next() AttendanceStatus {
	switch s {
	case Absent:
		return Present
	case Present:
		return Excused
	default:
		return Absent
	}
}

type LedgerKind string

const (
	KindExpense LedgerKind = "expense"
	KindPayout  LedgerKind = "payout"
)

// Person is an entry in an available-to-add pool.
type Person struct {
	ID      int    `json:"id"`
	Display string `json:"display"`
}

type EmployeeRow struct {
	No         int     `json:"no"`
	ID         int     `json:"id"`
	FullName   string  `json:"full_name"`
	Position   string  `json:"position"`
	RatePerDay float64 `json:"rate_per_day"`

	// Attendance is keyed by shift date (yyyy-mm-dd).
	Attendance map[string]AttendanceStatus `json:"attendance"`

	// PayoutID links the salary payout that froze this row, 0 when the
	// salary is still live-derived.
	PayoutID   int     `json:"payout_id,omitempty"`
	PaidAmount float64 `json:"paid_amount,omitempty"`
}

func (r *EmployeeRow) AttendanceCount() int {
	return CountPresent(r.Attendance)
}

// Paid reports whether an active payout freezes the salary display.
func (r *EmployeeRow) Paid() bool { return r.PayoutID != 0 }

// DisplayedSalary is the frozen payout amount while a payout exists,
// otherwise the live-derived figure.
func (r *EmployeeRow) DisplayedSalary() float64 {
	if r.Paid() {
		return r.PaidAmount
	}
	return Salary(r.RatePerDay, r.AttendanceCount())
}

type StudentRow struct {
	No              int      `json:"no"`
	ID              int      `json:"id"`
	FullName        string   `json:"full_name"`
	AttendanceType  string   `json:"attendance_type"`
	DefaultPrice    float64  `json:"default_price"`
	IndividualPrice *float64 `json:"individual_price,omitempty"`

	Attendance map[string]AttendanceStatus `json:"attendance"`
	TotalPaid  float64                     `json:"total_paid"`

	// Hidden rows are filtered out of numbering and the finance summary.
	Hidden bool `json:"-"`
}

// Cost is the individual price when set, the default price otherwise.
func (r *StudentRow) Cost() float64 {
	if r.IndividualPrice != nil {
		return *r.IndividualPrice
	}
	return r.DefaultPrice
}

func (r *StudentRow) AttendanceCount() int {
	return CountPresent(r.Attendance)
}

func (r *StudentRow) Balance() float64 {
	return r.TotalPaid - r.Cost()
}

func (r *StudentRow) BalanceClass() BalanceClass {
	return ClassifyBalance(r.Balance())
}

// LedgerEntry is a financial record of the shift: a plain expense or a
// salary payout. Payouts carry the employee they freeze.
type LedgerEntry struct {
	No         int        `json:"no"`
	ID         int        `json:"id"`
	Kind       LedgerKind `json:"kind"`
	Category   string     `json:"category,omitempty"`
	Comment    string     `json:"comment,omitempty"`
	Amount     float64    `json:"amount"`
	EmployeeID int        `json:"employee_id,omitempty"`
}

// View is the in-memory representation of one shift detail page. It is a
// cache hydrated from the CRM and kept live by confirmed patches; it is
// never the source of truth.
type View struct {
	ShiftID int      `json:"shift_id"`
	Name    string   `json:"name"`
	Dates   []string `json:"dates"`

	Employees []*EmployeeRow `json:"employees"`
	Students  []*StudentRow  `json:"students"`
	Ledger    []*LedgerEntry `json:"ledger"`

	AvailableEmployees []Person `json:"available_employees"`
	AvailableStudents  []Person `json:"available_students"`

	Summary FinanceSummary `json:"summary"`

	// Footer rows: per-date count of present marks.
	EmployeePresent map[string]int `json:"employee_present"`
	StudentPresent  map[string]int `json:"student_present"`
}
