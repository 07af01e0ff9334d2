package core

// The derivation rules below are pure: they read current row facts and
// return numbers. Derived values are never stored independently except for
// the explicit payout freeze on EmployeeRow.

// CountPresent counts dates marked present. Excused and absent both
// contribute zero toward attendance-based pay and cost.
func CountPresent(attendance map[string]AttendanceStatus) int {
	count := 0
	for _, status := range attendance {
		if status == Present {
			count++
		}
	}
	return count
}

// Salary is the live-derived pay for an employee without an active payout.
func Salary(ratePerDay float64, attendanceCount int) float64 {
	return ratePerDay * float64(attendanceCount)
}

// BalanceClass classifies a student balance for display. Zero is a distinct
// settled state, not a degenerate positive or negative.
type BalanceClass string

const (
	BalancePositive BalanceClass = "positive"
	BalanceNegative BalanceClass = "negative"
	BalanceZero     BalanceClass = "zero"
)

func ClassifyBalance(balance float64) BalanceClass {
	switch {
	case balance > 0:
		return BalancePositive
	case balance < 0:
		return BalanceNegative
	default:
		return BalanceZero
	}
}

type FinanceSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

// Summarize folds the currently visible rows into the shift finance
// summary. It must be re-run after every confirmed mutation so the summary
// never drifts from the rows it describes.
func Summarize(students []*StudentRow, ledger []*LedgerEntry) FinanceSummary {
	var s FinanceSummary
	for _, row := range students {
		if row.Hidden {
			continue
		}
		s.Income += row.TotalPaid
	}
	for _, entry := range ledger {
		s.Expense += entry.Amount
	}
	s.Balance = s.Income - s.Expense
	return s
}

// EmployeePresentByDate builds the per-date footer counts for the employee
// table.
func EmployeePresentByDate(rows []*EmployeeRow, dates []string) map[string]int {
	totals := make(map[string]int, len(dates))
	for _, date := range dates {
		n := 0
		for _, row := range rows {
			if row.Attendance[date] == Present {
				n++
			}
		}
		totals[date] = n
	}
	return totals
}

// StudentPresentByDate is the student footer. Filtered-out rows do not
// count.
func StudentPresentByDate(rows []*StudentRow, dates []string) map[string]int {
	totals := make(map[string]int, len(dates))
	for _, date := range dates {
		n := 0
		for _, row := range rows {
			if !row.Hidden && row.Attendance[date] == Present {
				n++
			}
		}
		totals[date] = n
	}
	return totals
}
