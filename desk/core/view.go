package core

import (
	"sort"
	"strings"

	"jget.app/jget/utils"
)

// Recompute renumbers visible rows and rebuilds every derived aggregate.
// It must run after the confirmed mutation has been applied to the view,
// never speculatively before.
func (v *View) Recompute() {
	no := 0
	for _, row := range v.Employees {
		no++
		row.No = no
	}

	no = 0
	for _, row := range v.Students {
		if row.Hidden {
			row.No = 0
			continue
		}
		no++
		row.No = no
	}

	no = 0
	for _, entry := range v.Ledger {
		no++
		entry.No = no
	}

	v.Summary = Summarize(v.Students, v.Ledger)
	v.EmployeePresent = EmployeePresentByDate(v.Employees, v.Dates)
	v.StudentPresent = StudentPresentByDate(v.Students, v.Dates)
}

func (v *View) Employee(id int) *EmployeeRow {
	for _, row := range v.Employees {
		if row.ID == id {
			return row
		}
	}
	return nil
}

func (v *View) Student(id int) *StudentRow {
	for _, row := range v.Students {
		if row.ID == id {
			return row
		}
	}
	return nil
}

func (v *View) LedgerEntry(id int) *LedgerEntry {
	for _, entry := range v.Ledger {
		if entry.ID == id {
			return entry
		}
	}
	return nil
}

// AttachEmployee materializes a server-confirmed row and takes the person
// out of the available pool.
func (v *View) AttachEmployee(row *EmployeeRow) {
	v.Employees = append(v.Employees, row)
	v.AvailableEmployees = utils.Filter(v.AvailableEmployees, func(p Person) bool {
		return p.ID != row.ID
	})
}

// DetachEmployee removes the row and returns the person to the pool in
// sorted order.
func (v *View) DetachEmployee(id int) bool {
	row := v.Employee(id)
	if row == nil {
		return false
	}
	v.Employees = utils.Filter(v.Employees, func(r *EmployeeRow) bool {
		return r.ID != id
	})
	v.AvailableEmployees = returnToPool(v.AvailableEmployees, Person{
		ID:      id,
		Display: row.FullName + " (" + row.Position + ")",
	})
	return true
}

func (v *View) AttachStudent(row *StudentRow) {
	v.Students = append(v.Students, row)
	v.AvailableStudents = utils.Filter(v.AvailableStudents, func(p Person) bool {
		return p.ID != row.ID
	})
}

func (v *View) DetachStudent(id int) bool {
	row := v.Student(id)
	if row == nil {
		return false
	}
	v.Students = utils.Filter(v.Students, func(r *StudentRow) bool {
		return r.ID != id
	})
	v.AvailableStudents = returnToPool(v.AvailableStudents, Person{
		ID:      id,
		Display: row.FullName,
	})
	return true
}

// UpsertLedger inserts a new record or replaces the one with the same id.
// A payout additionally freezes the employee's salary display until the
// record is deleted.
func (v *View) UpsertLedger(entry *LedgerEntry) {
	replaced := false
	for i, existing := range v.Ledger {
		if existing.ID == entry.ID {
			v.Ledger[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		v.Ledger = append(v.Ledger, entry)
	}

	if entry.Kind == KindPayout {
		if row := v.Employee(entry.EmployeeID); row != nil {
			row.PayoutID = entry.ID
			row.PaidAmount = entry.Amount
		}
	}
}

// RemoveLedger deletes a record. Deleting a payout reverses the freeze and
// restores the live-derived salary.
func (v *View) RemoveLedger(id int) *LedgerEntry {
	entry := v.LedgerEntry(id)
	if entry == nil {
		return nil
	}
	v.Ledger = utils.Filter(v.Ledger, func(e *LedgerEntry) bool {
		return e.ID != id
	})

	if entry.Kind == KindPayout {
		if row := v.Employee(entry.EmployeeID); row != nil && row.PayoutID == id {
			row.PayoutID = 0
			row.PaidAmount = 0
		}
	}
	return entry
}

// FilterStudents hides rows not matching a name substring and an optional
// attendance type, then renumbers and re-derives over what remains.
func (v *View) FilterStudents(name, attendanceType string) {
	name = strings.ToLower(name)
	for _, row := range v.Students {
		match := strings.Contains(strings.ToLower(row.FullName), name)
		if attendanceType != "" {
			match = match && row.AttendanceType == attendanceType
		}
		row.Hidden = !match
	}
	v.Recompute()
}

// SortStudents orders rows by name or visit count. direction is 1 for
// ascending, -1 for descending.
func (v *View) SortStudents(column string, direction int) {
	sort.SliceStable(v.Students, func(i, j int) bool {
		switch column {
		case "visits":
			a, b := v.Students[i].AttendanceCount(), v.Students[j].AttendanceCount()
			if direction < 0 {
				return a > b
			}
			return a < b
		default:
			cmp := strings.Compare(v.Students[i].FullName, v.Students[j].FullName)
			if direction < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
	})
	v.Recompute()
}

// Clone deep-copies the view so callers can serialize it without holding
// the reconciler's lock.
func (v *View) Clone() *View {
	out := *v
	out.Dates = append([]string(nil), v.Dates...)
	out.AvailableEmployees = append([]Person(nil), v.AvailableEmployees...)
	out.AvailableStudents = append([]Person(nil), v.AvailableStudents...)

	out.Employees = utils.Map(v.Employees, func(r *EmployeeRow) *EmployeeRow {
		row := *r
		row.Attendance = cloneAttendance(r.Attendance)
		return &row
	})
	out.Students = utils.Map(v.Students, func(r *StudentRow) *StudentRow {
		row := *r
		row.Attendance = cloneAttendance(r.Attendance)
		if r.IndividualPrice != nil {
			row.IndividualPrice = utils.Ptr(*r.IndividualPrice)
		}
		return &row
	})
	out.Ledger = utils.Map(v.Ledger, func(e *LedgerEntry) *LedgerEntry {
		entry := *e
		return &entry
	})

	out.EmployeePresent = make(map[string]int, len(v.EmployeePresent))
	for k, n := range v.EmployeePresent {
		out.EmployeePresent[k] = n
	}
	out.StudentPresent = make(map[string]int, len(v.StudentPresent))
	for k, n := range v.StudentPresent {
		out.StudentPresent[k] = n
	}
	return &out
}

func cloneAttendance(m map[string]AttendanceStatus) map[string]AttendanceStatus {
	out := make(map[string]AttendanceStatus, len(m))
	for k, s := range m {
		out[k] = s
	}
	return out
}

func returnToPool(pool []Person, p Person) []Person {
	for _, existing := range pool {
		if existing.ID == p.ID {
			return pool
		}
	}
	pool = append(pool, p)
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Display < pool[j].Display
	})
	return pool
}
