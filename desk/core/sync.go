package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	v1 "jget.app/jget/crm/v1"
	"jget.app/jget/crm/v1/common"
	"jget.app/jget/utils"
)

var (
	// ErrBusy rejects a second mutation for an entity whose previous one
	// is still in flight. This is the disabled-control analogue: the CRM
	// has no optimistic concurrency token, so overlapping writes for one
	// entity are refused outright.
	ErrBusy = errors.New("mutation already in flight for this entity")

	// ErrStale marks a confirmed response that arrived after a newer
	// mutation for the same entity had been issued.
	ErrStale = errors.New("stale response discarded")

	ErrNotFound    = errors.New("row not found in view")
	ErrNotHydrated = errors.New("view not hydrated")
)

// Journal records every confirmed mutation after it has been applied. The
// mirror store implements it; NopJournal drops the records.
type Journal interface {
	Record(ctx context.Context, shiftID int, entityKey, kind string, payload any) error
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, int, string, string, any) error { return nil }

var NopJournal Journal = nopJournal{}

// Reconciler keeps one shift view synchronized with the CRM. Every
// mutation is an opaque upstream round trip followed, only on success, by
// the view patch and a full re-derivation. A failed round trip leaves the
// prior view untouched.
type Reconciler struct {
	client  *v1.CrmClient
	journal Journal

	mu   sync.Mutex
	view *View

	inflight map[string]bool
	seq      map[string]uint64
}

func NewReconciler(client *v1.CrmClient, journal Journal) *Reconciler {
	if journal == nil {
		journal = NopJournal
	}
	return &Reconciler{
		client:   client,
		journal:  journal,
		inflight: make(map[string]bool),
		seq:      make(map[string]uint64),
	}
}

// Hydrate loads the initial state from the CRM. The view is a cache of
// that state, never a source of truth.
func (r *Reconciler) Hydrate(ctx context.Context, shiftID int) error {
	dto, err := r.client.Schedules.Detail(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("hydrate shift %d: %w", shiftID, err)
	}

	view := buildView(dto)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = view
	r.view.Recompute()
	return nil
}

// Restore seeds the view from a mirror snapshot, the last confirmed state
// before a restart.
func (r *Reconciler) Restore(view *View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view = view
	r.view.Recompute()
}

// Snapshot returns a deep copy safe to serialize outside the lock.
func (r *Reconciler) Snapshot() (*View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		return nil, ErrNotHydrated
	}
	return r.view.Clone(), nil
}

func (r *Reconciler) ShiftID() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		return 0
	}
	return r.view.ShiftID
}

// ToggleEmployeeAttendance cycles one employee/date cell. The server owns
// the cycle; the view mirrors whatever state the response reports.
func (r *Reconciler) ToggleEmployeeAttendance(ctx context.Context, employeeID int, date string) error {
	key := entityKey("employee", employeeID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	res, err := r.client.Schedules.ToggleEmployee(ctx, shiftID, employeeID, date)
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "toggle_attendance", res, func(v *View) error {
		row := v.Employee(employeeID)
		if row == nil {
			return ErrNotFound
		}
		row.Attendance[date] = statusFromFlags(res.Present, res.Excused)
		return nil
	})
}

func (r *Reconciler) ToggleStudentAttendance(ctx context.Context, studentID int, date string) error {
	key := entityKey("student", studentID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	res, err := r.client.Schedules.ToggleStudent(ctx, shiftID, studentID, date)
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "toggle_attendance", res, func(v *View) error {
		row := v.Student(studentID)
		if row == nil {
			return ErrNotFound
		}
		row.Attendance[date] = statusFromFlags(res.Present, res.Excused)
		return nil
	})
}

// AddEmployee assigns an employee to the shift and materializes the row
// the server confirmed, attendance and rate included.
func (r *Reconciler) AddEmployee(ctx context.Context, employeeID int) error {
	key := entityKey("employee", employeeID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	dto, err := r.client.Schedules.AddEmployee(ctx, shiftID, employeeID)
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "add_employee", dto, func(v *View) error {
		if v.Employee(employeeID) != nil {
			return fmt.Errorf("employee %d already on shift", employeeID)
		}
		v.AttachEmployee(employeeRowFromDTO(dto, v.Dates))
		return nil
	})
}

func (r *Reconciler) AddStudent(ctx context.Context, studentID int) error {
	key := entityKey("student", studentID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	dto, err := r.client.Schedules.AddStudent(ctx, shiftID, studentID)
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "add_student", dto, func(v *View) error {
		if v.Student(studentID) != nil {
			return fmt.Errorf("student %d already on shift", studentID)
		}
		v.AttachStudent(studentRowFromDTO(dto, v.Dates))
		return nil
	})
}

// RemoveEmployee detaches the row and returns the person to the available
// pool in sorted order. The caller is expected to have confirmed the
// destructive action with the user.
func (r *Reconciler) RemoveEmployee(ctx context.Context, employeeID int) error {
	key := entityKey("employee", employeeID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	if err := r.client.Schedules.RemoveEmployee(ctx, shiftID, employeeID); err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "remove_employee", employeeID, func(v *View) error {
		if !v.DetachEmployee(employeeID) {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Reconciler) RemoveStudent(ctx context.Context, studentID int) error {
	key := entityKey("student", studentID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	if err := r.client.Schedules.RemoveStudent(ctx, shiftID, studentID); err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "remove_student", studentID, func(v *View) error {
		if !v.DetachStudent(studentID) {
			return ErrNotFound
		}
		return nil
	})
}

// SaveExpense upserts an expense record in the ledger: insert for a new
// id, replace when editing an existing one.
func (r *Reconciler) SaveExpense(ctx context.Context, form v1.ExpenseForm) error {
	key := entityKey("expense", form.ID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	form.Schedule = shiftID
	dto, err := r.client.Payroll.SaveExpense(ctx, form)
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "save_expense", dto, func(v *View) error {
		v.UpsertLedger(&LedgerEntry{
			ID:       dto.ID,
			Kind:     KindExpense,
			Category: dto.CategoryDisplay,
			Comment:  dto.Comment,
			Amount:   ParseAmount(dto.Amount),
		})
		return nil
	})
}

func (r *Reconciler) DeleteExpense(ctx context.Context, id int) error {
	key := entityKey("expense", id)
	seq, _, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	if err := r.client.Payroll.DeleteExpense(ctx, id); err != nil {
		return err
	}

	// Idempotent by id: deleting an already absent record is not an error.
	return r.commit(ctx, key, seq, "delete_expense", id, func(v *View) error {
		v.RemoveLedger(id)
		return nil
	})
}

// RecordPayment registers a student payment. The server's running total is
// authoritative; the balance is re-derived from it.
func (r *Reconciler) RecordPayment(ctx context.Context, studentID int, amount float64, comment string) error {
	key := entityKey("student", studentID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	dto, err := r.client.Students.CreatePayment(ctx, v1.PaymentForm{
		Student:  studentID,
		Schedule: shiftID,
		Amount:   amount,
		Comment:  comment,
	})
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "record_payment", dto, func(v *View) error {
		row := v.Student(studentID)
		if row == nil {
			return ErrNotFound
		}
		row.TotalPaid = ParseAmount(dto.TotalPaid)
		return nil
	})
}

// RecordPayout saves a salary payout and freezes the employee's salary
// cell at the paid amount until the payout is deleted.
func (r *Reconciler) RecordPayout(ctx context.Context, employeeID int, amount float64) error {
	key := entityKey("employee", employeeID)
	seq, shiftID, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	r.mu.Lock()
	row := r.view.Employee(employeeID)
	if row == nil {
		r.mu.Unlock()
		return ErrNotFound
	}
	rate := row.RatePerDay
	r.mu.Unlock()

	dto, err := r.client.Payroll.SaveSalary(ctx, v1.SalaryForm{
		Employee:     employeeID,
		Schedule:     shiftID,
		PaymentType:  "fixed",
		DailyRate:    rate,
		TotalPayment: amount,
		IsPaid:       true,
	})
	if err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "record_payout", dto, func(v *View) error {
		v.UpsertLedger(&LedgerEntry{
			ID:         dto.ID,
			Kind:       KindPayout,
			Amount:     ParseAmount(dto.TotalPayment),
			EmployeeID: dto.EmployeeID,
		})
		return nil
	})
}

// DeletePayout removes a payout record and reverses the freeze, restoring
// the live-derived salary.
func (r *Reconciler) DeletePayout(ctx context.Context, id int) error {
	key := entityKey("payout", id)
	seq, _, err := r.begin(key)
	if err != nil {
		return err
	}
	defer r.end(key)

	if err := r.client.Payroll.DeleteSalary(ctx, id); err != nil {
		return err
	}

	return r.commit(ctx, key, seq, "delete_payout", id, func(v *View) error {
		v.RemoveLedger(id)
		return nil
	})
}

// FilterStudents and SortStudents are local view operations: no round
// trip, but numbering and the summary still re-derive over what remains.
func (r *Reconciler) FilterStudents(name, attendanceType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		return ErrNotHydrated
	}
	r.view.FilterStudents(name, attendanceType)
	return nil
}

func (r *Reconciler) SortStudents(column string, direction int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		return ErrNotHydrated
	}
	r.view.SortStudents(column, direction)
	return nil
}

// begin reserves an entity for one in-flight mutation and hands out its
// sequence number.
func (r *Reconciler) begin(key string) (uint64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.view == nil {
		return 0, 0, ErrNotHydrated
	}
	if r.inflight[key] {
		return 0, 0, ErrBusy
	}
	r.inflight[key] = true
	r.seq[key]++
	return r.seq[key], r.view.ShiftID, nil
}

func (r *Reconciler) end(key string) {
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
}

// commit applies a confirmed patch. The summary recomputes strictly after
// the row mutation, and a response superseded by a newer mutation for the
// same entity is dropped.
func (r *Reconciler) commit(ctx context.Context, key string, seq uint64, kind string, payload any, apply func(*View) error) error {
	r.mu.Lock()
	if r.seq[key] != seq {
		r.mu.Unlock()
		return ErrStale
	}
	if err := apply(r.view); err != nil {
		r.mu.Unlock()
		return err
	}
	r.view.Recompute()
	shiftID := r.view.ShiftID
	r.mu.Unlock()

	// Journaling is best-effort; the confirmed state is already applied.
	if err := r.journal.Record(ctx, shiftID, key, kind, payload); err != nil {
		log.Printf("journal %s %s: %v", kind, key, err)
	}
	return nil
}

func entityKey(kind string, id int) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

func statusFromFlags(present, excused bool) AttendanceStatus {
	switch {
	case present:
		return Present
	case excused:
		return Excused
	default:
		return Absent
	}
}

func statusFromString(s string) AttendanceStatus {
	switch AttendanceStatus(s) {
	case Present, Excused, Absent:
		return AttendanceStatus(s)
	default:
		return Absent
	}
}

func employeeRowFromDTO(dto *common.EmployeeDTO, dates []string) *EmployeeRow {
	att := make(map[string]AttendanceStatus, len(dates))
	for _, date := range dates {
		att[date] = Absent
	}
	for key, status := range dto.Attendance {
		att[dateFromCellKey(key)] = statusFromString(status)
	}
	return &EmployeeRow{
		ID:         dto.ID,
		FullName:   dto.FullName,
		Position:   dto.Position,
		RatePerDay: dto.RatePerDay,
		Attendance: att,
	}
}

func studentRowFromDTO(dto *common.StudentDTO, dates []string) *StudentRow {
	att := make(map[string]AttendanceStatus, len(dates))
	for _, date := range dates {
		att[date] = Absent
	}
	for key, status := range dto.Attendance {
		att[dateFromCellKey(key)] = statusFromString(status)
	}
	row := &StudentRow{
		ID:             dto.ID,
		FullName:       dto.FullName,
		AttendanceType: dto.AttendanceType,
		DefaultPrice:   ParseAmount(dto.DefaultPrice),
		Attendance:     att,
		TotalPaid:      ParseAmount(dto.TotalPaid),
	}
	if dto.IndividualPrice != "" {
		row.IndividualPrice = utils.Ptr(ParseAmount(dto.IndividualPrice))
	}
	return row
}

// dateFromCellKey accepts both plain dates and the "<id>_<date>" keys the
// CRM templates use for attendance cells.
func dateFromCellKey(key string) string {
	if i := strings.LastIndex(key, "_"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func buildView(dto *common.ShiftDTO) *View {
	dates := utils.ShiftDates(utils.MustParseDate(dto.StartDate), utils.MustParseDate(dto.EndDate))

	view := &View{
		ShiftID: dto.ID,
		Name:    dto.Name,
		Dates:   dates,
	}

	for i := range dto.Employees {
		view.Employees = append(view.Employees, employeeRowFromDTO(&dto.Employees[i], dates))
	}
	for i := range dto.Students {
		view.Students = append(view.Students, studentRowFromDTO(&dto.Students[i], dates))
	}
	for _, e := range dto.Expenses {
		view.Ledger = append(view.Ledger, &LedgerEntry{
			ID:       e.ID,
			Kind:     KindExpense,
			Category: e.CategoryDisplay,
			Comment:  e.Comment,
			Amount:   ParseAmount(e.Amount),
		})
	}
	for _, s := range dto.Salaries {
		view.Ledger = append(view.Ledger, &LedgerEntry{
			ID:         s.ID,
			Kind:       KindPayout,
			Amount:     ParseAmount(s.TotalPayment),
			EmployeeID: s.EmployeeID,
		})
		if row := view.Employee(s.EmployeeID); row != nil && s.IsPaid {
			row.PayoutID = s.ID
			row.PaidAmount = ParseAmount(s.TotalPayment)
		}
	}

	view.AvailableEmployees = utils.Map(dto.AvailableEmployees, func(o common.OptionDTO) Person {
		return Person{ID: o.ID, Display: o.Display}
	})
	view.AvailableStudents = utils.Map(dto.AvailableStudents, func(o common.OptionDTO) Person {
		return Person{ID: o.ID, Display: o.Display}
	})

	return view
}
