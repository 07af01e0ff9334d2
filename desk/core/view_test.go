package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testView() *View {
	v := &View{
		ShiftID: 7,
		Name:    "June",
		Dates:   []string{"2026-06-01", "2026-06-02", "2026-06-03"},
		Employees: []*EmployeeRow{
			{ID: 1, FullName: "Anna Petrova", Position: "counselor", RatePerDay: 1000, Attendance: map[string]AttendanceStatus{}},
			{ID: 2, FullName: "Boris Ivanov", Position: "cook", RatePerDay: 800, Attendance: map[string]AttendanceStatus{}},
		},
		Students: []*StudentRow{
			{ID: 10, FullName: "Vera", AttendanceType: "full", DefaultPrice: 500, Attendance: map[string]AttendanceStatus{}},
			{ID: 11, FullName: "Gleb", AttendanceType: "half", DefaultPrice: 300, Attendance: map[string]AttendanceStatus{}},
			{ID: 12, FullName: "Dasha", AttendanceType: "full", DefaultPrice: 500, Attendance: map[string]AttendanceStatus{}},
		},
		AvailableEmployees: []Person{{ID: 3, Display: "Egor Sidorov (driver)"}},
		AvailableStudents:  []Person{{ID: 13, Display: "Zhenya"}},
	}
	v.Recompute()
	return v
}

func TestRecomputeNumbering(t *testing.T) {
	v := testView()

	assert.Equal(t, 1, v.Employees[0].No)
	assert.Equal(t, 2, v.Employees[1].No)
	assert.Equal(t, []int{1, 2, 3}, []int{v.Students[0].No, v.Students[1].No, v.Students[2].No})

	// Hiding a middle row keeps the remaining numbering contiguous.
	v.Students[1].Hidden = true
	v.Recompute()
	assert.Equal(t, 1, v.Students[0].No)
	assert.Equal(t, 0, v.Students[1].No)
	assert.Equal(t, 2, v.Students[2].No)
}

func TestAttachDetachEmployee(t *testing.T) {
	v := testView()

	v.AttachEmployee(&EmployeeRow{ID: 3, FullName: "Egor Sidorov", Position: "driver", RatePerDay: 900, Attendance: map[string]AttendanceStatus{}})
	v.Recompute()
	assert.Len(t, v.Employees, 3)
	assert.Empty(t, v.AvailableEmployees, "attached person leaves the pool")
	assert.Equal(t, 3, v.Employees[2].No)

	assert.True(t, v.DetachEmployee(3))
	v.Recompute()
	assert.Len(t, v.Employees, 2)
	assert.Equal(t, []Person{{ID: 3, Display: "Egor Sidorov (driver)"}}, v.AvailableEmployees)

	assert.False(t, v.DetachEmployee(99))
}

func TestDetachReturnsToPoolSorted(t *testing.T) {
	v := testView()
	v.AvailableEmployees = []Person{{ID: 5, Display: "Zina Orlova (nurse)"}}

	assert.True(t, v.DetachEmployee(2))
	assert.Equal(t, []Person{
		{ID: 2, Display: "Boris Ivanov (cook)"},
		{ID: 5, Display: "Zina Orlova (nurse)"},
	}, v.AvailableEmployees)

	// Detaching twice does not duplicate the pool entry.
	v.AvailableEmployees = returnToPool(v.AvailableEmployees, Person{ID: 2, Display: "Boris Ivanov (cook)"})
	assert.Len(t, v.AvailableEmployees, 2)
}

func TestUpsertLedger(t *testing.T) {
	v := testView()

	v.UpsertLedger(&LedgerEntry{ID: 100, Kind: KindExpense, Category: "Food", Amount: 200})
	v.Recompute()
	assert.Len(t, v.Ledger, 1)
	assert.Equal(t, 200.0, v.Summary.Expense)

	// Same id replaces in place, it does not append.
	v.UpsertLedger(&LedgerEntry{ID: 100, Kind: KindExpense, Category: "Food", Amount: 250})
	v.Recompute()
	assert.Len(t, v.Ledger, 1)
	assert.Equal(t, 250.0, v.Summary.Expense)
}

func TestPayoutFreezeAndUnfreeze(t *testing.T) {
	v := testView()
	row := v.Employee(1)
	row.Attendance["2026-06-01"] = Present
	row.Attendance["2026-06-02"] = Present
	row.Attendance["2026-06-03"] = Present
	assert.Equal(t, 3000.0, row.DisplayedSalary())

	v.UpsertLedger(&LedgerEntry{ID: 200, Kind: KindPayout, Amount: 3000, EmployeeID: 1})
	v.Recompute()
	assert.True(t, row.Paid())

	row.Attendance["2026-06-02"] = Absent
	assert.Equal(t, 3000.0, row.DisplayedSalary(), "frozen at payout amount")

	removed := v.RemoveLedger(200)
	v.Recompute()
	assert.NotNil(t, removed)
	assert.False(t, row.Paid())
	assert.Equal(t, 2000.0, row.DisplayedSalary(), "live derivation restored")
}

func TestRemoveLedgerMissing(t *testing.T) {
	v := testView()
	assert.Nil(t, v.RemoveLedger(999))
}

func TestFilterStudents(t *testing.T) {
	v := testView()
	v.Student(10).TotalPaid = 500
	v.Student(11).TotalPaid = 300
	v.Student(12).TotalPaid = 100
	v.Recompute()
	assert.Equal(t, 900.0, v.Summary.Income)

	v.FilterStudents("", "full")
	assert.False(t, v.Student(10).Hidden)
	assert.True(t, v.Student(11).Hidden)
	assert.False(t, v.Student(12).Hidden)
	assert.Equal(t, []int{1, 0, 2}, []int{v.Student(10).No, v.Student(11).No, v.Student(12).No})
	assert.Equal(t, 600.0, v.Summary.Income, "summary follows the visible rows")

	v.FilterStudents("da", "")
	assert.True(t, v.Student(10).Hidden)
	assert.False(t, v.Student(12).Hidden)
	assert.Equal(t, 1, v.Student(12).No)

	// Empty filter restores everything.
	v.FilterStudents("", "")
	assert.Equal(t, 900.0, v.Summary.Income)
}

func TestSortStudents(t *testing.T) {
	v := testView()
	v.Student(10).Attendance["2026-06-01"] = Present
	v.Student(10).Attendance["2026-06-02"] = Present
	v.Student(11).Attendance["2026-06-01"] = Present

	v.SortStudents("visits", -1)
	assert.Equal(t, []int{10, 11, 12}, []int{v.Students[0].ID, v.Students[1].ID, v.Students[2].ID})

	v.SortStudents("name", 1)
	assert.Equal(t, "Dasha", v.Students[0].FullName)
	assert.Equal(t, "Gleb", v.Students[1].FullName)
	assert.Equal(t, "Vera", v.Students[2].FullName)
	assert.Equal(t, []int{1, 2, 3}, []int{v.Students[0].No, v.Students[1].No, v.Students[2].No})
}

func TestCloneIsIndependent(t *testing.T) {
	v := testView()
	v.Employee(1).Attendance["2026-06-01"] = Present

	clone := v.Clone()
	clone.Employee(1).Attendance["2026-06-01"] = Absent
	clone.Students[0].TotalPaid = 999

	assert.Equal(t, Present, v.Employee(1).Attendance["2026-06-01"])
	assert.Equal(t, 0.0, v.Students[0].TotalPaid)
}
