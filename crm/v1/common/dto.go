package common

// OptionDTO is a selector entry for the available-to-add pools.
type OptionDTO struct {
	ID      int    `json:"id"`
	Display string `json:"display"`
}

// EmployeeDTO mirrors the employee payload of the schedule endpoints.
// Attendance is keyed "<employeeID>_<date>" the way the CRM templates key
// their cells.
type EmployeeDTO struct {
	ID              int               `json:"id"`
	FullName        string            `json:"full_name"`
	Position        string            `json:"position"`
	RatePerDay      float64           `json:"rate_per_day"`
	Attendance      map[string]string `json:"attendance"`
	TotalAttendance int               `json:"total_attendance"`
}

type StudentDTO struct {
	ID              int               `json:"id"`
	FullName        string            `json:"full_name"`
	AttendanceType  string            `json:"attendance_type"`
	DefaultPrice    string            `json:"default_price"`
	IndividualPrice string            `json:"individual_price,omitempty"`
	Attendance      map[string]string `json:"attendance"`
	TotalAttendance int               `json:"total_attendance"`
	TotalPaid       string            `json:"total_paid"`
}

// ToggleResult is the attendance toggle response. The server cycles the
// status; present/excused describe the resulting state.
type ToggleResult struct {
	Status          string `json:"status"`
	Message         string `json:"message,omitempty"`
	Present         bool   `json:"present"`
	Excused         bool   `json:"excused"`
	TotalAttendance int    `json:"total_attendance"`
	EmployeeID      int    `json:"employee_id,omitempty"`
	StudentID       int    `json:"student_id,omitempty"`
	Date            string `json:"date"`
}

// Money fields arrive as locale-formatted decimal strings; the desk
// normalizes them with one parsing routine.
type ExpenseDTO struct {
	ID              int    `json:"id"`
	Category        string `json:"category"`
	CategoryDisplay string `json:"category_display"`
	Comment         string `json:"comment"`
	Amount          string `json:"amount"`
}

type SalaryDTO struct {
	ID           int    `json:"id"`
	EmployeeID   int    `json:"employee"`
	PaymentType  string `json:"payment_type"`
	DaysWorked   int    `json:"days_worked"`
	DailyRate    string `json:"daily_rate"`
	PercentRate  string `json:"percent_rate"`
	TotalPayment string `json:"total_payment"`
	IsPaid       bool   `json:"is_paid"`
}

type PaymentDTO struct {
	ID        int    `json:"id"`
	StudentID int    `json:"student"`
	Amount    string `json:"amount"`
	TotalPaid string `json:"total_paid"`
}

// ShiftDTO is the hydration payload for one schedule detail view.
type ShiftDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`

	Employees []EmployeeDTO `json:"employees"`
	Students  []StudentDTO  `json:"students"`
	Expenses  []ExpenseDTO  `json:"expenses"`
	Salaries  []SalaryDTO   `json:"salaries"`

	AvailableEmployees []OptionDTO `json:"available_employees"`
	AvailableStudents  []OptionDTO `json:"available_students"`
}
