package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"jget.app/jget/crm/v1/common"
	desk "jget.app/jget/desk/core"
	"jget.app/jget/utils"
)

// mockcrm serves an in-memory shift behind the CRM's real endpoint shapes
// so the desk can be run and demoed without an upstream deployment.

type state struct {
	mu     sync.Mutex
	shift  common.ShiftDTO
	nextID int
}

func newState() *state {
	return &state{
		nextID: 1000,
		shift: common.ShiftDTO{
			ID:        1,
			Name:      "Summer shift",
			StartDate: "2026-06-01",
			EndDate:   "2026-06-14",
			Employees: []common.EmployeeDTO{
				{ID: 1, FullName: "Anna Petrova", Position: "counselor", RatePerDay: 1000, Attendance: map[string]string{}},
				{ID: 2, FullName: "Boris Ivanov", Position: "cook", RatePerDay: 800, Attendance: map[string]string{}},
			},
			Students: []common.StudentDTO{
				{ID: 10, FullName: "Vera Smirnova", AttendanceType: "full", DefaultPrice: money(15000), Attendance: map[string]string{}, TotalPaid: money(0)},
				{ID: 11, FullName: "Gleb Orlov", AttendanceType: "half", DefaultPrice: money(9000), Attendance: map[string]string{}, TotalPaid: money(0)},
			},
			AvailableEmployees: []common.OptionDTO{
				{ID: 3, Display: "Egor Sidorov (driver)"},
			},
			AvailableStudents: []common.OptionDTO{
				{ID: 12, Display: "Dasha Kuznetsova"},
			},
		},
	}
}

func money(v float64) string {
	return desk.FormatAmount(v)
}

func (s *state) id() int {
	s.nextID++
	return s.nextID
}

func main() {
	listen := flag.String("listen", "127.0.0.1:8000", "listen address")
	flag.Parse()

	st := newState()
	r := gin.Default()

	r.GET("/api/schedule/:id/", func(c *gin.Context) {
		st.mu.Lock()
		defer st.mu.Unlock()
		c.JSON(http.StatusOK, st.shift)
	})

	r.POST("/schedule/:id/toggle_attendance/", st.toggleAttendance)
	r.POST("/schedule/:id/", st.addPerson)
	r.POST("/schedule/:id/remove_employee/:eid/", st.removeEmployee)
	r.POST("/schedule/:id/remove_student/:sid/", st.removeStudent)

	r.POST("/payroll/expenses/create/", st.saveExpense(0))
	r.POST("/payroll/expenses/edit/:id/", st.editExpense)
	r.POST("/payroll/expenses/delete/:id/", st.deleteExpense)
	r.POST("/payroll/salaries/create/", st.saveSalary(0))
	r.POST("/payroll/salaries/edit/:id/", st.editSalary)
	r.POST("/payroll/salaries/delete/:id/", st.deleteSalary)

	r.POST("/students/payments/create/", st.createPayment)

	log.Printf("mock CRM listening on %s", *listen)
	r.Run(*listen)
}

func (s *state) toggleAttendance(c *gin.Context) {
	var body struct {
		EmployeeID int    `json:"employee_id"`
		StudentID  int    `json:"student_id"`
		Date       string `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var att map[string]string
	var key string
	switch {
	case body.EmployeeID != 0:
		for i := range s.shift.Employees {
			if s.shift.Employees[i].ID == body.EmployeeID {
				att = s.shift.Employees[i].Attendance
			}
		}
		key = fmt.Sprintf("%d_%s", body.EmployeeID, body.Date)
	case body.StudentID != 0:
		for i := range s.shift.Students {
			if s.shift.Students[i].ID == body.StudentID {
				att = s.shift.Students[i].Attendance
			}
		}
		key = fmt.Sprintf("%d_%s", body.StudentID, body.Date)
	}
	if att == nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "not on this shift"})
		return
	}

	// The server owns the cycle.
	current := desk.AttendanceStatus(att[key])
	if current == "" {
		current = desk.Absent
	}
	next := current.Next()
	att[key] = string(next)

	c.JSON(http.StatusOK, common.ToggleResult{
		Status:     "success",
		Present:    next == desk.Present,
		Excused:    next == desk.Excused,
		EmployeeID: body.EmployeeID,
		StudentID:  body.StudentID,
		Date:       body.Date,
	})
}

func (s *state) addPerson(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch c.PostForm("action") {
	case "add_employee":
		id, _ := strconv.Atoi(c.PostForm("employee"))
		opt := utils.Find(s.shift.AvailableEmployees, func(o common.OptionDTO) bool { return o.ID == id })
		if opt == nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "errors": gin.H{"employee": []string{"not available"}}})
			return
		}
		name, position := splitDisplay(opt.Display)
		emp := common.EmployeeDTO{ID: id, FullName: name, Position: position, RatePerDay: 900, Attendance: map[string]string{}}
		s.shift.Employees = append(s.shift.Employees, emp)
		s.shift.AvailableEmployees = utils.Filter(s.shift.AvailableEmployees, func(o common.OptionDTO) bool { return o.ID != id })
		c.JSON(http.StatusOK, gin.H{"success": true, "employee": emp})
	case "add_student":
		id, _ := strconv.Atoi(c.PostForm("student"))
		opt := utils.Find(s.shift.AvailableStudents, func(o common.OptionDTO) bool { return o.ID == id })
		if opt == nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "errors": gin.H{"student": []string{"not available"}}})
			return
		}
		stu := common.StudentDTO{ID: id, FullName: opt.Display, AttendanceType: "full", DefaultPrice: money(15000), Attendance: map[string]string{}, TotalPaid: money(0)}
		s.shift.Students = append(s.shift.Students, stu)
		s.shift.AvailableStudents = utils.Filter(s.shift.AvailableStudents, func(o common.OptionDTO) bool { return o.ID != id })
		c.JSON(http.StatusOK, gin.H{"success": true, "student": stu})
	default:
		c.JSON(http.StatusOK, gin.H{"success": false, "error": "unknown action"})
	}
}

func splitDisplay(display string) (name, position string) {
	name = display
	if i := strings.Index(display, " ("); i >= 0 {
		name = display[:i]
		position = strings.TrimSuffix(display[i+2:], ")")
	}
	return name, position
}

func (s *state) removeEmployee(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("eid"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.shift.Employees {
		if e.ID == id {
			s.shift.AvailableEmployees = append(s.shift.AvailableEmployees, common.OptionDTO{
				ID:      e.ID,
				Display: fmt.Sprintf("%s (%s)", e.FullName, e.Position),
			})
		}
	}
	s.shift.Employees = utils.Filter(s.shift.Employees, func(e common.EmployeeDTO) bool { return e.ID != id })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *state) removeStudent(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("sid"))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stu := range s.shift.Students {
		if stu.ID == id {
			s.shift.AvailableStudents = append(s.shift.AvailableStudents, common.OptionDTO{ID: stu.ID, Display: stu.FullName})
		}
	}
	s.shift.Students = utils.Filter(s.shift.Students, func(e common.StudentDTO) bool { return e.ID != id })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *state) saveExpense(id int) gin.HandlerFunc {
	return func(c *gin.Context) {
		amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
		if err != nil || amount <= 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "errors": gin.H{"amount": []string{"must be a positive number"}}})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		dto := common.ExpenseDTO{
			ID:              id,
			Category:        c.PostForm("category"),
			CategoryDisplay: c.PostForm("category"),
			Comment:         c.PostForm("comment"),
			Amount:          money(amount),
		}
		if dto.ID == 0 {
			dto.ID = s.id()
			s.shift.Expenses = append(s.shift.Expenses, dto)
		} else {
			for i := range s.shift.Expenses {
				if s.shift.Expenses[i].ID == dto.ID {
					s.shift.Expenses[i] = dto
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "expense": dto})
	}
}

func (s *state) editExpense(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	s.saveExpense(id)(c)
}

func (s *state) deleteExpense(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift.Expenses = utils.Filter(s.shift.Expenses, func(e common.ExpenseDTO) bool { return e.ID != id })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *state) saveSalary(id int) gin.HandlerFunc {
	return func(c *gin.Context) {
		employee, _ := strconv.Atoi(c.PostForm("employee"))
		total, err := strconv.ParseFloat(c.PostForm("total_payment"), 64)
		if err != nil || total <= 0 {
			c.JSON(http.StatusOK, gin.H{"success": false, "errors": gin.H{"total_payment": []string{"must be a positive number"}}})
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		dto := common.SalaryDTO{
			ID:           id,
			EmployeeID:   employee,
			PaymentType:  c.PostForm("payment_type"),
			DailyRate:    money(0),
			TotalPayment: money(total),
			IsPaid:       c.PostForm("is_paid") == "on",
		}
		if dto.ID == 0 {
			dto.ID = s.id()
			s.shift.Salaries = append(s.shift.Salaries, dto)
		} else {
			for i := range s.shift.Salaries {
				if s.shift.Salaries[i].ID == dto.ID {
					s.shift.Salaries[i] = dto
				}
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "salary": dto})
	}
}

func (s *state) editSalary(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))
	s.saveSalary(id)(c)
}

func (s *state) deleteSalary(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shift.Salaries = utils.Filter(s.shift.Salaries, func(e common.SalaryDTO) bool { return e.ID != id })
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *state) createPayment(c *gin.Context) {
	studentID, _ := strconv.Atoi(c.PostForm("student"))
	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "errors": gin.H{"amount": []string{"must be a positive number"}}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.shift.Students {
		if s.shift.Students[i].ID == studentID {
			total := desk.ParseAmount(s.shift.Students[i].TotalPaid) + amount
			s.shift.Students[i].TotalPaid = money(total)
			c.JSON(http.StatusOK, gin.H{"success": true, "payment": common.PaymentDTO{
				ID:        s.id(),
				StudentID: studentID,
				Amount:    money(amount),
				TotalPaid: money(total),
			}})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": false, "errors": gin.H{"student": []string{"not on this shift"}}})
}
