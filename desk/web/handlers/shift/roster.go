package shift

import (
	"net/http"

	"github.com/gin-gonic/gin"

	web "jget.app/jget/web/common"
)

type AddEmployeeDTO struct {
	EmployeeID int `json:"employee_id" binding:"required"`
}

func (ep *Endpoint) AddEmployee(c *gin.Context) {
	var dto AddEmployeeDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.AddEmployee(c.Request.Context(), dto.EmployeeID); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

func (ep *Endpoint) RemoveEmployee(c *gin.Context) {
	employeeID, ok := pathID(c, "employeeID")
	if !ok {
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.RemoveEmployee(c.Request.Context(), employeeID); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

type AddStudentDTO struct {
	StudentID int `json:"student_id" binding:"required"`
}

func (ep *Endpoint) AddStudent(c *gin.Context) {
	var dto AddStudentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.AddStudent(c.Request.Context(), dto.StudentID); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

func (ep *Endpoint) RemoveStudent(c *gin.Context) {
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.RemoveStudent(c.Request.Context(), studentID); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}
