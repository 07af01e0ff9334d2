package shift

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "jget.app/jget/crm/v1"
	web "jget.app/jget/web/common"
)

type ExpenseDTO struct {
	ID       int     `json:"id"`
	Category string  `json:"category" binding:"required"`
	Comment  string  `json:"comment"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

// SaveExpense creates a record when id is zero and edits it otherwise.
func (ep *Endpoint) SaveExpense(c *gin.Context) {
	var dto ExpenseDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	err := rec.SaveExpense(c.Request.Context(), v1.ExpenseForm{
		ID:       dto.ID,
		Category: dto.Category,
		Comment:  dto.Comment,
		Amount:   dto.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

func (ep *Endpoint) DeleteExpense(c *gin.Context) {
	expenseID, ok := pathID(c, "expenseID")
	if !ok {
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.DeleteExpense(c.Request.Context(), expenseID); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

type PaymentDTO struct {
	StudentID int     `json:"student_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Comment   string  `json:"comment"`
}

func (ep *Endpoint) CreatePayment(c *gin.Context) {
	var dto PaymentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.RecordPayment(c.Request.Context(), dto.StudentID, dto.Amount, dto.Comment); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

type PayoutDTO struct {
	EmployeeID int     `json:"employee_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// RecordPayout saves a salary payout, freezing the employee's displayed
// salary at the paid amount.
func (ep *Endpoint) RecordPayout(c *gin.Context) {
	var dto PayoutDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.RecordPayout(c.Request.Context(), dto.EmployeeID, dto.Amount); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}

func (ep *Endpoint) DeletePayout(c *gin.Context) {
	salaryID, ok := pathID(c, "salaryID")
	if !ok {
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.DeletePayout(c.Request.Context(), salaryID); err != nil {
		respondError(c, err)
		return
	}
	ep.respondView(c, rec)
}
