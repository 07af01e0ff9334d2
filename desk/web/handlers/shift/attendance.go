package shift

import (
	"net/http"

	"github.com/gin-gonic/gin"

	web "jget.app/jget/web/common"
)

type ToggleDTO struct {
	Kind string       `json:"kind" binding:"required,oneof=employee student"`
	ID   int          `json:"id" binding:"required"`
	Date web.DateOnly `json:"date" binding:"required"`
}

// Toggle cycles one attendance cell. The response carries the whole
// re-derived view so counters, salaries and the summary stay in step.
func (ep *Endpoint) Toggle(c *gin.Context) {
	var dto ToggleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	var err error
	if dto.Kind == "employee" {
		err = rec.ToggleEmployeeAttendance(ctx, dto.ID, dto.Date.Key())
	} else {
		err = rec.ToggleStudentAttendance(ctx, dto.ID, dto.Date.Key())
	}
	if err != nil {
		respondError(c, err)
		return
	}

	ep.respondView(c, rec)
}
