package shift

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	v1 "jget.app/jget/crm/v1"
	crm "jget.app/jget/crm/v1/common"
	"jget.app/jget/desk/core"
	"jget.app/jget/desk/model"
	web "jget.app/jget/web/common"
)

// JournalReader lists confirmed mutations for one shift. The mirror store
// implements it.
type JournalReader interface {
	Journal(ctx context.Context, shiftID int, limit int) ([]model.JournalEntry, error)
}

type Endpoint struct {
	desk    *core.Desk
	journal JournalReader
}

func Register(r *gin.RouterGroup, desk *core.Desk, journal JournalReader) {
	endpoint := &Endpoint{desk: desk, journal: journal}

	r.GET("/shifts/:id/view", endpoint.View)
	r.POST("/shifts/:id/refresh", endpoint.Refresh)
	r.POST("/shifts/:id/filter", endpoint.Filter)
	r.GET("/shifts/:id/export", endpoint.Export)
	r.GET("/shifts/:id/journal", endpoint.Journal)

	r.POST("/shifts/:id/attendance/toggle", endpoint.Toggle)

	r.POST("/shifts/:id/employees", endpoint.AddEmployee)
	r.DELETE("/shifts/:id/employees/:employeeID", endpoint.RemoveEmployee)
	r.POST("/shifts/:id/students", endpoint.AddStudent)
	r.DELETE("/shifts/:id/students/:studentID", endpoint.RemoveStudent)
	r.GET("/shifts/:id/students/:studentID/quick-edit", endpoint.QuickEditFragment)
	r.GET("/shifts/:id/students/:studentID/payment-form", endpoint.PaymentFormFragment)

	r.POST("/shifts/:id/expenses", endpoint.SaveExpense)
	r.DELETE("/shifts/:id/expenses/:expenseID", endpoint.DeleteExpense)
	r.POST("/shifts/:id/payments", endpoint.CreatePayment)
	r.POST("/shifts/:id/salaries", endpoint.RecordPayout)
	r.DELETE("/shifts/:id/salaries/:salaryID", endpoint.DeletePayout)
}

// shift resolves the reconciler for the :id path param.
func (ep *Endpoint) shift(c *gin.Context) (*core.Reconciler, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid shift id"))
		return nil, false
	}

	rec, err := ep.desk.Shift(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return rec, true
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid "+name))
		return 0, false
	}
	return id, true
}

// respondView serves the freshly recomputed view after a confirmed
// mutation and persists it to the mirror.
func (ep *Endpoint) respondView(c *gin.Context, rec *core.Reconciler) {
	ep.desk.Persist(c.Request.Context(), rec)

	view, err := rec.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(view))
}

// respondError maps reconciliation failures onto the API's status
// taxonomy: validation 422, concurrency and business rejections 409,
// upstream transport failures 502. Nothing here is fatal to the process.
func respondError(c *gin.Context, err error) {
	var ve *crm.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, web.NewValidationResponse("validation failed", ve.Fields))
	case errors.Is(err, core.ErrBusy), errors.Is(err, core.ErrStale):
		c.JSON(http.StatusConflict, web.NewErrorResponse(err.Error()))
	case errors.Is(err, v1.ErrRejected):
		c.JSON(http.StatusConflict, web.NewErrorResponse(err.Error()))
	case errors.Is(err, core.ErrNotFound):
		c.JSON(http.StatusNotFound, web.NewErrorResponse(err.Error()))
	case errors.Is(err, core.ErrNotHydrated):
		c.JSON(http.StatusServiceUnavailable, web.NewErrorResponse(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, web.NewErrorResponse("upstream timed out"))
	default:
		c.JSON(http.StatusBadGateway, web.NewErrorResponse(err.Error()))
	}
}
