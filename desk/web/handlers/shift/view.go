package shift

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	web "jget.app/jget/web/common"
)

func (ep *Endpoint) View(c *gin.Context) {
	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	view, err := rec.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(view))
}

// Refresh re-hydrates the shift from the CRM, discarding the cached view.
func (ep *Endpoint) Refresh(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rec, err := ep.desk.Refresh(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := rec.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(view))
}

type FilterDTO struct {
	Name           string `json:"name"`
	AttendanceType string `json:"attendance_type"`
	SortColumn     string `json:"sort_column" binding:"omitempty,oneof=name visits"`
	SortDirection  int    `json:"sort_direction" binding:"omitempty,oneof=1 -1"`
}

// Filter hides student rows by name substring and attendance type, then
// optionally re-sorts. Both are local view operations.
func (ep *Endpoint) Filter(c *gin.Context) {
	var dto FilterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, web.NewErrorResponse(web.FormatBindingError(err)))
		return
	}

	rec, ok := ep.shift(c)
	if !ok {
		return
	}

	if err := rec.FilterStudents(dto.Name, dto.AttendanceType); err != nil {
		respondError(c, err)
		return
	}
	if dto.SortColumn != "" {
		direction := dto.SortDirection
		if direction == 0 {
			direction = 1
		}
		if err := rec.SortStudents(dto.SortColumn, direction); err != nil {
			respondError(c, err)
			return
		}
	}

	view, err := rec.Snapshot()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, web.NewSuccessResponse(view))
}

// Journal lists the newest confirmed mutations for audit.
func (ep *Endpoint) Journal(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, web.NewErrorResponse("Invalid limit"))
			return
		}
		limit = parsed
	}

	entries, err := ep.journal.Journal(c.Request.Context(), id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, web.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, web.NewSearchResponse(entries, int64(len(entries))))
}
