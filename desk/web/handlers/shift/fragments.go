package shift

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The CRM renders its own modal forms; the desk passes the fragments
// through verbatim so the UI can inject them without owning their markup.

func (ep *Endpoint) QuickEditFragment(c *gin.Context) {
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}

	html, err := ep.desk.Client().Students.QuickEditForm(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (ep *Endpoint) PaymentFormFragment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}

	html, err := ep.desk.Client().Students.PaymentFormHTML(c.Request.Context(), studentID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
