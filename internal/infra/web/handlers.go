package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"visa_slot_watcher/internal/app"
	"visa_slot_watcher/internal/domain/watchrequest"
	idb "visa_slot_watcher/internal/infra/database"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const duplicateMessage = "Error: An account with this Unique ID already exists."

type handlers struct {
	requests *app.RequestService
	logger   *logrus.Entry
}

type pageData struct {
	Title    string
	Notice   string
	Level    string
	Requests []*watchrequest.WatchRequest
	Form     app.AddRequestInput
	Months   []app.MonthChoice
	Errors   map[string]string
}

func (h *handlers) dashboard(c *gin.Context) {
	reqs, err := h.requests.ListRequests(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.HTML(http.StatusInternalServerError, "dashboard", pageData{
			Title: "Dashboard", Notice: "Could not load accounts.", Level: "danger",
		})
		return
	}
	c.HTML(http.StatusOK, "dashboard", pageData{
		Title:    "Dashboard",
		Notice:   c.Query("notice"),
		Level:    c.DefaultQuery("level", "info"),
		Requests: reqs,
	})
}

func (h *handlers) addForm(c *gin.Context) {
	c.HTML(http.StatusOK, "add", pageData{Title: "Add account", Months: h.requests.MonthChoices()})
}

func (h *handlers) addSubmit(c *gin.Context) {
	var in app.AddRequestInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderAddErrors(c, in, h.bindErrors(in, err))
		return
	}

	created, err := h.requests.AddRequest(c.Request.Context(), in)
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			h.renderAddErrors(c, in, verr.Fields)
		case err == app.ErrRequestAlreadyExists:
			h.renderAddErrors(c, in, map[string]string{"UniqueID": duplicateMessage})
		default:
			_ = c.Error(err)
			in.Password = ""
			c.HTML(http.StatusInternalServerError, "add", pageData{
				Title: "Add account", Form: in, Months: h.requests.MonthChoices(),
				Notice: fmt.Sprintf("An unexpected database error occurred: %v", err), Level: "danger",
			})
		}
		return
	}

	h.logger.WithField("unique_id", created.UniqueID).Info("Watch request added")
	redirectWithNotice(c, fmt.Sprintf("Account %s added successfully!", created.UniqueID), "success")
}

func (h *handlers) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		redirectWithNotice(c, "Account not found.", "danger")
		return
	}
	deleted, err := h.requests.DeleteRequest(c.Request.Context(), id)
	if err != nil {
		if err == idb.ErrWatchRequestNotFound {
			redirectWithNotice(c, "Account not found.", "danger")
			return
		}
		_ = c.Error(err)
		redirectWithNotice(c, "Could not delete account.", "danger")
		return
	}
	h.logger.WithField("unique_id", deleted.UniqueID).Info("Watch request deleted")
	redirectWithNotice(c, fmt.Sprintf("Account %s deleted.", deleted.UniqueID), "warning")
}

func (h *handlers) toDashboard(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *handlers) apiList(c *gin.Context) {
	reqs, err := h.requests.ListRequests(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, reqs)
}

func (h *handlers) apiCreate(c *gin.Context) {
	var in app.AddRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "fields": h.bindErrors(in, err)})
		return
	}
	created, err := h.requests.AddRequest(c.Request.Context(), in)
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "fields": verr.Fields})
		case err == app.ErrRequestAlreadyExists:
			c.JSON(http.StatusConflict, gin.H{"error": duplicateMessage})
		default:
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) apiDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be numeric"})
		return
	}
	if _, err := h.requests.DeleteRequest(c.Request.Context(), id); err != nil {
		if err == idb.ErrWatchRequestNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found."})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// bindErrors turns a gin binding error into per-field messages.
func (h *handlers) bindErrors(in app.AddRequestInput, err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		var verr *app.ValidationError
		if errors.As(h.requests.Validate(in), &verr) {
			return verr.Fields
		}
	}
	return map[string]string{"form": err.Error()}
}

func (h *handlers) renderAddErrors(c *gin.Context, in app.AddRequestInput, fields map[string]string) {
	in.Password = ""
	c.HTML(http.StatusBadRequest, "add", pageData{
		Title:  "Add account",
		Form:   in,
		Months: h.requests.MonthChoices(),
		Errors: fields,
	})
}

func redirectWithNotice(c *gin.Context, notice, level string) {
	q := url.Values{"notice": {notice}, "level": {level}}
	c.Redirect(http.StatusSeeOther, "/dashboard?"+q.Encode())
}
