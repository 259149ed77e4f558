package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dts-gxu/JobTracker/internal/middleware"
	"github.com/dts-gxu/JobTracker/internal/models"
	"github.com/dts-gxu/JobTracker/internal/store"
	"github.com/dts-gxu/JobTracker/internal/util"
)

// ApplicationHandler serves the listing and the add/edit/delete flows.
type ApplicationHandler struct {
	apps   *store.ApplicationStore
	logger *zap.Logger
}

func NewApplicationHandler(apps *store.ApplicationStore, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, logger: logger}
}

// Index lists the signed-in user's applications with optional status and
// search filters, plus the stats panel.
func (h *ApplicationHandler) Index(c *gin.Context) {
	user := middleware.CurrentUser(c)
	statusFilter := c.Query("status")
	searchQuery := c.Query("search")

	data := gin.H{
		"StatusOptions": models.StatusOptions(),
		"CurrentStatus": statusFilter,
		"SearchQuery":   searchQuery,
	}

	apps, err := h.apps.ListForUser(user.ID, statusFilter, searchQuery)
	if err != nil {
		h.logger.Error("list applications failed", zap.Error(err), zap.Uint("user_id", user.ID))
		data["Applications"] = []models.Application{}
		data["Stats"] = &store.Stats{ByStatus: map[models.Status]int{}}
		render(c, http.StatusOK, "index.html", flashNow(data, "error", "Failed to load data, please retry"))
		return
	}

	stats, err := h.apps.Stats(user.ID)
	if err != nil {
		h.logger.Error("compute stats failed", zap.Error(err), zap.Uint("user_id", user.ID))
		stats = &store.Stats{ByStatus: map[models.Status]int{}}
	}

	data["Applications"] = apps
	data["Stats"] = stats
	render(c, http.StatusOK, "index.html", data)
}

func (h *ApplicationHandler) ShowAdd(c *gin.Context) {
	render(c, http.StatusOK, "add.html", gin.H{
		"Today":         time.Now().Format(models.DateLayout),
		"StatusOptions": models.StatusOptions(),
		"Form":          formValues{"Status": string(models.DefaultStatus)},
	})
}

func (h *ApplicationHandler) Add(c *gin.Context) {
	user := middleware.CurrentUser(c)
	in := store.ApplicationInput{
		CompanyName:  strings.TrimSpace(c.PostForm("company_name")),
		PositionName: strings.TrimSpace(c.PostForm("position_name")),
		ApplyDate:    strings.TrimSpace(c.PostForm("apply_date")),
		Status:       c.PostForm("status"),
		Notes:        strings.TrimSpace(c.PostForm("notes")),
	}

	_, err := h.apps.Create(user.ID, in)
	if err != nil {
		var verr *store.ValidationError
		msg := "Failed to add, please try again"
		if errors.As(err, &verr) {
			msg = verr.Message
		} else {
			h.logger.Error("create application failed", zap.Error(err), zap.Uint("user_id", user.ID))
		}
		render(c, http.StatusOK, "add.html", flashNow(gin.H{
			"Today":         time.Now().Format(models.DateLayout),
			"StatusOptions": models.StatusOptions(),
			"Form": formValues{
				"CompanyName":  in.CompanyName,
				"PositionName": in.PositionName,
				"ApplyDate":    in.ApplyDate,
				"Status":       in.Status,
				"Notes":        in.Notes,
			},
		}, "error", msg))
		return
	}

	util.SetFlash(c, "success", "Application added")
	c.Redirect(http.StatusFound, "/")
}

func (h *ApplicationHandler) ShowEdit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	app, err := h.apps.Get(user.ID, recordID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		h.logger.Error("load application failed", zap.Error(err))
		notFound(c)
		return
	}
	h.renderEdit(c, app.ID, applicationForm(app), nil)
}

func (h *ApplicationHandler) Edit(c *gin.Context) {
	user := middleware.CurrentUser(c)
	id := recordID(c)

	if _, err := h.apps.Get(user.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		h.logger.Error("load application failed", zap.Error(err))
		notFound(c)
		return
	}

	in := store.ApplicationInput{
		CompanyName:   strings.TrimSpace(c.PostForm("company_name")),
		PositionName:  strings.TrimSpace(c.PostForm("position_name")),
		ApplyDate:     strings.TrimSpace(c.PostForm("apply_date")),
		Status:        c.PostForm("status"),
		Notes:         strings.TrimSpace(c.PostForm("notes")),
		WorkLocation:  strings.TrimSpace(c.PostForm("work_location")),
		ApplyChannel:  c.PostForm("apply_channel"),
		Referrer:      strings.TrimSpace(c.PostForm("referrer")),
		InterviewTime: strings.TrimSpace(c.PostForm("interview_time")),
	}
	in.SalaryMin = formInt(c, "salary_min")
	in.SalaryMax = formInt(c, "salary_max")

	if _, err := h.apps.Update(user.ID, id, in); err != nil {
		var verr *store.ValidationError
		msg := "Update failed, please try again"
		switch {
		case errors.As(err, &verr):
			msg = verr.Message
		case errors.Is(err, store.ErrNotFound):
			notFound(c)
			return
		default:
			h.logger.Error("update application failed", zap.Error(err), zap.Uint("id", id))
		}
		// keep what the user typed, not what the store last saved
		echo := formValues{
			"CompanyName":   in.CompanyName,
			"PositionName":  in.PositionName,
			"ApplyDate":     in.ApplyDate,
			"Status":        in.Status,
			"SalaryMin":     strings.TrimSpace(c.PostForm("salary_min")),
			"SalaryMax":     strings.TrimSpace(c.PostForm("salary_max")),
			"WorkLocation":  in.WorkLocation,
			"ApplyChannel":  in.ApplyChannel,
			"Referrer":      in.Referrer,
			"InterviewTime": in.InterviewTime,
			"Notes":         in.Notes,
		}
		h.renderEdit(c, id, echo, &util.Flash{Category: "error", Message: msg})
		return
	}

	util.SetFlash(c, "success", "Application updated")
	c.Redirect(http.StatusFound, "/")
}

// Delete removes an owned record. A GET must carry confirm=1; the POST form
// is its own confirmation.
func (h *ApplicationHandler) Delete(c *gin.Context) {
	if c.Request.Method == http.MethodGet && c.Query("confirm") == "" {
		util.SetFlash(c, "error", "Invalid delete request")
		c.Redirect(http.StatusFound, "/")
		return
	}

	user := middleware.CurrentUser(c)
	app, err := h.apps.Delete(user.ID, recordID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			notFound(c)
			return
		}
		h.logger.Error("delete application failed", zap.Error(err), zap.Uint("user_id", user.ID))
		util.SetFlash(c, "error", "Delete failed, please try again")
		c.Redirect(http.StatusFound, "/")
		return
	}

	util.SetFlash(c, "success",
		fmt.Sprintf("Application deleted (%s - %s)", app.CompanyName, app.PositionName))
	c.Redirect(http.StatusFound, "/")
}

// APIStats responds with {"total": n, "by_status": {label: n, ...}}.
func (h *ApplicationHandler) APIStats(c *gin.Context) {
	user := middleware.CurrentUser(c)
	stats, err := h.apps.Stats(user.ID)
	if err != nil {
		h.logger.Error("compute stats failed", zap.Error(err), zap.Uint("user_id", user.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}

	byStatus := make(map[string]int, len(stats.ByStatus))
	for st, n := range stats.ByStatus {
		byStatus[string(st)] = n
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     stats.Total,
		"by_status": byStatus,
	})
}

func (h *ApplicationHandler) renderEdit(c *gin.Context, id uint, form formValues, flash *util.Flash) {
	data := gin.H{
		"ID":             id,
		"Form":           form,
		"StatusOptions":  models.StatusOptions(),
		"ChannelOptions": models.ChannelOptions(),
	}
	if flash != nil {
		data["Flash"] = flash
	}
	render(c, http.StatusOK, "edit.html", data)
}

// applicationForm flattens a stored record into form field values.
func applicationForm(app *models.Application) formValues {
	return formValues{
		"CompanyName":   app.CompanyName,
		"PositionName":  app.PositionName,
		"ApplyDate":     app.ApplyDate.Format(models.DateLayout),
		"Status":        string(app.Status),
		"SalaryMin":     app.SalaryMinDisplay(),
		"SalaryMax":     app.SalaryMaxDisplay(),
		"WorkLocation":  app.WorkLocation,
		"ApplyChannel":  string(app.ApplyChannel),
		"Referrer":      app.Referrer,
		"InterviewTime": app.InterviewInputValue(),
		"Notes":         app.Notes,
	}
}

func formInt(c *gin.Context, field string) *int {
	v := strings.TrimSpace(c.PostForm(field))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}
