package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dts-gxu/JobTracker/internal/export"
	"github.com/dts-gxu/JobTracker/internal/middleware"
	"github.com/dts-gxu/JobTracker/internal/store"
	"github.com/dts-gxu/JobTracker/internal/util"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves the spreadsheet download.
type ExportHandler struct {
	apps   *store.ApplicationStore
	logger *zap.Logger
}

func NewExportHandler(apps *store.ApplicationStore, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{apps: apps, logger: logger}
}

// Excel renders the signed-in user's applications as an XLSX download. An
// empty record set is a warning and a redirect, not a file.
func (h *ExportHandler) Excel(c *gin.Context) {
	user := middleware.CurrentUser(c)

	apps, err := h.apps.ListForUser(user.ID, "", "")
	if err != nil {
		h.logger.Error("export query failed", zap.Error(err), zap.Uint("user_id", user.ID))
		util.SetFlash(c, "error", "Export failed, please retry")
		c.Redirect(http.StatusFound, "/")
		return
	}
	if len(apps) == 0 {
		util.SetFlash(c, "warning", "No applications to export")
		c.Redirect(http.StatusFound, "/")
		return
	}

	stats, err := h.apps.Stats(user.ID)
	if err != nil {
		h.logger.Error("export stats failed", zap.Error(err), zap.Uint("user_id", user.ID))
		util.SetFlash(c, "error", "Export failed, please retry")
		c.Redirect(http.StatusFound, "/")
		return
	}

	buf, err := export.Workbook(apps, stats)
	if err != nil {
		h.logger.Error("workbook build failed", zap.Error(err), zap.Uint("user_id", user.ID))
		util.SetFlash(c, "error", "Export failed, please retry")
		c.Redirect(http.StatusFound, "/")
		return
	}

	filename := export.Filename(user.Username, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
