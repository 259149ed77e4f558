package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dts-gxu/JobTracker/internal/config"
	"github.com/dts-gxu/JobTracker/internal/handler"
	"github.com/dts-gxu/JobTracker/internal/middleware"
	"github.com/dts-gxu/JobTracker/internal/store"
)

// SetupRouter wires templates, middleware and all routes. Stores and
// handlers are constructed once here and hold their dependencies for the
// process lifetime.
func SetupRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger), middleware.Recovery(logger))

	r.Static("/static", cfg.Server.StaticDir)
	r.LoadHTMLGlob(cfg.Server.TemplateGlob)

	users := store.NewUserStore(db, cfg.Security.BcryptCost)
	apps := store.NewApplicationStore(db)

	auth := handler.NewAuthHandler(users, cfg.Session, logger)
	r.GET("/register", auth.ShowRegister)
	r.POST("/register", auth.Register)
	r.GET("/login", auth.ShowLogin)
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)

	appHandler := handler.NewApplicationHandler(apps, logger)
	exportHandler := handler.NewExportHandler(apps, logger)

	protected := r.Group("", middleware.RequireAuth(cfg.Session.Secret, users))
	protected.GET("/", appHandler.Index)
	protected.GET("/add", appHandler.ShowAdd)
	protected.POST("/add", appHandler.Add)
	protected.GET("/edit/:id", appHandler.ShowEdit)
	protected.POST("/edit/:id", appHandler.Edit)
	protected.GET("/delete/:id", appHandler.Delete)
	protected.POST("/delete/:id", appHandler.Delete)
	protected.GET("/export/excel", exportHandler.Excel)
	protected.GET("/profile", handler.Profile)
	protected.GET("/api/stats", appHandler.APIStats)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "404.html", gin.H{})
	})

	return r
}
