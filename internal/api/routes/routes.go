package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/lumaensino/notify/internal/api/handlers"
	"github.com/lumaensino/notify/internal/config"
	"github.com/lumaensino/notify/internal/database"
	"github.com/lumaensino/notify/internal/dispatch"
	"github.com/lumaensino/notify/internal/services"
)

// Register wires up API routes and applies automatic migrations. Store handles
// are constructed here once and passed by reference into every handler.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config, q dispatch.Enqueuer) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	router.GET("/api/v1/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	templateService := services.NewTemplateService(db)
	auditService := services.NewAuditService(db, cfg.Actor)
	dispatchService := dispatch.NewService(templateService, auditService, q)

	templateHandler := handlers.NewTemplateHandler(templateService)
	logHandler := handlers.NewLogHandler(auditService, cfg.LogRetention())
	dispatchHandler := handlers.NewDispatchHandler(dispatchService)

	api := router.Group("/api/v1")
	{
		api.POST("/notifications", templateHandler.Create)
		api.GET("/notifications", templateHandler.List)
		api.GET("/notifications/:id", templateHandler.Get)
		api.PUT("/notifications/:id", templateHandler.Update)
		api.DELETE("/notifications/:id", templateHandler.Delete)

		api.POST("/notifications/:id/dispatch", dispatchHandler.Dispatch)
		api.POST("/dispatch", dispatchHandler.DispatchMissingID)

		api.GET("/logs", logHandler.List)
	}

	return nil
}
