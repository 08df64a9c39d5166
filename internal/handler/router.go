package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alifhakimiazwan/RateMyCitra/internal/middleware"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
)

// Routes groups the handlers mounted by RegisterRoutes.
type Routes struct {
	Citra   *CitraHandler
	Rating  *RatingHandler
	Report  *ReportHandler
	Metrics *MetricsHandler
	Auth    middleware.TokenValidator
}

// RegisterRoutes mounts the public API under prefix and the probes at the root.
func RegisterRoutes(r *gin.Engine, prefix string, routes Routes) {
	r.GET("/health", routes.Metrics.Health)
	r.GET("/ready", routes.Metrics.Ready)
	r.GET("/metrics", routes.Metrics.Prometheus)
	r.GET("/metrics/summary", routes.Metrics.Summary)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	authenticated := middleware.JWT(routes.Auth)

	citra := api.Group("/citra")
	citra.GET("", routes.Citra.List)
	citra.GET("/get", routes.Citra.ListPerSubject)
	citra.GET("/export", routes.Citra.Export)
	citra.POST("/add", authenticated, middleware.RequireRoles(models.RoleAdmin), routes.Citra.Add)
	citra.GET("/:id", routes.Citra.Get)
	citra.GET("/:id/reviews", middleware.OptionalJWT(routes.Auth), routes.Citra.Reviews)

	api.GET("/search", routes.Citra.Search)
	api.POST("/rating/add", authenticated, routes.Rating.Submit)
	api.POST("/report", authenticated, routes.Report.Submit)
	api.POST("/content/check", routes.Rating.CheckContent)
}
