package handler

import "github.com/gin-gonic/gin"

// Handlers groups every resource handler mounted under the API prefix.
type Handlers struct {
	Students  *StudentHandler
	Behaviors *BehaviorHandler
	Entries   *EntryHandler
	Classes   *ClassHandler
	Reports   *ReportHandler
	Metrics   *MetricsHandler
}

// Register mounts the API routes on api.
func (h Handlers) Register(api gin.IRouter) {
	students := api.Group("/students")
	students.GET("", h.Students.List)
	students.POST("", h.Students.Create)
	students.POST("/batch", h.Students.CreateBatch)
	students.POST("/import", h.Students.Import)
	students.GET("/import/template", h.Students.Template)
	students.GET("/:id", h.Students.Get)
	students.GET("/:id/dashboard", h.Students.Dashboard)
	students.DELETE("/:id", h.Students.Delete)

	behaviors := api.Group("/behaviors")
	behaviors.GET("", h.Behaviors.List)
	behaviors.POST("", h.Behaviors.Create)
	behaviors.PUT("/:id", h.Behaviors.Update)
	behaviors.DELETE("/:id", h.Behaviors.Delete)

	entries := api.Group("/entries")
	entries.GET("", h.Entries.List)
	entries.POST("", h.Entries.Create)
	entries.GET("/today", h.Entries.Today)

	classes := api.Group("/classes")
	classes.GET("", h.Classes.List)
	classes.POST("", h.Classes.Create)
	classes.DELETE("/:id", h.Classes.Delete)

	reports := api.Group("/reports")
	reports.GET("/summary", h.Reports.Summary)
	reports.GET("/students", h.Reports.Students)
	reports.GET("/students/export", h.Reports.ExportStudents)
	reports.GET("/students/:id", h.Reports.Student)
	reports.GET("/students/:id/export", h.Reports.ExportStudent)

	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Snapshot)
	}
}
