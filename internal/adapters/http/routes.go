package http

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the schedule and template API on api.
func RegisterRoutes(api *echo.Group, schedules *ScheduleHandler, templates *TemplateHandler) {
	sg := api.Group("/schedules")
	sg.GET("", schedules.ListSchedules)
	sg.POST("", schedules.CreateSchedule)
	sg.GET("/analytics", schedules.Analytics)
	sg.GET("/stats", schedules.Stats)
	sg.GET("/export", schedules.Export)
	sg.GET("/export/:format", schedules.Export)
	sg.POST("/import", schedules.Import)
	sg.POST("/import/ics", schedules.ImportICS)
	sg.DELETE("/bulk", schedules.DeleteSchedules)
	sg.DELETE("/all", schedules.DeleteAllSchedules)
	sg.GET("/:id", schedules.GetSchedule)
	sg.PUT("/:id", schedules.UpdateSchedule)
	sg.DELETE("/:id", schedules.DeleteSchedule)

	tg := api.Group("/templates")
	tg.GET("", templates.ListTemplates)
	tg.POST("", templates.CreateTemplate)
	tg.GET("/category/:category", templates.ListTemplatesByCategory)
	tg.POST("/from-schedule/:scheduleId", templates.FromSchedule)
	tg.GET("/:id", templates.GetTemplate)
	tg.PUT("/:id", templates.UpdateTemplate)
	tg.DELETE("/:id", templates.DeleteTemplate)
	tg.POST("/:id/duplicate", templates.DuplicateTemplate)
	tg.POST("/:id/use", templates.UseTemplate)
}
