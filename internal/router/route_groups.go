package router

import (
	"brewery_backend/internal/handlers"
	"brewery_backend/internal/middleware"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

var (
	anyRole   = middleware.RoleAuthMiddleware(utils.RoleAdmin, utils.RoleStaff)
	adminOnly = middleware.RoleAuthMiddleware(utils.RoleAdmin)
)

// SetupPublicAuthRoutes registers login routes that run before a token exists.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
	group.GET("/oauth/login", authHandler.OAuthLogin)
	group.GET("/oauth/callback", authHandler.OAuthCallback)
}

// SetupAuthenticatedAuthRoutes registers session routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.Me)
}

// SetupEmployeeRoutes sets up the employee routes. Writes are admin only.
func SetupEmployeeRoutes(authenticatedGroup *gin.RouterGroup, employeeHandler *handlers.EmployeeHandler) {
	employeeWriteRoutes := authenticatedGroup.Group("/employees")
	employeeWriteRoutes.Use(adminOnly)
	{
		employeeWriteRoutes.POST("", employeeHandler.CreateEmployee)
		employeeWriteRoutes.PUT("/:id", employeeHandler.UpdateEmployee)
		employeeWriteRoutes.DELETE("/:id", employeeHandler.DeleteEmployee)
	}

	authenticatedGroup.GET("/employees", anyRole, employeeHandler.GetEmployees)
	authenticatedGroup.GET("/employees/:id", anyRole, employeeHandler.GetEmployeeByID)
}

// SetupScheduleRoutes sets up the week view and shift routes.
func SetupScheduleRoutes(authenticatedGroup *gin.RouterGroup, scheduleHandler *handlers.ScheduleHandler) {
	weekRoutes := authenticatedGroup.Group("/schedule")
	weekRoutes.Use(anyRole)
	{
		weekRoutes.GET("/week", scheduleHandler.GetWeek)
		weekRoutes.GET("/export", scheduleHandler.ExportWeek)
	}

	shiftRoutes := authenticatedGroup.Group("/schedules")
	shiftRoutes.Use(anyRole)
	{
		shiftRoutes.POST("", scheduleHandler.CreateShift)
		shiftRoutes.GET("", scheduleHandler.GetShifts)
		shiftRoutes.GET("/:id", scheduleHandler.GetShiftByID)
		shiftRoutes.PUT("/:id", scheduleHandler.UpdateShift)
		shiftRoutes.DELETE("/:id", scheduleHandler.DeleteShift)
	}
	authenticatedGroup.POST("/schedules/reconcile", adminOnly, scheduleHandler.ReconcileEmployees)
}

// SetupTemplateRoutes sets up the template routes.
func SetupTemplateRoutes(authenticatedGroup *gin.RouterGroup, templateHandler *handlers.TemplateHandler) {
	templateRoutes := authenticatedGroup.Group("/templates")
	templateRoutes.Use(adminOnly)
	{
		templateRoutes.POST("", templateHandler.CreateTemplate)
		templateRoutes.GET("", templateHandler.GetTemplates)
		templateRoutes.GET("/:id", templateHandler.GetTemplateByID)
		templateRoutes.PUT("/:id", templateHandler.UpdateTemplate)
		templateRoutes.DELETE("/:id", templateHandler.DeleteTemplate)
		templateRoutes.POST("/:id/apply", templateHandler.ApplyTemplate)
	}
}

// SetupEventRoutes sets up the event routes.
func SetupEventRoutes(authenticatedGroup *gin.RouterGroup, eventHandler *handlers.EventHandler, pdfHandler *handlers.PDFHandler) {
	eventRoutes := authenticatedGroup.Group("/events")
	eventRoutes.Use(anyRole)
	{
		eventRoutes.POST("", eventHandler.CreateEvent)
		eventRoutes.GET("", eventHandler.GetEvents)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)
		eventRoutes.PUT("/:id", eventHandler.UpdateEvent)
		eventRoutes.DELETE("/:id", eventHandler.DeleteEvent)
		eventRoutes.GET("/:id/pdf", pdfHandler.RenderEvent)
	}
}

// SetupPDFRoutes sets up the template analysis and posted-event rendering routes.
func SetupPDFRoutes(authenticatedGroup *gin.RouterGroup, pdfHandler *handlers.PDFHandler) {
	pdfRoutes := authenticatedGroup.Group("/pdf")
	pdfRoutes.Use(anyRole)
	{
		pdfRoutes.GET("/analyze", pdfHandler.Analyze)
		pdfRoutes.POST("/event", pdfHandler.RenderSheet)
	}
}
