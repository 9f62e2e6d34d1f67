package router

import (
	"database/sql"
	"net/http"

	"brewery_backend/internal/config"
	"brewery_backend/internal/eventpdf"
	"brewery_backend/internal/handlers"
	"brewery_backend/internal/middleware"
	"brewery_backend/internal/repositories"
	"brewery_backend/internal/services"
	"brewery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Dependencies are the process-wide resources the routes are built from.
// Generator is nil when the PDF template could not be loaded.
type Dependencies struct {
	DB        *sql.DB
	Config    *config.Config
	Tokens    *utils.TokenIssuer
	Generator *eventpdf.Generator
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	db := deps.DB

	// Initialize Repositories
	employeeRepo := repositories.NewEmployeeRepository(db)
	scheduleRepo := repositories.NewScheduleRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)
	eventRepo := repositories.NewEventRepository(db)

	// Initialize Services
	authService := services.NewAuthService(employeeRepo, deps.Tokens, deps.Config.OAuth)
	employeeService := services.NewEmployeeService(employeeRepo, db)
	scheduleService := services.NewScheduleService(scheduleRepo, employeeRepo, eventRepo, templateRepo, db, deps.Config.ScheduleNameFallback)
	templateService := services.NewTemplateService(templateRepo, scheduleRepo, employeeRepo, db)
	eventService := services.NewEventService(eventRepo, scheduleRepo, db)
	pdfService := services.NewPDFService(deps.Generator, eventService)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService, !deps.Config.IsDevelopment())
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	eventHandler := handlers.NewEventHandler(eventService)
	pdfHandler := handlers.NewPDFHandler(pdfService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := engine.Group("/api/v1")
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupEmployeeRoutes(authenticated, employeeHandler)
		SetupScheduleRoutes(authenticated, scheduleHandler)
		SetupTemplateRoutes(authenticated, templateHandler)
		SetupEventRoutes(authenticated, eventHandler, pdfHandler)
		SetupPDFRoutes(authenticated, pdfHandler)
	}
}
