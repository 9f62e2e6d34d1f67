package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brewery_backend/internal/config"
	"brewery_backend/internal/database"
	"brewery_backend/internal/eventpdf"
	"brewery_backend/internal/router"
	"brewery_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		utils.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	defer db.Close()

	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		utils.LogError(err, "Failed to initialize token issuer")
		os.Exit(1)
	}

	generator := loadGenerator(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", utils.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, router.Dependencies{
		DB:        db,
		Config:    cfg,
		Tokens:    tokens,
		Generator: generator,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "env": cfg.AppEnv})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shutdown")
	}
}

// loadGenerator returns nil when the field map or template is unusable.
// The PDF endpoints then answer 503 and everything else keeps serving.
func loadGenerator(cfg *config.Config) *eventpdf.Generator {
	layout, err := eventpdf.LoadLayout(cfg.PDFFieldMapPath)
	if err != nil {
		utils.LogWarn("PDF generation disabled: field map not loaded", map[string]interface{}{"path": cfg.PDFFieldMapPath, "error": err.Error()})
		return nil
	}
	generator, err := eventpdf.LoadGenerator(cfg.PDFTemplatePath, layout)
	if err != nil {
		utils.LogWarn("PDF generation disabled: template not loaded", map[string]interface{}{"path": cfg.PDFTemplatePath, "error": err.Error()})
		return nil
	}
	checkFieldMap(generator)
	return generator
}

// checkFieldMap compares the field map with the template once at startup.
func checkFieldMap(generator *eventpdf.Generator) {
	analysis, err := generator.Analyze()
	if err != nil {
		utils.LogWarn("Could not inspect PDF template fields", map[string]interface{}{"error": err.Error()})
		return
	}
	report := analysis.Mapping
	if report.OK() {
		utils.LogInfo("PDF field map matches template", map[string]interface{}{"version": report.Version})
		return
	}
	utils.LogWarn("PDF field map has unresolved entries", map[string]interface{}{
		"version":            report.Version,
		"missing":            report.Missing,
		"missing_checkboxes": report.MissingCheckboxes,
		"beer_strategy":      report.BeerStrategy,
	})
}
