package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"brewery_backend/pkg/utils"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting read from the environment.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DB DBConfig

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	PDFTemplatePath string
	PDFFieldMapPath string

	OAuth OAuthConfig

	// ScheduleNameFallback enables substring matching of legacy shift rows
	// that carry no employee_id.
	ScheduleNameFallback bool
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ApplySchema     bool
}

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether the OAuth provider is configured.
func (o OAuthConfig) Enabled() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.RedirectURL != ""
}

// DSN returns the lib/pq connection string.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "" || c.AppEnv == "development" || c.AppEnv == "dev"
}

// Load reads an optional .env file followed by the process environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		Port:     utils.Getenv("PORT", "8080"),
		AppEnv:   utils.Getenv("APP_ENV", "development"),
		LogLevel: utils.Getenv("LOG_LEVEL", "info"),
		DB: DBConfig{
			Host:            utils.Getenv("DB_HOST", "localhost"),
			Port:            utils.Getenv("DB_PORT", "5432"),
			User:            utils.Getenv("DB_USER", "brewery"),
			Password:        utils.Getenv("DB_PASSWORD", "brewery"),
			Name:            utils.Getenv("DB_NAME", "brewery_ops"),
			SSLMode:         utils.Getenv("DB_SSLMODE", "disable"),
			MaxOpenConns:    utils.GetenvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:    utils.GetenvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: utils.GetenvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
			ApplySchema:     utils.GetenvBool("DB_APPLY_SCHEMA", false),
		},
		JWTSecret:          utils.Getenv("JWT_SECRET", ""),
		JWTTTL:             utils.GetenvDuration("JWT_TTL", 12*time.Hour),
		CORSAllowedOrigins: utils.GetenvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		PDFTemplatePath:    utils.Getenv("PDF_TEMPLATE_PATH", "assets/event_sheet.pdf"),
		PDFFieldMapPath:    utils.Getenv("PDF_FIELD_MAP_PATH", ""),
		OAuth: OAuthConfig{
			ClientID:     utils.Getenv("OAUTH_CLIENT_ID", ""),
			ClientSecret: utils.Getenv("OAUTH_CLIENT_SECRET", ""),
			RedirectURL:  utils.Getenv("OAUTH_REDIRECT_URL", ""),
		},
		ScheduleNameFallback: utils.GetenvBool("SCHEDULE_NAME_FALLBACK", false),
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "development-only-secret-change-me"
	}
	return cfg, nil
}
