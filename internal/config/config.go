package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AI provider names accepted in ai.provider
const (
	AIProviderNone   = "none"
	AIProviderGemini = "gemini"
	AIProviderOpenAI = "openai"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port          string `yaml:"port" env:"SERVER_PORT"`
		Mode          string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath   string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		PublicBaseURL string `yaml:"public_base_url" env:"SERVER_PUBLIC_BASE_URL"`
		ReadTimeout   string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout  string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		MigrationsDir string `yaml:"migrations_dir" env:"SERVER_MIGRATIONS_DIR"`
		// AllowedOrigins is a comma-separated list of extra websocket origins
		AllowedOrigins string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Storage struct {
		SignedURLTTL  string `yaml:"signed_url_ttl" env:"STORAGE_SIGNED_URL_TTL"`
		SigningSecret string `yaml:"signing_secret" env:"STORAGE_SIGNING_SECRET"`
		MaxExportRows int    `yaml:"max_export_rows" env:"STORAGE_MAX_EXPORT_ROWS"`
	} `yaml:"storage"`

	AI struct {
		Provider     string `yaml:"provider" env:"AI_PROVIDER"`
		APIKey       string `yaml:"api_key" env:"AI_API_KEY"`
		Model        string `yaml:"model" env:"AI_MODEL"`
		BaseURL      string `yaml:"base_url" env:"AI_BASE_URL"`
		SystemPrompt string `yaml:"system_prompt" env:"AI_SYSTEM_PROMPT"`
		Timeout      string `yaml:"timeout" env:"AI_TIMEOUT"`
		MaxHistory   int    `yaml:"max_history" env:"AI_MAX_HISTORY"`
	} `yaml:"ai"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
		BaseURL   string `yaml:"base_url" env:"SMTP_BASE_URL"`
	} `yaml:"smtp"`

	Admin struct {
		Email     string `yaml:"email" env:"ADMIN_EMAIL"`
		Password  string `yaml:"password" env:"ADMIN_PASSWORD"`
		FirstName string `yaml:"first_name" env:"ADMIN_FIRST_NAME"`
		LastName  string `yaml:"last_name" env:"ADMIN_LAST_NAME"`
	} `yaml:"admin"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
		Path    string `yaml:"path" env:"METRICS_PATH"`
	} `yaml:"metrics"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in that order of increasing precedence.
func LoadConfig(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "./storage"
	config.Server.PublicBaseURL = "http://localhost:8080"
	config.Server.ReadTimeout = "15s"
	config.Server.WriteTimeout = "30s"
	config.Server.MigrationsDir = "migrations"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "eventhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "eventhub.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Storage.SignedURLTTL = "15m"
	config.Storage.MaxExportRows = 10000

	config.AI.Provider = AIProviderNone
	config.AI.Model = "gemini-2.0-flash"
	config.AI.BaseURL = "https://api.openai.com/v1"
	config.AI.SystemPrompt = "You are the EventHub assistant. Help users discover events, hackathons and internships, " +
		"prepare resumes and navigate the platform. Answer concisely."
	config.AI.Timeout = "60s"
	config.AI.MaxHistory = 20

	config.SMTP.Port = 587
	config.SMTP.FromName = "EventHub"
	config.SMTP.FromEmail = "no-reply@eventhub.app"
	config.SMTP.UseTLS = true
	config.SMTP.BaseURL = "http://localhost:3000"

	config.Admin.FirstName = "Platform"
	config.Admin.LastName = "Admin"

	config.Metrics.Enabled = true
	config.Metrics.Path = "/metrics"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	durations := map[string]string{
		"jwt.access_token_expiration":  config.JWT.AccessTokenExpiration,
		"jwt.refresh_token_expiration": config.JWT.RefreshTokenExpiration,
		"database.conn_max_lifetime":   config.Database.ConnMaxLifetime,
		"storage.signed_url_ttl":       config.Storage.SignedURLTTL,
		"ai.timeout":                   config.AI.Timeout,
		"server.read_timeout":          config.Server.ReadTimeout,
		"server.write_timeout":         config.Server.WriteTimeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", key, err)
		}
	}

	switch strings.ToLower(config.AI.Provider) {
	case AIProviderNone, AIProviderGemini, AIProviderOpenAI:
	default:
		return fmt.Errorf("unsupported AI provider %q", config.AI.Provider)
	}

	if config.AI.MaxHistory <= 0 {
		return fmt.Errorf("ai.max_history must be positive")
	}

	if config.Storage.MaxExportRows <= 0 {
		return fmt.Errorf("storage.max_export_rows must be positive")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// SigningSecret returns the secret used for signed file URLs, falling back to the JWT secret.
func (c *Config) SigningSecret() string {
	if c.Storage.SigningSecret != "" {
		return c.Storage.SigningSecret
	}
	return c.JWT.Secret
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// Origins splits Server.AllowedOrigins into a list
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(GetEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
