package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ProviderHTTP   = "http"
	ProviderGemini = "gemini"
)

type Config struct {
	GeminiAPIKey      string
	DiagnosisProvider string `validate:"oneof=http gemini"`
	DiagnosisURL      string `validate:"url"`
	GeminiModel       string `validate:"required"`

	DatabaseDriver string `validate:"oneof=sqlite3 postgres mysql"`
	DatabaseURL    string `validate:"required"`

	HTTPPort           string `validate:"required,numeric"`
	PublicDir          string `validate:"required"`
	CORSAllowedOrigins []string

	// Log configuration
	LogLevel      string `validate:"required"`
	LogFilename   string
	LogMaxSize    int `validate:"gte=0"`
	LogMaxBackups int `validate:"gte=0"`
	LogMaxAge     int `validate:"gte=0"`
	LogCompress   bool
}

// Load reads an optional .env file into the environment and resolves every
// setting against its default. The returned value is meant to be built once at
// startup and handed to constructors; nothing here is refreshed later.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("DIAGNOSIS_PROVIDER", ProviderHTTP)
	v.SetDefault("DIAGNOSIS_URL", "https://api.gemini.com/v1/symptoms")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash-latest")
	v.SetDefault("DATABASE_DRIVER", "sqlite3")
	v.SetDefault("DATABASE_URL", "symptoms_checker.db")
	v.SetDefault("HTTP_PORT", "3001")
	v.SetDefault("PUBLIC_DIR", "public")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("LOG_FILENAME", "logs/app.log")
	v.SetDefault("LOG_MAX_SIZE", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE", 28)
	v.SetDefault("LOG_COMPRESS", true)

	cfg := &Config{
		GeminiAPIKey:      v.GetString("GEMINI_API_KEY"),
		DiagnosisProvider: strings.ToLower(v.GetString("DIAGNOSIS_PROVIDER")),
		DiagnosisURL:      v.GetString("DIAGNOSIS_URL"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),

		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseURL:    v.GetString("DATABASE_URL"),

		HTTPPort:           v.GetString("HTTP_PORT"),
		PublicDir:          v.GetString("PUBLIC_DIR"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),

		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFilename:   v.GetString("LOG_FILENAME"),
		LogMaxSize:    v.GetInt("LOG_MAX_SIZE"),
		LogMaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		LogMaxAge:     v.GetInt("LOG_MAX_AGE"),
		LogCompress:   v.GetBool("LOG_COMPRESS"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.HTTPPort
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
