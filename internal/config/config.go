package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Typhoon    TyphoonConfig
	Classifier ClassifierConfig
	Storage    StorageConfig
	Rules      RulesConfig
	CORS       CORSConfig
	RateLimit  RateLimitConfig
	OAuth      OAuthConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
}

type JWTConfig struct {
	Secret             string
	ExpiryHours        time.Duration
	RefreshExpiryHours time.Duration
}

// TyphoonConfig configures the OCR and extraction models served through the
// OpenAI-compatible Typhoon endpoint.
type TyphoonConfig struct {
	APIKey       string
	BaseURL      string
	OCRModel     string
	ExtractModel string
}

type ClassifierConfig struct {
	URL string
}

type StorageConfig struct {
	UploadPath    string
	WorkPath      string
	AuditPath     string
	UploadMaxSize int64
}

// RulesConfig tunes the deduction rules engine. EvaluateAllItems disables the
// default early exit so every line item gets a verdict.
type RulesConfig struct {
	EvaluateAllItems bool
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "process-tax-ocr")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "taxocr")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "Asia/Bangkok")
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("JWT_EXPIRY_HOURS", 24)
	viper.SetDefault("JWT_REFRESH_EXPIRY_HOURS", 168)
	viper.SetDefault("TYPHOON_BASE_URL", "https://api.opentyphoon.ai/v1")
	viper.SetDefault("TYPHOON_OCR_MODEL", "typhoon-ocr-preview")
	viper.SetDefault("TYPHOON_EXTRACT_MODEL", "typhoon-v2-70b-instruct")
	viper.SetDefault("CLASSIFIER_URL", "http://localhost:8000")
	viper.SetDefault("STORAGE_PATH", "./storage/uploads")
	viper.SetDefault("WORK_PATH", "./storage/work")
	viper.SetDefault("AUDIT_PATH", "./storage/audit")
	viper.SetDefault("UPLOAD_MAX_SIZE", 15728640)
	viper.SetDefault("RULES_EVALUATE_ALL_ITEMS", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)

	cfg := &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			ExpiryHours:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			RefreshExpiryHours: time.Duration(viper.GetInt("JWT_REFRESH_EXPIRY_HOURS")) * time.Hour,
		},
		Typhoon: TyphoonConfig{
			APIKey:       viper.GetString("TYPHOON_API_KEY"),
			BaseURL:      viper.GetString("TYPHOON_BASE_URL"),
			OCRModel:     viper.GetString("TYPHOON_OCR_MODEL"),
			ExtractModel: viper.GetString("TYPHOON_EXTRACT_MODEL"),
		},
		Classifier: ClassifierConfig{
			URL: viper.GetString("CLASSIFIER_URL"),
		},
		Storage: StorageConfig{
			UploadPath:    viper.GetString("STORAGE_PATH"),
			WorkPath:      viper.GetString("WORK_PATH"),
			AuditPath:     viper.GetString("AUDIT_PATH"),
			UploadMaxSize: viper.GetInt64("UPLOAD_MAX_SIZE"),
		},
		Rules: RulesConfig{
			EvaluateAllItems: viper.GetBool("RULES_EVALUATE_ALL_ITEMS"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		OAuth: OAuthConfig{
			GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
	}

	// The limiter rate is requests/duration; zero or negative values would
	// silently disable limiting, so fall back to the defaults instead.
	if cfg.RateLimit.Requests < 1 {
		cfg.RateLimit.Requests = 100
	}
	if cfg.RateLimit.Duration < 1 {
		cfg.RateLimit.Duration = 60
	}

	return cfg
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}
