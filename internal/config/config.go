package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      *AppConfig
	Database *DatabaseConfig
	Redis    *RedisConfig
	SMTP     *SMTPConfig
	Payment  *PaymentConfig
	Security *SecurityConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Port        int
	Host        string
	BaseURL     string
	LogLevel    string
	LogFormat   string
	UploadDir   string
}

type SecurityConfig struct {
	JWTSecret          string
	JWTExpiry          time.Duration
	CookieExpiry       time.Duration
	ResetTokenExpiry   time.Duration
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
}

func Load() (*Config, error) {
	// .env is optional; real deployments provide the environment directly
	_ = godotenv.Load()

	config := &Config{
		App:      loadAppConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		SMTP:     loadSMTPConfig(),
		Payment:  loadPaymentConfig(),
		Security: loadSecurityConfig(),
	}

	return config, nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "gotours"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8080),
		Host:        getEnv("APP_HOST", "localhost"),
		BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		UploadDir:   getEnv("UPLOAD_DIR", "public/img"),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiry:          getEnvAsDuration("JWT_EXPIRES_IN", 90*24*time.Hour),
		CookieExpiry:       getEnvAsDuration("JWT_COOKIE_EXPIRES_IN", 90*24*time.Hour),
		ResetTokenExpiry:   getEnvAsDuration("PASSWORD_RESET_EXPIRES_IN", 10*time.Minute),
		RateLimitRequests:  getEnvAsInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:    getEnvAsDuration("RATE_LIMIT_WINDOW", time.Hour),
		MaxBodyBytes:       int64(getEnvAsInt("MAX_BODY_BYTES", 10*1024)),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
