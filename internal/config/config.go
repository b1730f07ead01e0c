package config

import (
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL      = "sqlite:///vegan_recipe_swap.db"
	defaultHost             = "localhost"
	defaultPort             = "3000"
	defaultMaxContentLength = 5 * 1024 * 1024
)

type Config struct {
	DatabaseURL string
	RedisURL    string
	ServerAddr  string
	Environment string
	Debug       bool

	// Secrets handed to the external auth layer; nothing here signs tokens.
	AppSecretKey string
	JWTSecret    string
	JWTExpiry    time.Duration

	UploadPath         string
	MaxContentLength   int
	CORSAllowedOrigins []string
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func Load() *Config {
	// .env is optional; containers pass the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		RedisURL:    os.Getenv("REDIS_URL"),
		ServerAddr:  serverAddr(),
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getEnvAsBool("DEBUG", true),

		AppSecretKey: getEnv("APP_SECRET_KEY", "dev-secret-key-change-in-production"),
		JWTSecret:    getEnv("JWT_SECRET", "jwt-secret-key-change-in-production"),
		JWTExpiry:    getEnvAsDuration("JWT_EXPIRY", "24h"),

		UploadPath:         getEnv("UPLOAD_PATH", "./uploads"),
		MaxContentLength:   getEnvAsInt("MAX_CONTENT_LENGTH", defaultMaxContentLength),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS"),
	}

	return cfg
}

// serverAddr prefers SERVER_PORT (":8080" or "8080") and falls back to
// APP_HOST/APP_PORT.
func serverAddr() string {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if !strings.Contains(port, ":") {
			return ":" + port
		}
		return port
	}
	return net.JoinHostPort(getEnv("APP_HOST", defaultHost), getEnv("APP_PORT", defaultPort))
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt retrieves environment variable as int with default value
func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %d", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsBool accepts anything strconv.ParseBool does
func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(strings.ToLower(valStr))
	if err != nil {
		log.Printf("Invalid %s value, using default: %t", key, defaultVal)
		return defaultVal
	}
	return val
}

// getEnvAsDuration retrieves environment variable as duration with default value
func getEnvAsDuration(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}
	duration, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Invalid %s value, using default: %s", key, defaultVal)
		duration, _ = time.ParseDuration(defaultVal)
	}
	return duration
}

func getEnvAsList(key string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
