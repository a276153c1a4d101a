package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Port        string
	Database    DatabaseConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Media       MediaConfig
	Pagination  PaginationConfig
	Export      ExportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int
}

// DSN returns a libpq style connection string understood by pgxpool.
func (d DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode)
	if d.MaxConns > 0 {
		dsn += fmt.Sprintf(" pool_max_conns=%d", d.MaxConns)
	}
	return dsn
}

type JWTConfig struct {
	Secret    string
	ExpiresIn string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type MediaConfig struct {
	// Root is the directory uploaded recipe images are written to.
	Root string
	// URL is the public prefix the router serves Root under.
	URL string
}

type PaginationConfig struct {
	PageSize int
	MaxLimit int
}

type ExportConfig struct {
	// DefaultFormat is used when the download request carries no format parameter.
	DefaultFormat string
	// FontPath points at a TrueType font. Empty means built-in fonts.
	FontPath string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8000"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "db"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "foodgram"),
			User:     getEnv("DB_USER", "foodgram_user"),
			Password: getEnv("DB_PASSWORD", "foodgram_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:    getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiresIn: getEnv("JWT_EXPIRES_IN", "7d"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost",
				"http://localhost:3000",
			}),
		},
		Media: MediaConfig{
			Root: getEnv("MEDIA_ROOT", "media"),
			URL:  getEnv("MEDIA_URL", "/media/"),
		},
		Pagination: PaginationConfig{
			PageSize: getEnvInt("PAGE_SIZE", 6),
			MaxLimit: getEnvInt("PAGE_MAX_LIMIT", 100),
		},
		Export: ExportConfig{
			DefaultFormat: getEnv("EXPORT_DEFAULT_FORMAT", "pdf"),
			FontPath:      getEnv("EXPORT_FONT_PATH", ""),
		},
	}
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
