package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data source kinds.
const (
	SourceSQL    = "sql"
	SourceRemote = "remote"
	SourceMock   = "mock"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	DataSource DataSourceConfig
	CORS       CORSConfig
	Log        LogConfig
	Schedule   ScheduleConfig
	Delete     DeleteConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// DataSourceConfig selects where portfolios and positions come from.
type DataSourceConfig struct {
	Kind          string // sql, remote or mock
	RemoteURL     string
	RemoteTimeout time.Duration
	YahooURL      string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// ScheduleConfig holds the cron schedules of the background jobs. An empty
// schedule disables the job.
type ScheduleConfig struct {
	PriceRefresh string
	Snapshot     string
}

// DeleteConfig holds the settings of the two-step position delete.
type DeleteConfig struct {
	Key string // base64 Fernet key; generated at startup when empty
	TTL time.Duration
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	remoteTimeout, err := getDuration("REMOTE_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	deleteTTL, err := getDuration("DELETE_CONFIRM_TTL", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	pretty, err := getBool("LOG_PRETTY", false)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_dashboard.db"),
		},
		DataSource: DataSourceConfig{
			Kind:          strings.ToLower(getEnv("DATA_SOURCE", SourceSQL)),
			RemoteURL:     getEnv("REMOTE_API_URL", "http://localhost:8000"),
			RemoteTimeout: remoteTimeout,
			YahooURL:      getEnv("YAHOO_API_URL", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5173",
				"http://localhost",
			}),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: pretty,
		},
		Schedule: ScheduleConfig{
			PriceRefresh: os.Getenv("PRICE_REFRESH_SCHEDULE"),
			Snapshot:     getEnv("SNAPSHOT_SCHEDULE", "0 5 22 * * *"),
		},
		Delete: DeleteConfig{
			Key: os.Getenv("DELETE_CONFIRM_KEY"),
			TTL: deleteTTL,
		},
	}

	switch config.DataSource.Kind {
	case SourceSQL, SourceRemote, SourceMock:
	default:
		return nil, fmt.Errorf("invalid DATA_SOURCE %q: must be sql, remote or mock", config.DataSource.Kind)
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// getList splits a comma separated variable, dropping blank entries.
func getList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
