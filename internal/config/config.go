package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the cache connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig controls who counts as an administrator and how task post-back tokens are signed.
type AuthConfig struct {
	AdminEmails []string
	TaskSecret  string
	TokenTTL    time.Duration
}

// WorkerConfig configures the pull-queue consumers in cmd/worker.
type WorkerConfig struct {
	Queues       []string
	LeaseSeconds int
	BatchSize    int
	PollInterval time.Duration
	WorkDir      string
	LogDir       string
	// FlipCommand is split on spaces; the image is fed on stdin and read back from stdout.
	FlipCommand string
	// OutputURL receives flipped images; the task name is appended.
	OutputURL string
	// MetricsAddr serves /metrics and /healthz for the worker; "off" disables it.
	MetricsAddr string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level    string
	Timezone string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost  string
	Port     string
	Database DatabaseConfig
	MinIO    MinIOConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Worker   WorkerConfig
	Log      LogConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AdminEmails: getEnvList("ADMIN_EMAILS", nil),
			TaskSecret:  getEnv("TASK_TOKEN_SECRET", ""),
			TokenTTL:    getEnvDuration("TASK_TOKEN_TTL", 15*time.Minute),
		},
		Worker: WorkerConfig{
			Queues:       getEnvList("WORKER_QUEUES", []string{"tally", "photostitch", "imageconvert"}),
			LeaseSeconds: getEnvInt("WORKER_LEASE_SECONDS", 300),
			BatchSize:    getEnvInt("WORKER_BATCH_SIZE", 1),
			PollInterval: getEnvDuration("WORKER_POLL_INTERVAL", 5*time.Second),
			WorkDir:      getEnv("WORKER_WORK_DIR", os.TempDir()),
			LogDir:       getEnv("WORKER_LOG_DIR", os.TempDir()),
			FlipCommand:  getEnv("WORKER_FLIP_COMMAND", "convert - -flip -"),
			OutputURL:    getEnv("WORKER_OUTPUT_URL", "http://localhost:8080/imageflipper/taskdata?name="),
			MetricsAddr:  getEnv("WORKER_METRICS_ADDR", ":9091"),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Timezone: getEnv("TZ", "UTC"),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c LogConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsAdmin reports whether email is listed in ADMIN_EMAILS (case-insensitive).
func (c AuthConfig) IsAdmin(email string) bool {
	for _, a := range c.AdminEmails {
		if strings.EqualFold(a, email) {
			return true
		}
	}
	return false
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

// getEnvList splits a comma-separated value, dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
