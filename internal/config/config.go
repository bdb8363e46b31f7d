package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string

	CORSAllowedOrigins []string

	AuthJWTSecret string
	TokenTTL      time.Duration

	BootstrapAdminUsername string
	BootstrapAdminPassword string

	// Timezone is the calendar used to decide what "today" is.
	Timezone string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	AttachmentDir     string
	AttachmentBaseURL string
	MaxUploadBytes    int64

	RedisAddr       string
	RedisPassword   string
	LoginRatePerMin float64
	LoginBurst      int

	StrictStatusTransitions bool
	DueSweepSchedule        string
	UrgencyConfigPath       string

	// MetricsPushExporter is "prometheus_remote_write", "prometheus_pushgateway"
	// or empty to disable pushing.
	MetricsPushExporter string
	MetricsPushEndpoint string
	MetricsPushToken    string
	MetricsPushInterval time.Duration
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:                 getenv("APP_SERVICE", "payables"),
		AppVersion:              getenv("APP_VERSION", "0.1.0"),
		Environment:             environment,
		HTTPPort:                getenv("HTTP_PORT", "8080"),
		CORSAllowedOrigins:      getenvList("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		AuthJWTSecret:           strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
		TokenTTL:                getenvDuration("AUTH_TOKEN_TTL", 10*time.Hour),
		BootstrapAdminUsername:  getenv("BOOTSTRAP_ADMIN_USERNAME", "admin"),
		BootstrapAdminPassword:  getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
		Timezone:                getenv("APP_TIMEZONE", "America/Sao_Paulo"),
		OTLPEndpoint:            getenv("OTLP_ENDPOINT", "localhost:4317"),
		DBType:                  getenv("DATABASE_TYPE", "postgres"),
		DBHost:                  getenv("DATABASE_HOST", "localhost"),
		DBPort:                  getenv("DATABASE_PORT", "5432"),
		DBName:                  getenv("DATABASE_NAME", "payables"),
		DBUser:                  getenv("DATABASE_USER", "postgres"),
		DBPassword:              getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:               getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:           getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:           getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime:       getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime:       getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		AttachmentDir:           getenv("ATTACHMENT_DIR", "./uploads"),
		AttachmentBaseURL:       strings.TrimRight(getenv("ATTACHMENT_BASE_URL", "http://localhost:8080/uploads"), "/"),
		MaxUploadBytes:          getenvInt64("ATTACHMENT_MAX_BYTES", 20<<20),
		RedisAddr:               strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword:           getenv("REDIS_PASSWORD", ""),
		LoginRatePerMin:         getenvFloat("LOGIN_RATE_PER_MINUTE", 10),
		LoginBurst:              getenvInt("LOGIN_BURST", 5),
		StrictStatusTransitions: getenvBool("STRICT_STATUS_TRANSITIONS", false),
		DueSweepSchedule:        getenv("DUE_SWEEP_SCHEDULE", "0 7 * * *"),
		UrgencyConfigPath:       getenv("URGENCY_CONFIG_PATH", ""),
		MetricsPushExporter:     strings.ToLower(strings.TrimSpace(getenv("METRICS_PUSH_EXPORTER", ""))),
		MetricsPushEndpoint:     strings.TrimSpace(getenv("METRICS_PUSH_ENDPOINT", "")),
		MetricsPushToken:        strings.TrimSpace(getenv("METRICS_PUSH_TOKEN", "")),
		MetricsPushInterval:     getenvDuration("METRICS_PUSH_INTERVAL", 15*time.Minute),
	}

	if cfg.AuthJWTSecret == "" {
		log.Println("[WARN] AUTH_JWT_SECRET is empty, tokens are signed with a development key")
		cfg.AuthJWTSecret = "payables-development-secret-change-me"
	}

	return cfg
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Location resolves Timezone, falling back to UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("[WARN] unknown APP_TIMEZONE %q, using UTC", name)
		return time.UTC
	}
	return loc
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvList(key, def string) []string {
	var out []string
	for _, item := range strings.Split(getenv(key, def), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
