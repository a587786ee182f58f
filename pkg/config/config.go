package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Store backends understood by the kvstore factory.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	CORS     CORSConfig
	Log      LogConfig
	Roles    RolesConfig
	Events   EventsConfig
	Tickets  TicketsConfig
	Metrics  MetricsConfig
}

// StoreConfig selects the key-value backend holding sessions, enrollments and events.
type StoreConfig struct {
	Backend   string
	KeyPrefix string
	Table     string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// SessionConfig configures the signed session tokens.
type SessionConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// RolesConfig lists the email domains used for role inference.
type RolesConfig struct {
	StudentDomains []string
	StaffDomains   []string
}

// EventsConfig governs the event catalog.
type EventsConfig struct {
	Timezone     string
	SeedSamples  bool
	DefaultLimit int
	MaxLimit     int
}

// TicketsConfig controls QR entry tickets.
type TicketsConfig struct {
	Secret string
	TTL    time.Duration
	Size   int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Store = StoreConfig{
		Backend:   strings.ToLower(v.GetString("STORE_BACKEND")),
		KeyPrefix: v.GetString("STORE_KEY_PREFIX"),
		Table:     v.GetString("STORE_TABLE"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		SQLitePath:   v.GetString("SQLITE_PATH"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Session = SessionConfig{
		Secret:     v.GetString("SESSION_SECRET"),
		Expiration: parseDuration(v.GetString("SESSION_EXPIRATION"), 30*24*time.Hour),
		Issuer:     v.GetString("SESSION_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Roles = RolesConfig{
		StudentDomains: splitAndTrim(v.GetString("STUDENT_DOMAINS")),
		StaffDomains:   splitAndTrim(v.GetString("STAFF_DOMAINS")),
	}

	cfg.Events = EventsConfig{
		Timezone:     v.GetString("EVENTS_TIMEZONE"),
		SeedSamples:  v.GetBool("SEED_SAMPLE_EVENTS"),
		DefaultLimit: v.GetInt("EVENTS_DEFAULT_LIMIT"),
		MaxLimit:     v.GetInt("EVENTS_MAX_LIMIT"),
	}

	cfg.Tickets = TicketsConfig{
		Secret: v.GetString("TICKETS_SECRET"),
		TTL:    parseDuration(v.GetString("TICKETS_TTL"), 90*24*time.Hour),
		Size:   v.GetInt("TICKETS_QR_SIZE"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("STORE_BACKEND", StoreMemory)
	v.SetDefault("STORE_KEY_PREFIX", "campus-events:")
	v.SetDefault("STORE_TABLE", "kv_store")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_events")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("SQLITE_PATH", "./campus_events.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SESSION_SECRET", "dev_session_secret")
	v.SetDefault("SESSION_EXPIRATION", "720h")
	v.SetDefault("SESSION_ISSUER", "campus-events-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STUDENT_DOMAINS", "alumnos.usm.cl,estudiantes.usm.cl")
	v.SetDefault("STAFF_DOMAINS", "usm.cl,funcionarios.usm.cl")

	v.SetDefault("EVENTS_TIMEZONE", "America/Santiago")
	v.SetDefault("SEED_SAMPLE_EVENTS", true)
	v.SetDefault("EVENTS_DEFAULT_LIMIT", 50)
	v.SetDefault("EVENTS_MAX_LIMIT", 100)

	v.SetDefault("TICKETS_SECRET", "dev_tickets_secret")
	v.SetDefault("TICKETS_TTL", "2160h")
	v.SetDefault("TICKETS_QR_SIZE", 256)

	v.SetDefault("ENABLE_METRICS", true)
}

// Location resolves the configured events timezone, falling back to UTC.
func (c EventsConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
