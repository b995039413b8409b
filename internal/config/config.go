package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Triage       TriageConfig
	Notification NotificationConfig
	Chat         ChatConfig
	SLA          SLAConfig
	Redis        RedisConfig
	RateLimit    RateLimitConfig
	Admin        AdminConfig
	Store        StoreConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// TriageConfig configures the AI triage collaborator.
type TriageConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
	// Blocking preserves the portal behavior of failing complaint submission
	// when triage fails. Set false for best-effort async enrichment.
	Blocking    bool
	MockDelayMS int
}

// NotificationConfig gates the simulated SMS/email side-channel.
type NotificationConfig struct {
	SenderID       string
	WebhookURL     string
	OnNewComplaint bool
	OnStatusChange bool
	OnSLABreach    bool
}

// ChatConfig controls the conversational intake widget sessions.
type ChatConfig struct {
	ResetDelayMS      int
	SessionTTLMinutes int
}

// SLAConfig defines when an active complaint counts as breached.
type SLAConfig struct {
	BreachThresholdHours int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RateLimitConfig controls the per-contact submission limiter.
type RateLimitConfig struct {
	Enabled       bool
	MaxPerWindow  int
	WindowMinutes int
}

// AdminConfig holds the shared dashboard token. There is no real account
// system; the portal ships with a single mock admin.
type AdminConfig struct {
	Token string
}

// StoreConfig controls the in-memory complaint store.
type StoreConfig struct {
	SeedSampleData bool
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "civic-complaint-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Triage: TriageConfig{
			APIKey:         os.Getenv("TRIAGE_API_KEY"),
			Model:          getEnv("TRIAGE_MODEL", "gpt-4o-mini"),
			TimeoutSeconds: getEnvAsInt("TRIAGE_TIMEOUT_SECONDS", 20),
			Blocking:       getEnvAsBool("TRIAGE_BLOCKING", true),
			MockDelayMS:    getEnvAsInt("TRIAGE_MOCK_DELAY_MS", 0),
		},
		Notification: NotificationConfig{
			SenderID:       getEnv("NOTIFY_SENDER_ID", "CIVIC"),
			WebhookURL:     getEnv("NOTIFY_WEBHOOK_URL", ""),
			OnNewComplaint: getEnvAsBool("NOTIFY_ON_NEW_COMPLAINT", true),
			OnStatusChange: getEnvAsBool("NOTIFY_ON_STATUS_CHANGE", true),
			OnSLABreach:    getEnvAsBool("NOTIFY_ON_SLA_BREACH", true),
		},
		Chat: ChatConfig{
			ResetDelayMS:      getEnvAsInt("CHAT_RESET_DELAY_MS", 2000),
			SessionTTLMinutes: getEnvAsInt("CHAT_SESSION_TTL_MINUTES", 30),
		},
		SLA: SLAConfig{
			BreachThresholdHours: getEnvAsInt("SLA_BREACH_THRESHOLD_HOURS", 72),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", false),
			MaxPerWindow:  getEnvAsInt("RATE_LIMIT_MAX_PER_WINDOW", 5),
			WindowMinutes: getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 60),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", "dev-admin-token"),
		},
		Store: StoreConfig{
			SeedSampleData: getEnvAsBool("STORE_SEED_SAMPLE_DATA", true),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// ResetDelay returns the chat auto-reset delay.
func (c ChatConfig) ResetDelay() time.Duration {
	return time.Duration(c.ResetDelayMS) * time.Millisecond
}

// SessionTTL returns how long an idle chat session is kept.
func (c ChatConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// BreachThreshold returns the age at which an In Progress complaint breaches SLA.
func (s SLAConfig) BreachThreshold() time.Duration {
	return time.Duration(s.BreachThresholdHours) * time.Hour
}

// Window returns the rate limit window duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMinutes) * time.Minute
}

// Timeout returns the triage call deadline.
func (t TriageConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// MockDelay returns the simulated latency for the mock analyzer.
func (t TriageConfig) MockDelay() time.Duration {
	return time.Duration(t.MockDelayMS) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
