package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port              string
	DBConn            string
	LogLevel          string
	JWTSecret         string
	AdminPasswordHash string

	InflationURL    string
	InflationFormat string
	UserAgent       string
	FetchTimeout    time.Duration
	FetchRetries    int
	FetchRetryDelay time.Duration
	CacheTTL        time.Duration
	RefreshSchedule string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

const (
	FormatHTML = "html"
	FormatXML  = "xml"
)

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DBConn:            getEnv("DB_CONN", ""),
		LogLevel:          getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:         getEnv("JWT_SECRET", "secret"),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		InflationURL:      getEnv("INFLATION_URL", "https://index.minfin.com.ua/ua/economy/index/inflation/"),
		InflationFormat:   getEnv("INFLATION_FORMAT", FormatHTML),
		UserAgent:         getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"),
		RefreshSchedule:   getEnv("REFRESH_SCHEDULE", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnv("SMTP_PORT", "587"),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SenderEmail:       getEnv("SENDER_EMAIL", ""),
	}

	var err error
	if cfg.FetchTimeout, err = getDuration("FETCH_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FetchRetryDelay, err = getDuration("FETCH_RETRY_DELAY", time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 0); err != nil {
		return nil, err
	}
	if cfg.FetchRetries, err = getInt("FETCH_RETRIES", 0); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.InflationURL == "" {
		return nil, fmt.Errorf("INFLATION_URL is required")
	}
	if cfg.InflationFormat != FormatHTML && cfg.InflationFormat != FormatXML {
		return nil, fmt.Errorf("INFLATION_FORMAT must be %q or %q, got %q", FormatHTML, FormatXML, cfg.InflationFormat)
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if cfg.FetchRetries < 0 {
		return nil, fmt.Errorf("FETCH_RETRIES must not be negative")
	}
	if cfg.RefreshSchedule != "" && cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("REFRESH_SCHEDULE requires CACHE_TTL")
	}

	return cfg, nil
}

// MailEnabled reports whether claim notices can be sent
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SenderEmail != ""
}

// FetchBudget is the longest a fetch can take with every retry and backoff
func (c *Config) FetchBudget() time.Duration {
	attempts := time.Duration(c.FetchRetries + 1)
	// linear backoff waits delay, 2*delay, ... between attempts
	backoff := c.FetchRetryDelay * time.Duration(c.FetchRetries*(c.FetchRetries+1)/2)
	return c.FetchTimeout*attempts + backoff
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
