package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultAllowedHosts are the hosts allowed to submit forms when ALLOWED_HOSTS is unset.
// Entries are compared against URL hosts, so a non-default port is part of the entry.
var DefaultAllowedHosts = []string{
	"quant-ent.com",
	"www.quant-ent.com",
	"quantent-web.vercel.app",
	"localhost:3000",
}

const (
	EmailProviderSMTP   = "smtp"
	EmailProviderResend = "resend"
)

type Config struct {
	ServerPort   string
	Environment  string
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowedHosts []string
	// Proxies (IPs or CIDRs) whose X-Forwarded-For is trusted; empty means use the socket address
	TrustedProxies []string
	// SMTP transport
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	// Contact routing
	ContactTo   string
	ContactFrom string
	// Email provider
	EmailProvider string
	ResendAPIKey  string
	EmailTestMode bool // When true, emails are logged instead of sent
	// Abuse protection
	TurnstileSecretKey  string
	RateLimitDisabled   bool
	ContactRateLimit    int
	NewsletterRateLimit int
	RateLimitWindow     time.Duration
	// Error reporting
	SentryDSN string
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	environment := getEnv("ENVIRONMENT", getEnv("VERCEL_ENV", "development"))
	smtpUser := getEnv("SMTP_USER", "")

	return &Config{
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		Environment:         environment,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ReadTimeout:         getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout:        getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		AllowedHosts:        getEnvList("ALLOWED_HOSTS", DefaultAllowedHosts),
		TrustedProxies:      getEnvList("TRUSTED_PROXIES", nil),
		SMTPHost:            getEnv("SMTP_HOST", ""),
		SMTPPort:            getEnv("SMTP_PORT", ""),
		SMTPUser:            smtpUser,
		SMTPPass:            getEnv("SMTP_PASS", ""),
		ContactTo:           getEnv("CONTACT_TO", ""),
		ContactFrom:         getEnv("CONTACT_FROM", smtpUser),
		EmailProvider:       strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderSMTP)),
		ResendAPIKey:        getEnv("RESEND_API_KEY", ""),
		EmailTestMode:       getEnvBool("EMAIL_TEST_MODE", false),
		TurnstileSecretKey:  getEnv("TURNSTILE_SECRET_KEY", ""),
		RateLimitDisabled:   getEnvBool("RATE_LIMIT_DISABLED", false),
		ContactRateLimit:    getEnvInt("CONTACT_RATE_LIMIT", 5),
		NewsletterRateLimit: getEnvInt("NEWSLETTER_RATE_LIMIT", 10),
		RateLimitWindow:     getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
	}
}

// IsProduction reports whether the service runs in the production environment.
// Debug details are never exposed to clients when it does.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		logrus.Debugf("Using default value for %s", key)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		logrus.Warnf("Invalid value for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		logrus.Warnf("Invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return append([]string(nil), defaultValue...)
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return append([]string(nil), defaultValue...)
	}
	return items
}
