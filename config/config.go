package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"5000"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`
	// Twilio credentials. Sender and recipient never come from the request.
	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
	TargetPhone       string `env:"TARGET_PHONE"`
	// Outbound SMS limits. A zero rate leaves sends unthrottled.
	SMSTimeout       time.Duration `env:"SMS_TIMEOUT" envDefault:"10s"`
	SMSRatePerSecond float64       `env:"SMS_RATE_PER_SECOND" envDefault:"0"`
	SMSBurst         int           `env:"SMS_BURST" envDefault:"1"`
	// Optional first line of every SMS, e.g. "📩 New Contact Request"
	SMSMessageHeader string `env:"SMS_MESSAGE_HEADER"`
	// Rate Limiting Configuration
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX" envDefault:"6"`
	// Redis Configuration (shared limiter counters across replicas)
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	// HTTP ingress
	MaxBodyBytes   int64    `env:"MAX_BODY_BYTES" envDefault:"102400"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

func LoadConfig() (*Config, error) {
	// Only effective locally; in production the file is usually absent.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Port = strings.TrimSpace(cfg.Port)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory counters.")
	}

	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Port == "" {
		errs = append(errs, errors.New("PORT must not be empty"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}
	if c.SMSTimeout <= 0 {
		errs = append(errs, errors.New("SMS_TIMEOUT must be positive"))
	}
	if c.SMSRatePerSecond < 0 {
		errs = append(errs, errors.New("SMS_RATE_PER_SECOND must not be negative"))
	}
	if c.SMSRatePerSecond > 0 && c.SMSBurst <= 0 {
		errs = append(errs, errors.New("SMS_BURST must be positive when SMS_RATE_PER_SECOND is set"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// MissingProviderSettings returns the env keys of provider settings that are unset.
func (c *Config) MissingProviderSettings() []string {
	var missing []string
	if c.TwilioAccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.TwilioAuthToken == "" {
		missing = append(missing, "TWILIO_AUTH_TOKEN")
	}
	if c.TwilioPhoneNumber == "" {
		missing = append(missing, "TWILIO_PHONE_NUMBER")
	}
	if c.TargetPhone == "" {
		missing = append(missing, "TARGET_PHONE")
	}
	return missing
}

// ProviderConfigured reports whether every provider setting is present.
func (c *Config) ProviderConfigured() bool {
	return len(c.MissingProviderSettings()) == 0
}
