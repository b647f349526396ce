// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// SalesAPIConfig provides settings for the remote sales backend client.
type SalesAPIConfig interface {
	GetSalesAPIBaseURL() string
	GetSalesAPITimeout() time.Duration
}

// InventoryConfig provides settings for the inventory catalog adapter.
type InventoryConfig interface {
	GetInventoryBaseURL() string
	GetInventoryTimeout() time.Duration
	GetInventoryCacheTTL() time.Duration
}

// RedisConfig provides settings for the redis cache and task queue.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the visit reminder scheduler.
// The worker runs without a user session, so it authenticates upstream
// with a dedicated service token.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetVisitReminderLead() time.Duration
	GetSalesAPIServiceToken() string
}

// EmailConfig provides settings for visit notification emails.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
}

// =============================================================================
// Config struct
// =============================================================================

// Config holds all application configuration loaded from the environment.
type Config struct {
	Env      string
	HTTPAddr string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	SalesAPIBaseURL string
	SalesAPITimeout time.Duration

	InventoryBaseURL  string
	InventoryTimeout  time.Duration
	InventoryCacheTTL time.Duration

	RedisURL             string
	RedisTLSInsecure     bool
	AsynqQueueName       string
	VisitReminderLead    time.Duration
	SalesAPIServiceToken string

	EmailEnabled     bool
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	EmailFromName    string
	EmailFromAddress string
}

// Load reads configuration from the environment, with .env support for
// local development. SALES_API_BASE_URL is the only hard requirement.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	salesBase := strings.TrimRight(getEnv("SALES_API_BASE_URL", ""), "/")
	if salesBase == "" {
		return nil, fmt.Errorf("SALES_API_BASE_URL is required")
	}

	// The inventory catalog is usually served by the same host; allow override.
	inventoryBase := strings.TrimRight(getEnv("INVENTORY_BASE_URL", salesBase), "/")

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	smtpHost := getEnv("SMTP_HOST", "")
	emailEnabled := strings.EqualFold(getEnv("EMAIL_ENABLED", "true"), "true")

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		SalesAPIBaseURL:   salesBase,
		SalesAPITimeout:   mustDuration(getEnv("SALES_API_TIMEOUT", "15s")),
		InventoryBaseURL:  inventoryBase,
		InventoryTimeout:  mustDuration(getEnv("INVENTORY_TIMEOUT", "10s")),
		InventoryCacheTTL: mustDuration(getEnv("INVENTORY_CACHE_TTL", "60s")),
		RedisURL:          getEnv("REDIS_URL", ""),
		RedisTLSInsecure:  strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:       getEnv("ASYNQ_QUEUE", "default"),
		VisitReminderLead:    mustDuration(getEnv("VISIT_REMINDER_LEAD", "24h")),
		SalesAPIServiceToken: getEnv("SALES_API_SERVICE_TOKEN", ""),
		EmailEnabled:      emailEnabled && smtpHost != "",
		SMTPHost:          smtpHost,
		SMTPPort:          smtpPort,
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "Sales Desk"),
		EmailFromAddress:  getEnv("EMAIL_FROM_ADDRESS", ""),
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetSalesAPIBaseURL() string        { return c.SalesAPIBaseURL }
func (c *Config) GetSalesAPITimeout() time.Duration { return c.SalesAPITimeout }

func (c *Config) GetInventoryBaseURL() string         { return c.InventoryBaseURL }
func (c *Config) GetInventoryTimeout() time.Duration  { return c.InventoryTimeout }
func (c *Config) GetInventoryCacheTTL() time.Duration { return c.InventoryCacheTTL }

func (c *Config) GetRedisURL() string                 { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool           { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string           { return c.AsynqQueueName }
func (c *Config) GetVisitReminderLead() time.Duration { return c.VisitReminderLead }
func (c *Config) GetSalesAPIServiceToken() string     { return c.SalesAPIServiceToken }

func (c *Config) GetEmailEnabled() bool       { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustDuration(v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
