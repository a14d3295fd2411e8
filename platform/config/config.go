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

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// AdminAuthConfig provides settings for the dashboard sign-in.
type AdminAuthConfig interface {
	JWTConfig
	GetAdminEmail() string
	GetAdminPasswordHash() string
	GetAccessTokenTTL() time.Duration
	IsAdminAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides settings for public endpoint throttling.
type RateLimitConfig interface {
	GetPublicRatePerMinute() float64
	GetPublicRateBurst() int
}

// AddressConfig provides settings for the postal code lookup service.
type AddressConfig interface {
	GetAddressServiceURL() string
	GetAddressLookupTimeout() time.Duration
	GetAddressLookupRetries() int
	GetAddressLookupRetryDelay() time.Duration
	GetAddressCacheTTL() time.Duration
}

// SessionConfig provides settings for simulator session storage.
type SessionConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
	GetSessionCookieName() string
	GetSessionCookieSecure() bool
}

// QualificationConfig provides the business constants used for sizing.
type QualificationConfig interface {
	GetPricePerKWh() float64
	GetDeratingFactor() float64
	GetDefaultHSP() float64
	GetHSPTablePath() string
	GetMinimumBill() float64
	GetSinglePhaseWarningBill() float64
	GetSavingsRate() float64
}

// MessagingConfig provides settings for the outreach deep link.
type MessagingConfig interface {
	GetWhatsAppDeepLinkBase() string
}

// WhatsAppConfig provides settings for the GOWA WhatsApp gateway.
type WhatsAppConfig interface {
	GetWhatsAppURL() string
	GetWhatsAppKey() string
	GetWhatsAppDeviceID() string
}

// SchedulerConfig provides settings for the asynq task queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetOutreachDelay() time.Duration
}

// EmailConfig provides settings for the sales notification e-mail.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetSalesInbox() string
	IsEmailEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                     string
	HTTPAddr                string
	DatabaseURL             string
	JWTAccessSecret         string
	AccessTokenTTL          time.Duration
	AdminEmail              string
	AdminPasswordHash       string
	CORSAllowAll            bool
	CORSOrigins             []string
	CORSAllowCreds          bool
	PublicRatePerMinute     float64
	PublicRateBurst         int
	AddressServiceURL       string
	AddressLookupTimeout    time.Duration
	AddressLookupRetries    int
	AddressLookupRetryDelay time.Duration
	AddressCacheTTL         time.Duration
	RedisURL                string
	RedisTLSInsecure        bool
	SessionTTL              time.Duration
	SessionCookieName       string
	SessionCookieSecure     bool
	PricePerKWh             float64
	DeratingFactor          float64
	DefaultHSP              float64
	HSPTablePath            string
	MinimumBill             float64
	SinglePhaseWarningBill  float64
	SavingsRate             float64
	WhatsAppDeepLinkBase    string
	WhatsAppURL             string
	WhatsAppKey             string
	WhatsAppDeviceID        string
	AsynqQueueName          string
	AsynqConcurrency        int
	OutreachDelay           time.Duration
	SMTPHost                string
	SMTPPort                int
	SMTPUsername            string
	SMTPPassword            string
	EmailFromName           string
	EmailFromAddress        string
	SalesInbox              string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// AdminAuthConfig implementation
func (c *Config) GetAdminEmail() string            { return c.AdminEmail }
func (c *Config) GetAdminPasswordHash() string     { return c.AdminPasswordHash }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }
func (c *Config) IsAdminAuthEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != "" && c.JWTAccessSecret != ""
}

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetPublicRatePerMinute() float64 { return c.PublicRatePerMinute }
func (c *Config) GetPublicRateBurst() int         { return c.PublicRateBurst }

// AddressConfig implementation
func (c *Config) GetAddressServiceURL() string              { return c.AddressServiceURL }
func (c *Config) GetAddressLookupTimeout() time.Duration    { return c.AddressLookupTimeout }
func (c *Config) GetAddressLookupRetries() int              { return c.AddressLookupRetries }
func (c *Config) GetAddressLookupRetryDelay() time.Duration { return c.AddressLookupRetryDelay }
func (c *Config) GetAddressCacheTTL() time.Duration         { return c.AddressCacheTTL }

// SessionConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }
func (c *Config) GetSessionCookieName() string { return c.SessionCookieName }
func (c *Config) GetSessionCookieSecure() bool { return c.SessionCookieSecure }
func (c *Config) GetRedisTLSInsecure() bool    { return c.RedisTLSInsecure }

// QualificationConfig implementation
func (c *Config) GetPricePerKWh() float64            { return c.PricePerKWh }
func (c *Config) GetDeratingFactor() float64         { return c.DeratingFactor }
func (c *Config) GetDefaultHSP() float64             { return c.DefaultHSP }
func (c *Config) GetHSPTablePath() string            { return c.HSPTablePath }
func (c *Config) GetMinimumBill() float64            { return c.MinimumBill }
func (c *Config) GetSinglePhaseWarningBill() float64 { return c.SinglePhaseWarningBill }
func (c *Config) GetSavingsRate() float64            { return c.SavingsRate }

// MessagingConfig implementation
func (c *Config) GetWhatsAppDeepLinkBase() string { return c.WhatsAppDeepLinkBase }

// WhatsAppConfig implementation
func (c *Config) GetWhatsAppURL() string      { return c.WhatsAppURL }
func (c *Config) GetWhatsAppKey() string      { return c.WhatsAppKey }
func (c *Config) GetWhatsAppDeviceID() string { return c.WhatsAppDeviceID }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string       { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int        { return c.AsynqConcurrency }
func (c *Config) GetOutreachDelay() time.Duration { return c.OutreachDelay }

// EmailConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetSalesInbox() string       { return c.SalesInbox }
func (c *Config) IsEmailEnabled() bool {
	return c.SMTPHost != "" && c.SalesInbox != "" && c.EmailFromAddress != ""
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	env := getEnv("APP_ENV", "development")
	cookieSecure := strings.EqualFold(getEnv("SESSION_COOKIE_SECURE", ""), "true")
	if getEnv("SESSION_COOKIE_SECURE", "") == "" {
		cookieSecure = strings.EqualFold(env, "production")
	}

	cfg := &Config{
		Env:                     env,
		HTTPAddr:                getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		JWTAccessSecret:         getEnv("JWT_ACCESS_SECRET", ""),
		AccessTokenTTL:          mustDuration(getEnv("JWT_ACCESS_TTL", "12h")),
		AdminEmail:              strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", ""))),
		AdminPasswordHash:       getEnv("ADMIN_PASSWORD_HASH", ""),
		CORSAllowAll:            corsAllowAll,
		CORSOrigins:             corsOrigins,
		CORSAllowCreds:          strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		PublicRatePerMinute:     mustFloat(getEnv("PUBLIC_RATE_PER_MINUTE", "60")),
		PublicRateBurst:         mustInt(getEnv("PUBLIC_RATE_BURST", "20")),
		AddressServiceURL:       getEnv("ADDRESS_SERVICE_URL", "https://viacep.com.br/ws/{cep}/json/"),
		AddressLookupTimeout:    mustDuration(getEnv("ADDRESS_LOOKUP_TIMEOUT", "5s")),
		AddressLookupRetries:    mustInt(getEnv("ADDRESS_LOOKUP_RETRIES", "2")),
		AddressLookupRetryDelay: mustDuration(getEnv("ADDRESS_LOOKUP_RETRY_DELAY", "1s")),
		AddressCacheTTL:         mustDuration(getEnv("ADDRESS_CACHE_TTL", "24h")),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisTLSInsecure:        strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		SessionTTL:              mustDuration(getEnv("SESSION_TTL", "168h")),
		SessionCookieName:       getEnv("SESSION_COOKIE_NAME", "simulador_session"),
		SessionCookieSecure:     cookieSecure,
		PricePerKWh:             mustFloat(getEnv("QUALIFICATION_PRICE_PER_KWH", "0.65")),
		DeratingFactor:          mustFloat(getEnv("QUALIFICATION_DERATING_FACTOR", "0.80")),
		DefaultHSP:              mustFloat(getEnv("QUALIFICATION_DEFAULT_HSP", "5.0")),
		HSPTablePath:            getEnv("HSP_TABLE_PATH", ""),
		MinimumBill:             mustFloat(getEnv("QUALIFICATION_MINIMUM_BILL", "150")),
		SinglePhaseWarningBill:  mustFloat(getEnv("QUALIFICATION_SINGLE_PHASE_WARNING_BILL", "250")),
		SavingsRate:             mustFloat(getEnv("QUALIFICATION_SAVINGS_RATE", "0.9")),
		WhatsAppDeepLinkBase:    getEnv("WHATSAPP_DEEP_LINK_BASE", "https://wa.me"),
		WhatsAppURL:             getEnv("WHATSAPP_URL", ""),
		WhatsAppKey:             getEnv("WHATSAPP_KEY", ""),
		WhatsAppDeviceID:        getEnv("WHATSAPP_DEVICE_ID", ""),
		AsynqQueueName:          getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:        mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
		OutreachDelay:           mustDuration(getEnv("OUTREACH_DELAY", "2m")),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		EmailFromName:           getEnv("EMAIL_FROM_NAME", "Simulador Solar"),
		EmailFromAddress:        getEnv("EMAIL_FROM_ADDRESS", ""),
		SalesInbox:              getEnv("SALES_INBOX", ""),
	}

	if cfg.AdminEmail != "" && cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required when ADMIN_EMAIL is set")
	}
	if cfg.AdminEmail != "" && cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is required when ADMIN_EMAIL is set")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.PricePerKWh <= 0 || cfg.DeratingFactor <= 0 || cfg.DefaultHSP <= 0 {
		return nil, fmt.Errorf("qualification constants must be positive")
	}
	if cfg.AddressLookupTimeout <= 0 {
		cfg.AddressLookupTimeout = 5 * time.Second
	}
	if cfg.AddressLookupRetries < 0 {
		cfg.AddressLookupRetries = 0
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
