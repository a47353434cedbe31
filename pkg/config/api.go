package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// APIConfig configures cmd/api.
type APIConfig struct {
	HTTPAddr          string
	SeedFile          string
	LogLevel          string
	LogFormat         string
	QueryCacheTTL     time.Duration
	WriteRateLimit    float64 // write requests per second; 0 disables limiting
	WriteRateBurst    int
	ShutdownTimeout   time.Duration
	AdminResetEnabled bool
	TracingStdout     bool
	Version           string
	// CORSAllowedOrigins is a comma-separated origin whitelist. Empty disables CORS.
	CORSAllowedOrigins string
	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers identify the client. Empty means clients are identified by
	// their TCP address only.
	TrustedProxies []netip.Prefix
}

// LoadAPIConfig reads APIConfig from the environment and validates it.
//
// Variables and defaults:
//
//	HTTP_ADDR            :8080
//	SEED_FILE            (none)
//	LOG_LEVEL            info
//	LOG_FORMAT           json
//	QUERY_CACHE_TTL      30s
//	WRITE_RATE_LIMIT     20
//	WRITE_RATE_BURST     40
//	SHUTDOWN_TIMEOUT     5s
//	ADMIN_RESET_ENABLED  false
//	TRACING_STDOUT       false
//	VERSION              dev
//	CORS_ALLOWED_ORIGINS (none)
//	TRUSTED_PROXY_CIDRS  (none)
func LoadAPIConfig() (*APIConfig, error) {
	cfg := &APIConfig{
		HTTPAddr:          GetEnvString("HTTP_ADDR", ":8080"),
		SeedFile:          GetEnvString("SEED_FILE", ""),
		LogLevel:          GetEnvString("LOG_LEVEL", "info"),
		LogFormat:         strings.ToLower(GetEnvString("LOG_FORMAT", "json")),
		QueryCacheTTL:     GetEnvDuration("QUERY_CACHE_TTL", 30*time.Second),
		WriteRateLimit:    GetEnvFloat("WRITE_RATE_LIMIT", 20),
		WriteRateBurst:    GetEnvInt("WRITE_RATE_BURST", 40),
		ShutdownTimeout:   GetEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
		AdminResetEnabled: GetEnvBool("ADMIN_RESET_ENABLED", false),
		TracingStdout:     GetEnvBool("TRACING_STDOUT", false),
		Version:           GetEnvString("VERSION", "dev"),

		CORSAllowedOrigins: GetEnvString("CORS_ALLOWED_ORIGINS", ""),
	}
	proxies, proxyErr := ParseTrustedProxies(GetEnvString("TRUSTED_PROXY_CIDRS", ""))
	if proxyErr != nil {
		proxyErr = fmt.Errorf("TRUSTED_PROXY_CIDRS: %w", proxyErr)
	}
	cfg.TrustedProxies = proxies

	if err := errors.Join(proxyErr, cfg.Validate()); err != nil {
		return nil, fmt.Errorf("invalid api config: %w", err)
	}
	return cfg, nil
}

// Validate checks the invariants LoadAPIConfig cannot repair on its own.
// All violations are reported together.
func (c *APIConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.HTTPAddr) == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}
	if err := ValidatePositiveDuration(c.QueryCacheTTL); err != nil {
		errs = append(errs, fmt.Errorf("QUERY_CACHE_TTL: %w", err))
	}
	if err := ValidateDurationRange(c.ShutdownTimeout, 100*time.Millisecond, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err))
	}
	if c.WriteRateLimit < 0 {
		errs = append(errs, fmt.Errorf("WRITE_RATE_LIMIT must not be negative, got %v", c.WriteRateLimit))
	}
	if c.WriteRateLimit > 0 && c.WriteRateBurst < 1 {
		errs = append(errs, fmt.Errorf("WRITE_RATE_BURST must be at least 1, got %d", c.WriteRateBurst))
	}
	return errors.Join(errs...)
}
