package config

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"
)

// Config holds all configuration for the report2bq scheduler service.
// Values are loaded from environment variables; see printUsage() for the full list.
type Config struct {
	ProjectID  string `json:"project_id"`
	LocationID string `json:"location_id,omitempty"`

	HTTPAddr  string `json:"http_addr"`
	RedisAddr string `json:"redis_addr,omitempty"`

	// SchedulerEndpoint overrides the Cloud Scheduler API endpoint.
	// Only useful against emulators and test doubles.
	SchedulerEndpoint string `json:"scheduler_endpoint,omitempty"`

	RemoteCallTimeout    time.Duration `json:"-"`
	RemoteCallTimeoutStr string        `json:"remote_call_timeout"`

	HTTPShutdownTimeout    time.Duration `json:"-"`
	HTTPShutdownTimeoutStr string        `json:"http_shutdown_timeout"`

	AuditRetention    time.Duration `json:"-"`
	AuditRetentionStr string        `json:"audit_retention"`

	MetricsEnabled bool   `json:"metrics_enabled"`
	MetricsPath    string `json:"metrics_path"`
	MetricsPort    string `json:"metrics_port"`

	// VerifyTopics enables the pre-create Pub/Sub topic existence check.
	VerifyTopics bool `json:"verify_topics"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	cfg := Config{
		ProjectID:              os.Getenv("PROJECT_ID"),
		LocationID:             os.Getenv("LOCATION_ID"),
		HTTPAddr:               os.Getenv("HTTP_ADDR"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		SchedulerEndpoint:      os.Getenv("SCHEDULER_ENDPOINT"),
		RemoteCallTimeoutStr:   os.Getenv("REMOTE_CALL_TIMEOUT"),
		HTTPShutdownTimeoutStr: os.Getenv("HTTP_SHUTDOWN_TIMEOUT"),
		AuditRetentionStr:      os.Getenv("AUDIT_RETENTION"),
		MetricsEnabled:         os.Getenv("METRICS_ENABLED") == "true",
		MetricsPath:            os.Getenv("METRICS_PATH"),
		MetricsPort:            os.Getenv("METRICS_PORT"),
		VerifyTopics:           os.Getenv("VERIFY_TOPICS") == "true",
	}

	// Support Railway's PORT variable as fallback for HTTP_ADDR.
	if cfg.HTTPAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			cfg.HTTPAddr = ":" + port
		} else {
			cfg.HTTPAddr = ":8080"
		}
	}
	if cfg.RemoteCallTimeoutStr == "" {
		cfg.RemoteCallTimeoutStr = "30s"
	}
	if cfg.HTTPShutdownTimeoutStr == "" {
		cfg.HTTPShutdownTimeoutStr = "10s"
	}
	if cfg.AuditRetentionStr == "" {
		cfg.AuditRetentionStr = "720h" // 30 days
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if cfg.MetricsPort == "" {
		cfg.MetricsPort = "9090"
	}

	// Parse durations; validation is handled separately by Validate().
	if d, err := time.ParseDuration(cfg.RemoteCallTimeoutStr); err == nil {
		cfg.RemoteCallTimeout = d
	}
	if d, err := time.ParseDuration(cfg.HTTPShutdownTimeoutStr); err == nil {
		cfg.HTTPShutdownTimeout = d
	}
	if d, err := time.ParseDuration(cfg.AuditRetentionStr); err == nil {
		cfg.AuditRetention = d
	} else {
		log.Printf("config: invalid AUDIT_RETENTION %q, using default 720h", cfg.AuditRetentionStr)
	}

	return cfg
}

// MaskedJSON returns the configuration as JSON with secrets masked.
func (c Config) MaskedJSON() ([]byte, error) {
	masked := struct {
		ProjectID           string `json:"project_id"`
		LocationID          string `json:"location_id,omitempty"`
		HTTPAddr            string `json:"http_addr"`
		RedisAddr           string `json:"redis_addr,omitempty"`
		SchedulerEndpoint   string `json:"scheduler_endpoint,omitempty"`
		RemoteCallTimeout   string `json:"remote_call_timeout"`
		HTTPShutdownTimeout string `json:"http_shutdown_timeout"`
		AuditRetention      string `json:"audit_retention"`
		MetricsEnabled      bool   `json:"metrics_enabled"`
		MetricsPath         string `json:"metrics_path"`
		MetricsPort         string `json:"metrics_port"`
		VerifyTopics        bool   `json:"verify_topics"`
	}{
		ProjectID:           c.ProjectID,
		LocationID:          c.LocationID,
		HTTPAddr:            c.HTTPAddr,
		RedisAddr:           maskAddr(c.RedisAddr),
		SchedulerEndpoint:   c.SchedulerEndpoint,
		RemoteCallTimeout:   c.RemoteCallTimeoutStr,
		HTTPShutdownTimeout: c.HTTPShutdownTimeoutStr,
		AuditRetention:      c.AuditRetentionStr,
		MetricsEnabled:      c.MetricsEnabled,
		MetricsPath:         c.MetricsPath,
		MetricsPort:         c.MetricsPort,
		VerifyTopics:        c.VerifyTopics,
	}
	return json.MarshalIndent(masked, "", "  ")
}

// maskAddr masks credentials embedded in an address, preserving the URI
// scheme if present.
func maskAddr(s string) string {
	if !strings.Contains(s, "@") {
		return s
	}
	for _, scheme := range []string{"redis://", "rediss://"} {
		if strings.HasPrefix(s, scheme) {
			return scheme + "***"
		}
	}
	return "***"
}
