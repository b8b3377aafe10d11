package config

import (
	"fmt"
	"strconv"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:", len(e))
	for _, err := range e {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Validate checks the configuration for errors.
// Returns nil if valid, or ValidationErrors if invalid.
func Validate(cfg Config) error {
	var errs ValidationErrors

	// PROJECT_ID is required
	if cfg.ProjectID == "" {
		errs = append(errs, ValidationError{
			Field:   "PROJECT_ID",
			Message: "required",
		})
	}

	errs = appendDurationErrors(errs, "REMOTE_CALL_TIMEOUT", cfg.RemoteCallTimeoutStr)
	errs = appendDurationErrors(errs, "HTTP_SHUTDOWN_TIMEOUT", cfg.HTTPShutdownTimeoutStr)
	errs = appendDurationErrors(errs, "AUDIT_RETENTION", cfg.AuditRetentionStr)

	if cfg.MetricsPort != "" {
		if n, err := strconv.Atoi(cfg.MetricsPort); err != nil || n <= 0 || n > 65535 {
			errs = append(errs, ValidationError{
				Field:   "METRICS_PORT",
				Message: fmt.Sprintf("must be a port number, got %q", cfg.MetricsPort),
			})
		}
	}

	// The topic check needs a project to look in; covered by PROJECT_ID above.

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func appendDurationErrors(errs ValidationErrors, field, value string) ValidationErrors {
	if value == "" {
		return errs
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("invalid duration: %v", err),
		})
	}
	if d <= 0 {
		return append(errs, ValidationError{
			Field:   field,
			Message: "must be positive",
		})
	}
	return errs
}
