package jobspec

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/NeoTim/report2bq/internal/domain"
)

// Validate rejects a spec before anything is sent to the remote service.
func Validate(spec domain.JobSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("name is required")
	}

	if err := validateCron(spec.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec.Schedule, err)
	}

	if err := validateTimezone(spec.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", spec.Timezone, err)
	}

	if spec.Topic == "" {
		return fmt.Errorf("topic is required")
	}

	return nil
}

func validateCron(expr string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(expr)
	return err
}

func validateTimezone(tz string) error {
	_, err := time.LoadLocation(tz)
	return err
}
