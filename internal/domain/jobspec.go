package domain

// JobSpec is the assembled specification for one scheduler job. It is
// transient: built per create request, submitted to the managed service,
// and never stored locally.
type JobSpec struct {
	Name        string
	Description string

	Schedule string // 5-field cron expression
	Timezone string // IANA timezone, defaults to UTC

	Topic      string // short topic name, expanded to projects/{p}/topics/{t}
	Attributes map[string]string
}
