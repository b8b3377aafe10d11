package domain

// JobState mirrors the managed service's job state enum.
type JobState string

const (
	JobStateEnabled  JobState = "ENABLED"
	JobStatePaused   JobState = "PAUSED"
	JobStateDisabled JobState = "DISABLED"
)

// Job is a scheduler job as reported by the managed service, reduced to
// the fields this service cares about.
type Job struct {
	Name        string // fully qualified: projects/{p}/locations/{l}/jobs/{j}
	Description string

	Schedule string
	Timezone string
	State    JobState

	Topic      string // fully qualified pubsub topic of the target
	Attributes map[string]string
}

// ID returns the short job id (the last segment of Name).
func (j Job) ID() string {
	for i := len(j.Name) - 1; i >= 0; i-- {
		if j.Name[i] == '/' {
			return j.Name[i+1:]
		}
	}
	return j.Name
}

// Email returns the owning user's email attribute, or "".
func (j Job) Email() string {
	return j.Attributes[AttrEmail]
}
