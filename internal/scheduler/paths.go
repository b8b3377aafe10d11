package scheduler

import "fmt"

// Resource name helpers for the Cloud Scheduler and Pub/Sub naming
// conventions.

// ProjectPath returns a fully-qualified project string.
func ProjectPath(project string) string {
	return fmt.Sprintf("projects/%s", project)
}

// LocationPath returns a fully-qualified location string.
func LocationPath(project, location string) string {
	return fmt.Sprintf("projects/%s/locations/%s", project, location)
}

// JobPath returns a fully-qualified job string.
func JobPath(project, location, job string) string {
	return fmt.Sprintf("projects/%s/locations/%s/jobs/%s", project, location, job)
}

// TopicPath returns a fully-qualified pubsub topic string.
func TopicPath(project, topic string) string {
	return fmt.Sprintf("projects/%s/topics/%s", project, topic)
}
