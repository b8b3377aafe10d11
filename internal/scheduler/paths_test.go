package scheduler

import "testing"

func TestPaths(t *testing.T) {
	if got := ProjectPath("acme"); got != "projects/acme" {
		t.Errorf("ProjectPath: got %q", got)
	}
	if got := LocationPath("acme", "us-central1"); got != "projects/acme/locations/us-central1" {
		t.Errorf("LocationPath: got %q", got)
	}
	if got := JobPath("acme", "us-central1", "fetch-dv360-1"); got != "projects/acme/locations/us-central1/jobs/fetch-dv360-1" {
		t.Errorf("JobPath: got %q", got)
	}
	if got := TopicPath("acme", "report2bq-trigger"); got != "projects/acme/topics/report2bq-trigger" {
		t.Errorf("TopicPath: got %q", got)
	}
}
