package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NeoTim/report2bq/internal/domain"
	"github.com/NeoTim/report2bq/internal/scheduler"
)

func TestJobIDFromPath(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{"/jobs/fetch-dv360-1", "fetch-dv360-1", true},
		{"/jobs/fetch-dv360-1/", "fetch-dv360-1", true},
		{"/jobs/", "", false},
		{"/jobs", "", false},
		{"/other/fetch-dv360-1", "", false},
		{"/jobs/a/b", "", false},
	}

	for _, tt := range tests {
		id, ok := jobIDFromPath(tt.path)
		if ok != tt.wantOK || id != tt.wantID {
			t.Errorf("jobIDFromPath(%q) = (%q, %t), want (%q, %t)", tt.path, id, ok, tt.wantID, tt.wantOK)
		}
	}
}

func TestWriteJobsHTML(t *testing.T) {
	jobs := []domain.Job{
		{Name: "projects/p/locations/l/jobs/fetch-dv360-1", Description: "daily fetch"},
		{Name: "projects/p/locations/l/jobs/run-cm-2"},
	}

	rec := httptest.NewRecorder()
	writeJobsHTML(rec, jobs)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "projects/p/locations/l/jobs/fetch-dv360-1: daily fetch<br/>") {
		t.Errorf("missing described job line, got %q", body)
	}
	if !strings.Contains(body, "projects/p/locations/l/jobs/run-cm-2: No description.<br/>") {
		t.Errorf("missing placeholder description, got %q", body)
	}
}

func TestWriteRemoteError_SurfacesAPIError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRemoteError(rec, &scheduler.APIError{Code: http.StatusForbidden, Status: "PERMISSION_DENIED", Message: "nope"}, "fallback")

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "nope") {
		t.Errorf("expected remote message surfaced, got %q", rec.Body.String())
	}
}

func TestWriteRemoteError_GenericFallback(t *testing.T) {
	rec := httptest.NewRecorder()
	writeRemoteError(rec, fmt.Errorf("dial tcp: connection refused"), "failed to list jobs")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "failed to list jobs") {
		t.Errorf("expected fallback message, got %q", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("internal error detail must not leak to the caller")
	}
}
