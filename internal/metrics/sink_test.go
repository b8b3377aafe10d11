package metrics

import (
	"errors"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		want       string
	}{
		// Success codes
		{"200 OK", 200, nil, StatusClass2xx},
		{"204 No Content", 204, nil, StatusClass2xx},
		{"299 boundary", 299, nil, StatusClass2xx},

		// Client errors (code extracted from the decoded API error)
		{"400 Bad Request", 400, nil, StatusClass4xx},
		{"404 Not Found", 404, nil, StatusClass4xx},
		{"404 with error", 404, errors.New("job not found"), StatusClass4xx},
		{"429 Rate Limit", 429, nil, StatusClass4xx},

		// Server errors
		{"500 Internal Server Error", 500, nil, StatusClass5xx},
		{"503 Service Unavailable", 503, nil, StatusClass5xx},
		{"503 with error", 503, errors.New("backend unavailable"), StatusClass5xx},

		// Timeouts
		{"timeout error", 0, errors.New("context deadline exceeded"), StatusClassTimeout},
		{"timeout word", 0, errors.New("request Timeout while waiting"), StatusClassTimeout},

		// Connection errors
		{"connection refused", 0, errors.New("dial tcp: connection refused"), StatusClassConnectionError},
		{"no such host", 0, errors.New("lookup example.com: no such host"), StatusClassConnectionError},

		// Everything else
		{"other error", 0, errors.New("something odd"), StatusClassOtherError},
		{"no code no error", 0, nil, StatusClassOtherError},
		{"1xx", 100, nil, StatusClassOtherError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.statusCode, tt.err)
			if got != tt.want {
				t.Errorf("ClassifyStatus(%d, %v) = %q, want %q", tt.statusCode, tt.err, got, tt.want)
			}
		})
	}
}
