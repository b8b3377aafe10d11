package scheduler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestDecodeError_GoogleAPI(t *testing.T) {
	gerr := &googleapi.Error{
		Code:    http.StatusForbidden,
		Message: "The caller does not have permission",
		Body:    `{"error": {"code": 403, "message": "The caller does not have permission", "status": "PERMISSION_DENIED"}}`,
	}

	err := decodeError(gerr)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Code != http.StatusForbidden {
		t.Errorf("expected code 403, got %d", apiErr.Code)
	}
	if apiErr.Status != "PERMISSION_DENIED" {
		t.Errorf("expected status PERMISSION_DENIED, got %q", apiErr.Status)
	}
	if apiErr.Message != "The caller does not have permission" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestDecodeError_BodyMessageFallback(t *testing.T) {
	gerr := &googleapi.Error{
		Code: http.StatusBadRequest,
		Body: `{"error": {"code": 400, "message": "Schedule is malformed.", "status": "INVALID_ARGUMENT"}}`,
	}

	err := decodeError(gerr)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Message != "Schedule is malformed." {
		t.Errorf("expected message from body, got %q", apiErr.Message)
	}
}

func TestDecodeError_MalformedBody(t *testing.T) {
	gerr := &googleapi.Error{
		Code:    http.StatusInternalServerError,
		Message: "backend error",
		Body:    "<html>not json</html>",
	}

	err := decodeError(gerr)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.Status != "" {
		t.Errorf("expected empty status for undecodable body, got %q", apiErr.Status)
	}
	if apiErr.Message != "backend error" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestDecodeError_PassThrough(t *testing.T) {
	plain := fmt.Errorf("dial tcp: connection refused")

	if got := decodeError(plain); got != plain {
		t.Errorf("expected pass-through, got %v", got)
	}
	if decodeError(nil) != nil {
		t.Error("expected nil for nil")
	}
}

func TestIsNotFound(t *testing.T) {
	if IsNotFound(fmt.Errorf("plain")) {
		t.Error("plain error must not be not-found")
	}
	if !IsNotFound(&APIError{Code: http.StatusNotFound}) {
		t.Error("404 APIError must be not-found")
	}
	if IsNotFound(&APIError{Code: http.StatusConflict}) {
		t.Error("409 APIError must not be not-found")
	}
	wrapped := fmt.Errorf("get job: %w", &APIError{Code: http.StatusNotFound})
	if !IsNotFound(wrapped) {
		t.Error("wrapped 404 must be not-found")
	}
}
