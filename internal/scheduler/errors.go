package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// APIError is a remote call failure decoded from the service's error body.
type APIError struct {
	Code    int    // HTTP status code
	Status  string // canonical status, e.g. NOT_FOUND
	Message string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("scheduler: %s (%d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("scheduler: remote error (%d): %s", e.Code, e.Message)
}

// decodeError converts googleapi errors into APIError, parsing the error
// body for the canonical status. Anything else passes through unchanged.
func decodeError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	apiErr := &APIError{
		Code:    gerr.Code,
		Message: gerr.Message,
	}

	var body struct {
		Error struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if jsonErr := json.Unmarshal([]byte(gerr.Body), &body); jsonErr == nil {
		apiErr.Status = body.Error.Status
		if apiErr.Message == "" {
			apiErr.Message = body.Error.Message
		}
	}

	return apiErr
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// IsAlreadyExists reports whether err is a remote 409.
func IsAlreadyExists(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}
