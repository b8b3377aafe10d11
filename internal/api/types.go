package api

import "github.com/NeoTim/report2bq/internal/domain"

// CreateJobRequest is the flat parameter set for scheduling a report job.
// Exactly one of sa360_url, sa360_id, adh_customer or report_id selects
// the product.
type CreateJobRequest struct {
	Email       string `json:"email"`
	Description string `json:"description,omitempty"`
	Timezone    string `json:"timezone,omitempty"` // default UTC

	Hour   string `json:"hour,omitempty"`   // default depends on product
	Minute string `json:"minute,omitempty"` // default random

	Force       bool `json:"force,omitempty"`
	InferSchema bool `json:"infer_schema,omitempty"`
	Append      bool `json:"append,omitempty"`

	ReportID string `json:"report_id,omitempty"`
	Profile  string `json:"profile,omitempty"` // switches the job to CM
	Runner   bool   `json:"runner,omitempty"`  // switches fetch to run

	SA360URL string `json:"sa360_url,omitempty"`
	SA360ID  string `json:"sa360_id,omitempty"`

	ADHCustomer string `json:"adh_customer,omitempty"`
	ADHQuery    string `json:"adh_query,omitempty"`
	APIKey      string `json:"api_key,omitempty"`
	Days        string `json:"days,omitempty"`
}

type JobResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Schedule    string            `json:"schedule"`
	Timezone    string            `json:"timezone"`
	State       string            `json:"state,omitempty"`
	Topic       string            `json:"topic,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

type ListJobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func jobResponse(job domain.Job) JobResponse {
	return JobResponse{
		ID:          job.ID(),
		Name:        job.Name,
		Description: job.Description,
		Schedule:    job.Schedule,
		Timezone:    job.Timezone,
		State:       string(job.State),
		Topic:       job.Topic,
		Attributes:  job.Attributes,
	}
}
