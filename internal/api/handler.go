package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NeoTim/report2bq/internal/audit"
	"github.com/NeoTim/report2bq/internal/domain"
	"github.com/NeoTim/report2bq/internal/jobspec"
	"github.com/NeoTim/report2bq/internal/metrics"
	"github.com/NeoTim/report2bq/internal/scheduler"
)

// SchedulerAPI is the slice of the scheduler client the handlers need.
type SchedulerAPI interface {
	ListJobs(ctx context.Context, email string) ([]domain.Job, error)
	GetJob(ctx context.Context, jobID string) (domain.Job, error)
	CreateJob(ctx context.Context, spec domain.JobSpec) (domain.Job, error)
	DeleteJob(ctx context.Context, jobID string) error
	EnableJob(ctx context.Context, jobID string, enable bool) error
}

// HealthPinger provides Redis health status for the /health endpoint.
type HealthPinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	sched   SchedulerAPI
	project string
	trail   audit.Trail
	sink    metrics.Sink
	redis   HealthPinger
}

func NewHandler(sched SchedulerAPI, project string) *Handler {
	return &Handler{
		sched:   sched,
		project: project,
		trail:   audit.NoopTrail{},
		sink:    metrics.NewNoopSink(),
	}
}

// WithAudit sets the audit trail for mutating operations.
func (h *Handler) WithAudit(trail audit.Trail) *Handler {
	h.trail = trail
	return h
}

// WithMetrics sets the metrics sink.
func (h *Handler) WithMetrics(sink metrics.Sink) *Handler {
	h.sink = sink
	return h
}

// WithHealthPinger sets the Redis pinger for verbose /health responses.
func (h *Handler) WithHealthPinger(p HealthPinger) *Handler {
	h.redis = p
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/health" && r.Method == http.MethodGet:
		h.health(w, r)

	case path == "/jobs" && r.Method == http.MethodPost:
		h.createJob(w, r)

	case path == "/jobs" && r.Method == http.MethodGet:
		h.listJobs(w, r)

	case strings.HasSuffix(path, "/enable") && r.Method == http.MethodPost:
		h.enableJob(w, r, true)

	case strings.HasSuffix(path, "/disable") && r.Method == http.MethodPost:
		h.enableJob(w, r, false)

	case strings.HasPrefix(path, "/jobs/") && r.Method == http.MethodGet:
		h.getJob(w, r)

	case strings.HasPrefix(path, "/jobs/") && r.Method == http.MethodDelete:
		h.deleteJob(w, r)

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// HealthResponse represents the /health endpoint response.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	verbose := r.URL.Query().Get("verbose") == "true"

	if !verbose || h.redis == nil {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
		return
	}

	resp := HealthResponse{
		Status:     "ok",
		Components: make(map[string]string),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.redis.Ping(ctx); err != nil {
		resp.Status = "degraded"
		resp.Components["redis"] = "unhealthy: " + err.Error()
	} else {
		resp.Components["redis"] = "healthy"
	}

	statusCode := http.StatusOK
	if resp.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, statusCode, resp)
}

// maxRequestBodySize is the maximum allowed request body size (1MB).
const maxRequestBodySize = 1 << 20

func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	params := jobspec.Params{
		Email:       req.Email,
		Project:     h.project,
		Description: req.Description,
		Timezone:    req.Timezone,
		Hour:        req.Hour,
		Minute:      req.Minute,
		Force:       req.Force,
		InferSchema: req.InferSchema,
		Append:      req.Append,
		ReportID:    req.ReportID,
		Profile:     req.Profile,
		Runner:      req.Runner,
		SA360URL:    req.SA360URL,
		SA360ID:     req.SA360ID,
		ADHCustomer: req.ADHCustomer,
		ADHQuery:    req.ADHQuery,
		APIKey:      req.APIKey,
		Days:        req.Days,
	}

	spec, err := params.Build()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.sink.SpecBuilt(spec.Attributes[domain.AttrType])

	job, err := h.sched.CreateJob(r.Context(), spec)
	if err != nil {
		log.Printf("api: [%s] create job %s: %v", reqID, spec.Name, err)
		if scheduler.IsAlreadyExists(err) {
			writeError(w, http.StatusConflict, fmt.Sprintf("job %s already exists", spec.Name))
			return
		}
		writeRemoteError(w, err, "failed to create job")
		return
	}

	h.recordAudit(r.Context(), reqID, req.Email, audit.ActionCreated, job.ID())

	writeJSON(w, http.StatusCreated, jobResponse(job))
}

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	jobs, err := h.sched.ListJobs(r.Context(), email)
	if err != nil {
		log.Printf("api: list jobs: %v", err)
		writeRemoteError(w, err, "failed to list jobs")
		return
	}

	if r.URL.Query().Get("format") == "html" {
		writeJobsHTML(w, jobs)
		return
	}

	resp := ListJobsResponse{Jobs: make([]JobResponse, len(jobs))}
	for i, job := range jobs {
		resp.Jobs[i] = jobResponse(job)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := jobIDFromPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	job, err := h.sched.GetJob(r.Context(), jobID)
	if err != nil {
		log.Printf("api: get job %s: %v", jobID, err)
		if scheduler.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeRemoteError(w, err, "failed to get job")
		return
	}

	writeJSON(w, http.StatusOK, jobResponse(job))
}

func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()

	jobID, ok := jobIDFromPath(r.URL.Path)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.sched.DeleteJob(r.Context(), jobID); err != nil {
		log.Printf("api: [%s] delete job %s: %v", reqID, jobID, err)
		if scheduler.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeRemoteError(w, err, "failed to delete job")
		return
	}

	h.recordAudit(r.Context(), reqID, r.URL.Query().Get("email"), audit.ActionDeleted, jobID)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) enableJob(w http.ResponseWriter, r *http.Request, enable bool) {
	reqID := uuid.NewString()

	// Path: /jobs/{id}/enable or /jobs/{id}/disable
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "jobs" || parts[1] == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	jobID := parts[1]

	if err := h.sched.EnableJob(r.Context(), jobID, enable); err != nil {
		log.Printf("api: [%s] enable=%t job %s: %v", reqID, enable, jobID, err)
		if scheduler.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "job not found")
			return
		}
		writeRemoteError(w, err, "failed to update job state")
		return
	}

	action := audit.ActionResumed
	if !enable {
		action = audit.ActionPaused
	}
	h.recordAudit(r.Context(), reqID, r.URL.Query().Get("email"), action, jobID)

	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// recordAudit writes a trail entry; failures are logged and counted, never
// surfaced to the caller.
func (h *Handler) recordAudit(ctx context.Context, reqID, actor, action, jobID string) {
	entry := audit.Entry{
		ID:     reqID,
		Actor:  actor,
		Action: action,
		Job:    jobID,
	}
	if err := h.trail.Record(ctx, entry); err != nil {
		log.Printf("api: [%s] audit write: %v", reqID, err)
		h.sink.AuditWriteError()
	}
}

// jobIDFromPath extracts the job id from /jobs/{id}.
func jobIDFromPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] != "jobs" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// writeJobsHTML renders the list the way the dashboard consumes it: one
// line per job, description or a placeholder.
func writeJobsHTML(w http.ResponseWriter, jobs []domain.Job) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	var sb strings.Builder
	for _, job := range jobs {
		description := job.Description
		if description == "" {
			description = "No description."
		}
		sb.WriteString(job.Name)
		sb.WriteString(": ")
		sb.WriteString(description)
		sb.WriteString("<br/>")
	}
	if _, err := w.Write([]byte(sb.String())); err != nil {
		log.Printf("api: html write: %v", err)
	}
}

// writeRemoteError surfaces a decoded remote error's status and message;
// anything else becomes a generic 500.
func writeRemoteError(w http.ResponseWriter, err error, fallback string) {
	var apiErr *scheduler.APIError
	if errors.As(err, &apiErr) && apiErr.Code >= 400 {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		writeError(w, apiErr.Code, msg)
		return
	}
	writeError(w, http.StatusInternalServerError, fallback)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: json encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
