// Package scheduler wraps the Cloud Scheduler admin API. Persistence,
// triggering, retry and delivery all live in the managed service; this
// client only configures and queries jobs.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"google.golang.org/api/cloudscheduler/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/NeoTim/report2bq/internal/domain"
	"github.com/NeoTim/report2bq/internal/metrics"
)

// Config holds the client's settings.
type Config struct {
	Project string

	// Location pins the scheduler region. When empty the client lists the
	// project's locations once and uses the last one.
	Location string

	// CallTimeout bounds each remote call. Defaults to 30s.
	CallTimeout time.Duration
}

// TopicChecker reports whether a pubsub topic exists in the project.
// Used as an optional preflight before creating a job.
type TopicChecker interface {
	TopicExists(ctx context.Context, topic string) (bool, error)
}

// Client is a thin wrapper over the Cloud Scheduler admin API.
// Safe for concurrent use.
type Client struct {
	svc         *cloudscheduler.Service
	project     string
	callTimeout time.Duration
	sink        metrics.Sink
	topics      TopicChecker

	mu       sync.Mutex
	location string // cached once resolved
}

// New builds a client. Credentials resolve through Application Default
// Credentials unless overridden via opts (tests pass option.WithEndpoint
// and option.WithoutAuthentication).
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.Project == "" {
		return nil, fmt.Errorf("scheduler: project is required")
	}

	svc, err := cloudscheduler.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("scheduler: build service: %w", err)
	}

	timeout := cfg.CallTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		svc:         svc,
		project:     cfg.Project,
		location:    cfg.Location,
		callTimeout: timeout,
		sink:        metrics.NewNoopSink(),
	}, nil
}

// WithMetrics sets the metrics sink.
func (c *Client) WithMetrics(sink metrics.Sink) *Client {
	c.sink = sink
	return c
}

// WithTopicChecker enables the pre-create topic existence check.
func (c *Client) WithTopicChecker(tc TopicChecker) *Client {
	c.topics = tc
	return c
}

// ListLocations returns the location ids available to the project,
// aggregating all pages.
func (c *Client) ListLocations(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var locations []string
	token := ""
	for {
		start := time.Now()
		resp, err := c.svc.Projects.Locations.List(ProjectPath(c.project)).
			PageToken(token).
			Context(ctx).
			Do()
		c.observe(metrics.MethodLocationsList, start, err)
		if err != nil {
			return nil, decodeError(err)
		}

		for _, loc := range resp.Locations {
			locations = append(locations, loc.LocationId)
		}

		if resp.NextPageToken == "" {
			return locations, nil
		}
		token = resp.NextPageToken
	}
}

// ListJobs returns all jobs in the project's location, aggregating all
// pages. When email is non-empty only jobs whose pubsub target carries a
// matching email attribute are returned.
func (c *Client) ListJobs(ctx context.Context, email string) ([]domain.Job, error) {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	var jobs []domain.Job
	token := ""
	for {
		start := time.Now()
		resp, err := c.svc.Projects.Locations.Jobs.List(LocationPath(c.project, location)).
			PageToken(token).
			Context(ctx).
			Do()
		c.observe(metrics.MethodJobsList, start, err)
		if err != nil {
			return nil, decodeError(err)
		}

		for _, j := range resp.Jobs {
			job := jobFromAPI(j)
			if email != "" && job.Email() != email {
				continue
			}
			jobs = append(jobs, job)
		}

		if resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
	}

	c.sink.JobsListed(len(jobs))
	return jobs, nil
}

// GetJob fetches a single job by its short id.
func (c *Client) GetJob(ctx context.Context, jobID string) (domain.Job, error) {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return domain.Job{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	j, err := c.svc.Projects.Locations.Jobs.Get(JobPath(c.project, location, jobID)).
		Context(ctx).
		Do()
	c.observe(metrics.MethodJobsGet, start, err)
	if err != nil {
		return domain.Job{}, decodeError(err)
	}

	return jobFromAPI(j), nil
}

// CreateJob submits a new job built from the spec. The pubsub topic name
// is expanded to its fully-qualified form.
func (c *Client) CreateJob(ctx context.Context, spec domain.JobSpec) (domain.Job, error) {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return domain.Job{}, err
	}

	if c.topics != nil {
		exists, err := c.topics.TopicExists(ctx, spec.Topic)
		switch {
		case err != nil:
			// The check is advisory; the scheduler accepts jobs for
			// topics it cannot see anyway.
			log.Printf("scheduler: topic check for %q failed: %v", spec.Topic, err)
		case !exists:
			return domain.Job{}, fmt.Errorf("scheduler: target topic %q does not exist", spec.Topic)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	job := &cloudscheduler.Job{
		Name:        JobPath(c.project, location, spec.Name),
		Description: spec.Description,
		Schedule:    spec.Schedule,
		TimeZone:    spec.Timezone,
		PubsubTarget: &cloudscheduler.PubsubTarget{
			TopicName:  TopicPath(c.project, spec.Topic),
			Attributes: spec.Attributes,
		},
	}

	start := time.Now()
	created, err := c.svc.Projects.Locations.Jobs.Create(LocationPath(c.project, location), job).
		Context(ctx).
		Do()
	c.observe(metrics.MethodJobsCreate, start, err)
	if err != nil {
		return domain.Job{}, decodeError(err)
	}

	return jobFromAPI(created), nil
}

// DeleteJob removes a job by its short id.
func (c *Client) DeleteJob(ctx context.Context, jobID string) error {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	_, err = c.svc.Projects.Locations.Jobs.Delete(JobPath(c.project, location, jobID)).
		Context(ctx).
		Do()
	c.observe(metrics.MethodJobsDelete, start, err)
	return decodeError(err)
}

// EnableJob resumes the job when enable is true, pauses it otherwise.
func (c *Client) EnableJob(ctx context.Context, jobID string, enable bool) error {
	location, err := c.resolveLocation(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	name := JobPath(c.project, location, jobID)
	start := time.Now()
	if enable {
		_, err = c.svc.Projects.Locations.Jobs.Resume(name, &cloudscheduler.ResumeJobRequest{}).
			Context(ctx).
			Do()
		c.observe(metrics.MethodJobsResume, start, err)
	} else {
		_, err = c.svc.Projects.Locations.Jobs.Pause(name, &cloudscheduler.PauseJobRequest{}).
			Context(ctx).
			Do()
		c.observe(metrics.MethodJobsPause, start, err)
	}
	return decodeError(err)
}

// resolveLocation returns the configured location, or resolves and caches
// the project's last listed location.
func (c *Client) resolveLocation(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.location != "" {
		return c.location, nil
	}

	locations, err := c.ListLocations(ctx)
	if err != nil {
		return "", fmt.Errorf("scheduler: resolve location: %w", err)
	}
	if len(locations) == 0 {
		return "", fmt.Errorf("scheduler: project %s has no scheduler locations", c.project)
	}

	c.location = locations[len(locations)-1]
	log.Printf("scheduler: resolved location %s for project %s", c.location, c.project)
	return c.location, nil
}

func (c *Client) observe(method string, start time.Time, err error) {
	code := 0
	if err == nil {
		code = 200
	} else {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			code = gerr.Code
		}
	}
	c.sink.RemoteCallCompleted(method, metrics.ClassifyStatus(code, err), time.Since(start))
}

func jobFromAPI(j *cloudscheduler.Job) domain.Job {
	job := domain.Job{
		Name:        j.Name,
		Description: j.Description,
		Schedule:    j.Schedule,
		Timezone:    j.TimeZone,
		State:       domain.JobState(j.State),
	}
	if j.PubsubTarget != nil {
		job.Topic = j.PubsubTarget.TopicName
		job.Attributes = j.PubsubTarget.Attributes
	}
	return job
}
