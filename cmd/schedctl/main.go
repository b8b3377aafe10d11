// schedctl is a one-shot command line client for administering the
// reporting pipeline's scheduler jobs. It talks directly to the Cloud
// Scheduler API using Application Default Credentials.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/option"

	"github.com/NeoTim/report2bq/internal/jobspec"
	"github.com/NeoTim/report2bq/internal/scheduler"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		project  = flag.String("project", os.Getenv("PROJECT_ID"), "GCP project id")
		location = flag.String("location", os.Getenv("LOCATION_ID"), "scheduler location (optional)")
		endpoint = flag.String("endpoint", "", "scheduler endpoint override (emulators only)")
		timeout  = flag.Duration("timeout", 30*time.Second, "per-call timeout")

		action = flag.String("action", "list", "one of: locations, list, get, create, delete, enable, disable")
		jobID  = flag.String("job", "", "job id for get, delete, enable and disable")
		email  = flag.String("email", "", "requesting user's email; filters list, required for create")

		description = flag.String("description", "", "job description")
		timezone    = flag.String("timezone", "", "IANA timezone (default UTC)")
		hour        = flag.String("hour", "", "hour of day to run")
		minute      = flag.String("minute", "", "minute to run (default random)")
		force       = flag.Bool("force", false, "force fetch even if unchanged")
		inferSchema = flag.Bool("infer-schema", false, "infer the BigQuery schema")
		appendData  = flag.Bool("append", false, "append instead of overwrite")

		reportID    = flag.String("report-id", "", "DV360/CM report id")
		profile     = flag.String("profile", "", "CM profile id")
		runner      = flag.Bool("runner", false, "schedule a run instead of a fetch")
		sa360URL    = flag.String("sa360-url", "", "SA360 web download url")
		sa360ID     = flag.String("sa360-id", "", "dynamic SA360 report id")
		adhCustomer = flag.String("adh-customer", "", "ADH customer id")
		adhQuery    = flag.String("adh-query", "", "ADH query id")
		apiKey      = flag.String("api-key", "", "API key for the runner")
		days        = flag.String("days", "", "ADH lookback days")
	)
	flag.Parse()

	if *project == "" {
		fmt.Fprintln(os.Stderr, "schedctl: -project or PROJECT_ID is required")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var opts []option.ClientOption
	if *endpoint != "" {
		opts = append(opts, option.WithEndpoint(*endpoint), option.WithoutAuthentication())
	}

	client, err := scheduler.New(ctx, scheduler.Config{
		Project:     *project,
		Location:    *location,
		CallTimeout: *timeout,
	}, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedctl: %v\n", err)
		return 1
	}

	switch *action {
	case "locations":
		locations, err := client.ListLocations(ctx)
		if err != nil {
			return fail(err)
		}
		return printJSON(locations)

	case "list":
		jobs, err := client.ListJobs(ctx, *email)
		if err != nil {
			return fail(err)
		}
		return printJSON(jobs)

	case "get":
		if *jobID == "" {
			fmt.Fprintln(os.Stderr, "schedctl: -job is required for get")
			return 2
		}
		job, err := client.GetJob(ctx, *jobID)
		if err != nil {
			return fail(err)
		}
		return printJSON(job)

	case "create":
		if *email == "" {
			fmt.Fprintln(os.Stderr, "schedctl: -email is required for create")
			return 2
		}
		params := jobspec.Params{
			Email:       *email,
			Project:     *project,
			Description: *description,
			Timezone:    *timezone,
			Hour:        *hour,
			Minute:      *minute,
			Force:       *force,
			InferSchema: *inferSchema,
			Append:      *appendData,
			ReportID:    *reportID,
			Profile:     *profile,
			Runner:      *runner,
			SA360URL:    *sa360URL,
			SA360ID:     *sa360ID,
			ADHCustomer: *adhCustomer,
			ADHQuery:    *adhQuery,
			APIKey:      *apiKey,
			Days:        *days,
		}
		spec, err := params.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "schedctl: %v\n", err)
			return 2
		}
		job, err := client.CreateJob(ctx, spec)
		if err != nil {
			return fail(err)
		}
		return printJSON(job)

	case "delete":
		if *jobID == "" {
			fmt.Fprintln(os.Stderr, "schedctl: -job is required for delete")
			return 2
		}
		if err := client.DeleteJob(ctx, *jobID); err != nil {
			return fail(err)
		}
		fmt.Printf("deleted %s\n", *jobID)
		return 0

	case "enable", "disable":
		if *jobID == "" {
			fmt.Fprintf(os.Stderr, "schedctl: -job is required for %s\n", *action)
			return 2
		}
		if err := client.EnableJob(ctx, *jobID, *action == "enable"); err != nil {
			return fail(err)
		}
		fmt.Printf("%sd %s\n", *action, *jobID)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "schedctl: unknown action %q\n", *action)
		flag.Usage()
		return 2
	}
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "schedctl: %v\n", err)
	return 1
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "schedctl: encode: %v\n", err)
		return 1
	}
	return 0
}
