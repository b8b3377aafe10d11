// Package jobspec derives scheduler job specifications from the flat
// create parameters accepted by the API and the CLI.
package jobspec

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/NeoTim/report2bq/internal/domain"
)

// Params is the flat parameter set for creating a scheduled report job.
// Exactly one of SA360URL, SA360ID, ADHCustomer or ReportID selects the
// product; they are checked in that order.
type Params struct {
	Email       string
	Project     string
	Description string
	Timezone    string

	// Hour overrides the product's default firing hour. Minute defaults
	// to a random value so job fleets spread across the hour.
	Hour   string
	Minute string

	Force       bool
	InferSchema bool
	Append      bool

	// DV360/CM selector. Profile switches the job to CM, Runner switches
	// it from fetch to run.
	ReportID string
	Profile  string
	Runner   bool

	// SA360 web-download report URL (fetch) or dynamic report id (run).
	SA360URL string
	SA360ID  string

	// Ads Data Hub query parameters.
	ADHCustomer string
	ADHQuery    string
	APIKey      string
	Days        string
}

// Build derives the job specification: which topic the trigger message
// goes to, the fetch/run action, the firing schedule and the message
// attributes the downstream function needs.
func (p Params) Build() (domain.JobSpec, error) {
	attrs := map[string]string{
		domain.AttrEmail:       p.Email,
		domain.AttrProject:     p.Project,
		domain.AttrForce:       strconv.FormatBool(p.Force),
		domain.AttrInferSchema: strconv.FormatBool(p.InferSchema),
		domain.AttrAppend:      strconv.FormatBool(p.Append),
	}

	minute := p.Minute
	if minute == "" {
		minute = strconv.Itoa(rand.Intn(59))
	}

	var (
		product domain.Product
		action  domain.Action
		hour    string
		topic   string
		nameID  string
	)

	switch {
	case p.SA360URL != "":
		product = domain.ProductSA360
		action = domain.ActionFetch
		hour = defaultHour(p.Hour, "3")
		topic = domain.TopicTrigger
		nameID = p.ReportID
		attrs[domain.AttrSA360URL] = p.SA360URL
		attrs[domain.AttrType] = product.String()

	case p.SA360ID != "":
		product = domain.ProductSA360Report
		action = domain.ActionRun
		hour = defaultHour(p.Hour, "*")
		topic = domain.TopicRunner
		nameID = p.SA360ID
		attrs[domain.AttrReportID] = p.SA360ID
		attrs[domain.AttrType] = product.String()

	case p.ADHCustomer != "":
		product = domain.ProductADH
		action = domain.ActionRun
		hour = defaultHour(p.Hour, "2")
		topic = domain.TopicTrigger
		nameID = p.ReportID
		attrs[domain.AttrADHCustomer] = p.ADHCustomer
		attrs[domain.AttrADHQuery] = p.ADHQuery
		attrs[domain.AttrType] = product.String()
		if p.APIKey != "" {
			attrs[domain.AttrAPIKey] = p.APIKey
		}
		if p.Days != "" {
			attrs[domain.AttrDays] = p.Days
		}

	case p.ReportID != "":
		if p.Runner {
			action = domain.ActionRun
			hour = defaultHour(p.Hour, "1")
			topic = domain.TopicRunner
		} else {
			// Fetch jobs poll hourly regardless of any requested hour.
			action = domain.ActionFetch
			hour = "*"
			topic = domain.TopicTrigger
		}
		nameID = p.ReportID

		if p.Profile != "" {
			product = domain.ProductCM
			attrs[domain.AttrProfile] = p.Profile
			attrs[domain.AttrCMID] = p.ReportID
			attrs[domain.AttrType] = product.String()
		} else {
			product = domain.ProductDV360
			attrs[domain.AttrDV360ID] = p.ReportID
			attrs[domain.AttrType] = product.String()
		}

	default:
		return domain.JobSpec{}, fmt.Errorf("one of sa360_url, sa360_id, adh_customer or report_id is required")
	}

	if nameID == "" {
		return domain.JobSpec{}, fmt.Errorf("report_id is required")
	}

	timezone := p.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	spec := domain.JobSpec{
		Name:        fmt.Sprintf("%s-%s-%s", action, product, nameID),
		Description: p.Description,
		Schedule:    fmt.Sprintf("%s %s * * *", minute, hour),
		Timezone:    timezone,
		Topic:       topic,
		Attributes:  attrs,
	}

	if err := Validate(spec); err != nil {
		return domain.JobSpec{}, err
	}
	return spec, nil
}

func defaultHour(hour, fallback string) string {
	if hour == "" {
		return fallback
	}
	return hour
}
