package jobspec

import (
	"strconv"
	"strings"
	"testing"

	"github.com/NeoTim/report2bq/internal/domain"
)

func TestBuild_DV360Fetch(t *testing.T) {
	p := Params{
		Email:    "analyst@example.com",
		Project:  "acme-reports",
		ReportID: "123456",
		Minute:   "17",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "fetch-dv360-123456" {
		t.Errorf("expected name fetch-dv360-123456, got %q", spec.Name)
	}
	if spec.Topic != domain.TopicTrigger {
		t.Errorf("expected topic %q, got %q", domain.TopicTrigger, spec.Topic)
	}
	// Fetch jobs always run hourly.
	if spec.Schedule != "17 * * * *" {
		t.Errorf("expected schedule %q, got %q", "17 * * * *", spec.Schedule)
	}
	if spec.Timezone != "UTC" {
		t.Errorf("expected default timezone UTC, got %q", spec.Timezone)
	}
	if got := spec.Attributes[domain.AttrDV360ID]; got != "123456" {
		t.Errorf("expected dv360_id attribute 123456, got %q", got)
	}
	if got := spec.Attributes[domain.AttrType]; got != "dv360" {
		t.Errorf("expected type attribute dv360, got %q", got)
	}
}

func TestBuild_DV360Fetch_IgnoresHour(t *testing.T) {
	p := Params{Email: "a@b.c", Project: "p", ReportID: "1", Hour: "6", Minute: "0"}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Schedule != "0 * * * *" {
		t.Errorf("fetch must ignore requested hour, got schedule %q", spec.Schedule)
	}
}

func TestBuild_DV360Runner(t *testing.T) {
	p := Params{
		Email:    "analyst@example.com",
		Project:  "acme-reports",
		ReportID: "123456",
		Runner:   true,
		Minute:   "5",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "run-dv360-123456" {
		t.Errorf("expected name run-dv360-123456, got %q", spec.Name)
	}
	if spec.Topic != domain.TopicRunner {
		t.Errorf("expected topic %q, got %q", domain.TopicRunner, spec.Topic)
	}
	if spec.Schedule != "5 1 * * *" {
		t.Errorf("expected default runner hour 1, got schedule %q", spec.Schedule)
	}
}

func TestBuild_CMProfile(t *testing.T) {
	p := Params{
		Email:    "analyst@example.com",
		Project:  "acme-reports",
		ReportID: "987",
		Profile:  "4455",
		Minute:   "30",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "fetch-cm-987" {
		t.Errorf("expected name fetch-cm-987, got %q", spec.Name)
	}
	if got := spec.Attributes[domain.AttrProfile]; got != "4455" {
		t.Errorf("expected profile attribute 4455, got %q", got)
	}
	if got := spec.Attributes[domain.AttrCMID]; got != "987" {
		t.Errorf("expected cm_id attribute 987, got %q", got)
	}
	if got := spec.Attributes[domain.AttrType]; got != "cm" {
		t.Errorf("expected type attribute cm, got %q", got)
	}
	if _, ok := spec.Attributes[domain.AttrDV360ID]; ok {
		t.Error("cm job must not carry a dv360_id attribute")
	}
}

func TestBuild_SA360URL(t *testing.T) {
	p := Params{
		Email:    "analyst@example.com",
		Project:  "acme-reports",
		ReportID: "web-1",
		SA360URL: "https://searchads.google.com/ds/reports/download?ay=1",
		Minute:   "12",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "fetch-sa360-web-1" {
		t.Errorf("expected name fetch-sa360-web-1, got %q", spec.Name)
	}
	if spec.Schedule != "12 3 * * *" {
		t.Errorf("expected default sa360 hour 3, got schedule %q", spec.Schedule)
	}
	if spec.Topic != domain.TopicTrigger {
		t.Errorf("expected topic %q, got %q", domain.TopicTrigger, spec.Topic)
	}
	if got := spec.Attributes[domain.AttrSA360URL]; got != p.SA360URL {
		t.Errorf("expected sa360_url attribute %q, got %q", p.SA360URL, got)
	}
}

func TestBuild_SA360Report(t *testing.T) {
	p := Params{
		Email:   "analyst@example.com",
		Project: "acme-reports",
		SA360ID: "dynamic-77",
		Minute:  "45",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "run-sa360_report-dynamic-77" {
		t.Errorf("expected name run-sa360_report-dynamic-77, got %q", spec.Name)
	}
	if spec.Schedule != "45 * * * *" {
		t.Errorf("expected default sa360_report hour *, got schedule %q", spec.Schedule)
	}
	if spec.Topic != domain.TopicRunner {
		t.Errorf("expected topic %q, got %q", domain.TopicRunner, spec.Topic)
	}
	if got := spec.Attributes[domain.AttrReportID]; got != "dynamic-77" {
		t.Errorf("expected report_id attribute dynamic-77, got %q", got)
	}
	if got := spec.Attributes[domain.AttrType]; got != "sa360_report" {
		t.Errorf("expected type attribute sa360_report, got %q", got)
	}
}

func TestBuild_ADH(t *testing.T) {
	p := Params{
		Email:       "analyst@example.com",
		Project:     "acme-reports",
		ReportID:    "q-1",
		ADHCustomer: "8800",
		ADHQuery:    "weekly_rollup",
		APIKey:      "key-abc",
		Days:        "60",
		Minute:      "20",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if spec.Name != "run-adh-q-1" {
		t.Errorf("expected name run-adh-q-1, got %q", spec.Name)
	}
	if spec.Schedule != "20 2 * * *" {
		t.Errorf("expected default adh hour 2, got schedule %q", spec.Schedule)
	}
	if spec.Topic != domain.TopicTrigger {
		t.Errorf("expected topic %q, got %q", domain.TopicTrigger, spec.Topic)
	}
	for key, want := range map[string]string{
		domain.AttrADHCustomer: "8800",
		domain.AttrADHQuery:    "weekly_rollup",
		domain.AttrAPIKey:      "key-abc",
		domain.AttrDays:        "60",
		domain.AttrType:        "adh",
	} {
		if got := spec.Attributes[key]; got != want {
			t.Errorf("expected attribute %s=%q, got %q", key, want, got)
		}
	}
}

func TestBuild_SelectorPrecedence(t *testing.T) {
	// sa360_url wins over everything else, matching the documented order.
	p := Params{
		Email:       "a@b.c",
		Project:     "p",
		ReportID:    "1",
		SA360URL:    "https://example.com/dl",
		SA360ID:     "2",
		ADHCustomer: "3",
		Minute:      "0",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(spec.Name, "fetch-sa360-") {
		t.Errorf("expected sa360_url to take precedence, got name %q", spec.Name)
	}
}

func TestBuild_CommonAttributes(t *testing.T) {
	p := Params{
		Email:       "analyst@example.com",
		Project:     "acme-reports",
		ReportID:    "1",
		Force:       true,
		InferSchema: false,
		Append:      true,
		Minute:      "0",
	}

	spec, err := p.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for key, want := range map[string]string{
		domain.AttrEmail:       "analyst@example.com",
		domain.AttrProject:     "acme-reports",
		domain.AttrForce:       "true",
		domain.AttrInferSchema: "false",
		domain.AttrAppend:      "true",
	} {
		if got := spec.Attributes[key]; got != want {
			t.Errorf("expected attribute %s=%q, got %q", key, want, got)
		}
	}
}

func TestBuild_RandomMinute(t *testing.T) {
	p := Params{Email: "a@b.c", Project: "p", ReportID: "1"}

	for i := 0; i < 50; i++ {
		spec, err := p.Build()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		field := strings.SplitN(spec.Schedule, " ", 2)[0]
		minute, err := strconv.Atoi(field)
		if err != nil {
			t.Fatalf("minute field %q is not numeric: %v", field, err)
		}
		if minute < 0 || minute > 58 {
			t.Fatalf("minute %d out of range [0,58]", minute)
		}
	}
}

func TestBuild_NoSelector(t *testing.T) {
	p := Params{Email: "a@b.c", Project: "p"}

	_, err := p.Build()
	if err == nil {
		t.Fatal("expected error when no product selector is present")
	}
}

func TestBuild_MissingNameID(t *testing.T) {
	// sa360_url selected but no report_id to name the job after.
	p := Params{Email: "a@b.c", Project: "p", SA360URL: "https://example.com/dl"}

	_, err := p.Build()
	if err == nil {
		t.Fatal("expected error when report_id is missing")
	}
}

func TestBuild_InvalidHour(t *testing.T) {
	p := Params{Email: "a@b.c", Project: "p", ReportID: "1", Runner: true, Hour: "25", Minute: "0"}

	_, err := p.Build()
	if err == nil {
		t.Fatal("expected error for hour outside cron range")
	}
}

func TestBuild_InvalidTimezone(t *testing.T) {
	p := Params{Email: "a@b.c", Project: "p", ReportID: "1", Timezone: "Mars/Olympus", Minute: "0"}

	_, err := p.Build()
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestValidate_Direct(t *testing.T) {
	spec := domain.JobSpec{
		Name:     "fetch-dv360-1",
		Schedule: "0 * * * *",
		Timezone: "America/New_York",
		Topic:    domain.TopicTrigger,
	}
	if err := Validate(spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec.Schedule = "not a cron line"
	if err := Validate(spec); err == nil {
		t.Fatal("expected error for malformed schedule")
	}
}
