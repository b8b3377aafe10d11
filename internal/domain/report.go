package domain

// Product identifies the reporting product a scheduled job belongs to.
// The value is carried verbatim in the job's "type" message attribute.
type Product string

const (
	ProductDV360       Product = "dv360"
	ProductCM          Product = "cm"
	ProductSA360       Product = "sa360"
	ProductSA360Report Product = "sa360_report"
	ProductADH         Product = "adh"
)

func (p Product) String() string {
	return string(p)
}

// Action is what the triggered function does with the report.
type Action string

const (
	ActionFetch Action = "fetch"
	ActionRun   Action = "run"
)

func (a Action) String() string {
	return string(a)
}

// Trigger topics. Fetch jobs go to the report loader, run jobs to the
// report runner.
const (
	TopicTrigger = "report2bq-trigger"
	TopicRunner  = "report-runner"
)

// Message attribute keys understood by the downstream functions.
const (
	AttrEmail       = "email"
	AttrProject     = "project"
	AttrForce       = "force"
	AttrInferSchema = "infer_schema"
	AttrAppend      = "append"
	AttrType        = "type"
	AttrReportID    = "report_id"
	AttrDV360ID     = "dv360_id"
	AttrCMID        = "cm_id"
	AttrProfile     = "profile"
	AttrSA360URL    = "sa360_url"
	AttrADHCustomer = "adh_customer"
	AttrADHQuery    = "adh_query"
	AttrAPIKey      = "api_key"
	AttrDays        = "days"
)
