package domain

// SearchScope selects which record fields a search term is matched against.
type SearchScope string

const (
	// SearchScopeDashboard matches invoice, company, certified client, status,
	// payment type and operator, with accent folding.
	SearchScopeDashboard SearchScope = "dashboard"
	// SearchScopeReport matches invoice, company, certified client and part
	// description, plain lowercase.
	SearchScopeReport SearchScope = "report"
)

// PeriodRange bounds a filter by service date. Both ends are inclusive
// YYYY-MM-DD strings; empty means open.
type PeriodRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// FilterDescriptor narrows the record collection. An empty field places no
// constraint on its dimension.
type FilterDescriptor struct {
	Statuses     []Status      `json:"statuses,omitempty"`
	Segments     []string      `json:"segments,omitempty"`
	PaymentTypes []PaymentType `json:"payment_types,omitempty"`
	TaxTypes     []TaxType     `json:"tax_types,omitempty"`
	Period       PeriodRange   `json:"period"`
	SearchTerm   string        `json:"search_term,omitempty"`
	Scope        SearchScope   `json:"scope,omitempty"`

	// Chart drill-downs used by the report view.
	ChartStatus  Status  `json:"chart_status,omitempty"`
	ChartMonth   string  `json:"chart_month,omitempty"`
	ChartTaxType TaxType `json:"chart_tax_type,omitempty"`
}

// PeriodTotals sums values for one YYYY-MM period.
type PeriodTotals struct {
	Period     string  `json:"period"`
	GrossValue float64 `json:"gross_value"`
	NetValue   float64 `json:"net_value"`
}

// TypeDistribution counts records per category with an integer percentage.
type TypeDistribution struct {
	Type       string `json:"type"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// PaymentMix summarises one payment type.
type PaymentMix struct {
	Type       PaymentType `json:"type"`
	Label      string      `json:"label"`
	Count      int         `json:"count"`
	TotalValue float64     `json:"total_value"`
	Percentage int         `json:"percentage"`
}

// SegmentRevenue sums values for one client segment.
type SegmentRevenue struct {
	Segment    string  `json:"segment"`
	GrossValue float64 `json:"gross_value"`
	NetValue   float64 `json:"net_value"`
}

// StatusPipeline counts records in one status.
type StatusPipeline struct {
	Status     Status  `json:"status"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// OperatorProductivity summarises the work of one responsible user.
type OperatorProductivity struct {
	UserID          string  `json:"user_id"`
	Operator        string  `json:"operator"`
	ServiceCount    int     `json:"service_count"`
	NetValue        float64 `json:"net_value"`
	AvgLeadTimeDays float64 `json:"avg_lead_time_days"`
}

// TopClient ranks one company by net value.
type TopClient struct {
	CompanyID  string  `json:"company_id"`
	Company    string  `json:"company"`
	GrossValue float64 `json:"gross_value"`
	NetValue   float64 `json:"net_value"`
	SharePct   float64 `json:"share_pct"`
}

// AgingBuckets counts open records by days past their due date.
type AgingBuckets struct {
	Current      int     `json:"current"`
	D1To15       int     `json:"d1_15"`
	D16To30      int     `json:"d16_30"`
	D30Plus      int     `json:"d30plus"`
	CurrentValue float64 `json:"current_value"`
	D1To15Value  float64 `json:"d1_15_value"`
	D16To30Value float64 `json:"d16_30_value"`
	D30PlusValue float64 `json:"d30plus_value"`
}

// Total returns the number of records across all buckets.
func (a AgingBuckets) Total() int {
	return a.Current + a.D1To15 + a.D16To30 + a.D30Plus
}

// DashboardSummary aggregates all dashboard data for one filter.
type DashboardSummary struct {
	ReferencePeriod string  `json:"reference_period"`
	PreviousPeriod  *string `json:"previous_period"`

	// PreviousPeriodGap is set when the previous period with data is not the
	// calendar month right before the reference period.
	PreviousPeriodGap bool `json:"previous_period_gap"`

	GrossRevenue       float64 `json:"gross_revenue"`
	NetRevenue         float64 `json:"net_revenue"`
	RevenueVariancePct float64 `json:"revenue_variance_pct"`
	NetMarginPct       float64 `json:"net_margin_pct"`
	AverageNetTicket   float64 `json:"average_net_ticket"`

	PendingCount int     `json:"pending_count"`
	PendingValue float64 `json:"pending_value"`
	OverdueCount int     `json:"overdue_count"`
	OverdueValue float64 `json:"overdue_value"`

	ActiveClients int `json:"active_clients"`
	NewClients    int `json:"new_clients"`

	MonthlySeries        []PeriodTotals         `json:"monthly_series"`
	ServiceTypes         []TypeDistribution     `json:"service_types"`
	TaxTypes             []TypeDistribution     `json:"tax_types"`
	PaymentMix           []PaymentMix           `json:"payment_mix"`
	SegmentRevenue       []SegmentRevenue       `json:"segment_revenue"`
	StatusPipeline       []StatusPipeline       `json:"status_pipeline"`
	OperatorProductivity []OperatorProductivity `json:"operator_productivity"`
	TopClients           []TopClient            `json:"top_clients"`
	Aging                AgingBuckets           `json:"aging"`
}

// FilterOptions lists the values available to the dashboard filters.
type FilterOptions struct {
	Statuses     []Status      `json:"statuses"`
	PaymentTypes []PaymentType `json:"payment_types"`
	Segments     []string      `json:"segments"`
}
