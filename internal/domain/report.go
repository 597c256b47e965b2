package domain

// GroupKey selects the dimension a report groups by.
type GroupKey string

const (
	GroupByStatus      GroupKey = "status"
	GroupByPaymentType GroupKey = "payment_type"
	GroupByCompany     GroupKey = "company"
	GroupByTaxType     GroupKey = "tax_type"
)

// ParseGroupKey validates a group key.
func ParseGroupKey(v string) (GroupKey, bool) {
	switch k := GroupKey(normalizeTag(v)); k {
	case GroupByStatus, GroupByPaymentType, GroupByCompany, GroupByTaxType:
		return k, true
	}
	return "", false
}

// GroupSummary sums one group of a report.
type GroupSummary struct {
	Key        string  `json:"key"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	GrossValue float64 `json:"gross_value"`
	NetValue   float64 `json:"net_value"`
	TaxValue   float64 `json:"tax_value"`
}

// ReportKPIs are the headline figures of the services report.
type ReportKPIs struct {
	TotalServices     int     `json:"total_services"`
	PortfolioSharePct int     `json:"portfolio_share_pct"`
	GrossValue        float64 `json:"gross_value"`
	NetValue          float64 `json:"net_value"`
	TaxValue          float64 `json:"tax_value"`
	TaxBurdenPct      float64 `json:"tax_burden_pct"`
	AverageTicket     float64 `json:"average_ticket"`
	CompletedCount    int     `json:"completed_count"`
	CompletedPct      float64 `json:"completed_pct"`
	InProgressCount   int     `json:"in_progress_count"`
	InProgressPct     float64 `json:"in_progress_pct"`
}

// TaxBreakdown sums tax and net value for one tax type.
type TaxBreakdown struct {
	TaxType  string  `json:"tax_type"`
	Label    string  `json:"label"`
	TaxValue float64 `json:"tax_value"`
	NetValue float64 `json:"net_value"`
}

// TaxWindow selects the date window a tax recalculation applies to.
type TaxWindow string

const (
	TaxWindowLast15 TaxWindow = "LAST_15"
	TaxWindowLast30 TaxWindow = "LAST_30"
	TaxWindowLast60 TaxWindow = "LAST_60"
	TaxWindowLast90 TaxWindow = "LAST_90"
	TaxWindowCustom TaxWindow = "CUSTOM"
)

// TaxRecalculation describes a bulk tax-rate change.
type TaxRecalculation struct {
	TaxType TaxType   `json:"tax_type"`
	RatePct float64   `json:"rate"`
	Window  TaxWindow `json:"period"`
	Start   string    `json:"start,omitempty"`
	End     string    `json:"end,omitempty"`
}

// TaxRecalculationResult reports the effect of a recalculation.
type TaxRecalculationResult struct {
	Start   string         `json:"start"`
	End     string         `json:"end"`
	Updated int            `json:"updated"`
	KPIs    ReportKPIs     `json:"kpis"`
	Taxes   []TaxBreakdown `json:"taxes"`
}
