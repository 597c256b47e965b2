package analytics

import (
	"sort"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ReportKPIs summarises the filtered records of the services report.
// portfolioSize is the size of the unfiltered collection.
func ReportKPIs(filtered []domain.ServiceRecord, portfolioSize int) domain.ReportKPIs {
	var (
		totals              = sumTotals(filtered)
		tax                 decimal.Decimal
		completed, progress int
	)
	for _, r := range filtered {
		tax = tax.Add(r.TaxValue)
		switch r.Status {
		case domain.StatusFinalized:
			completed++
		case domain.StatusOrder:
			progress++
		}
	}

	n := len(filtered)
	count := decimal.NewFromInt(int64(n))
	return domain.ReportKPIs{
		TotalServices:     n,
		PortfolioSharePct: percentOf(n, portfolioSize),
		GrossValue:        money(totals.Gross),
		NetValue:          money(totals.Net),
		TaxValue:          money(tax),
		TaxBurdenPct:      ratioPct(tax, totals.Gross, 1),
		AverageTicket:     AverageTicket(totals.Net, n),
		CompletedCount:    completed,
		CompletedPct:      ratioPct(decimal.NewFromInt(int64(completed)), count, 1),
		InProgressCount:   progress,
		InProgressPct:     ratioPct(decimal.NewFromInt(int64(progress)), count, 1),
	}
}

// GroupBy sums records per status, payment type, company or tax type,
// highest gross first. Companies are keyed by id and labelled by name;
// untaxed records group under NO_TAX. An unknown key yields nil.
func GroupBy(records []domain.ServiceRecord, key domain.GroupKey) []domain.GroupSummary {
	keyOf, ok := groupKeyFuncs[key]
	if !ok {
		return nil
	}

	g := newGroups()
	for _, r := range records {
		k, label := keyOf(r)
		g.get(k, label).add(r)
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].gross.GreaterThan(g.order[j].gross) })

	out := make([]domain.GroupSummary, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, domain.GroupSummary{
			Key:        b.key,
			Label:      b.label,
			Count:      b.count,
			GrossValue: money(b.gross),
			NetValue:   money(b.net),
			TaxValue:   money(b.tax),
		})
	}
	return out
}

var groupKeyFuncs = map[domain.GroupKey]func(domain.ServiceRecord) (string, string){
	domain.GroupByStatus: func(r domain.ServiceRecord) (string, string) {
		return string(r.Status), domain.Label(string(r.Status))
	},
	domain.GroupByPaymentType: func(r domain.ServiceRecord) (string, string) {
		return string(r.PaymentType), domain.Label(string(r.PaymentType))
	},
	domain.GroupByCompany: func(r domain.ServiceRecord) (string, string) {
		return r.Company.ID, r.Company.Name
	},
	domain.GroupByTaxType: taxKey,
}

// TaxBreakdown sums tax and net value per tax type, including the NO_TAX
// bucket, highest tax first.
func TaxBreakdown(records []domain.ServiceRecord) []domain.TaxBreakdown {
	g := newGroups()
	for _, r := range records {
		g.get(taxKey(r)).add(r)
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].tax.GreaterThan(g.order[j].tax) })

	out := make([]domain.TaxBreakdown, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, domain.TaxBreakdown{
			TaxType:  b.key,
			Label:    b.label,
			TaxValue: money(b.tax),
			NetValue: money(b.net),
		})
	}
	return out
}
