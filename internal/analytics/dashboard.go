package analytics

import (
	"sort"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// BuildDashboard computes the dashboard summary of all under filter. It is a
// pure function of its arguments; now fixes "today" for aging, overdue and
// the fallback reference period.
func BuildDashboard(all []domain.ServiceRecord, filter domain.FilterDescriptor, segments Segments, now time.Time) domain.DashboardSummary {
	filtered := Filter(all, filter, segments)

	// 1. Reference and previous periods
	byPeriod := AggregateByPeriod(filtered)
	reference, previous := ReferencePeriods(byPeriod, now)
	current := byPeriod[reference]
	var prior Totals
	if previous != nil {
		prior = byPeriod[*previous]
	}

	// 2. Totals across the filtered set
	overall := sumTotals(filtered)

	// 3. Pending and overdue work
	var (
		pendingCount, overdueCount int
		pendingValue, overdueValue decimal.Decimal
	)
	for _, r := range filtered {
		if r.Status.IsPending() {
			pendingCount++
			pendingValue = pendingValue.Add(r.GrossValue)
		}
		if IsOverdue(r, now) {
			overdueCount++
			overdueValue = overdueValue.Add(r.GrossValue)
		}
	}

	return domain.DashboardSummary{
		ReferencePeriod:   reference,
		PreviousPeriod:    previous,
		PreviousPeriodGap: PreviousPeriodGap(reference, previous),

		GrossRevenue:       money(current.Gross),
		NetRevenue:         money(current.Net),
		RevenueVariancePct: VariancePct(current.Gross, prior.Gross),
		NetMarginPct:       MarginPct(overall.Net, overall.Gross),
		AverageNetTicket:   AverageTicket(overall.Net, len(filtered)),

		PendingCount: pendingCount,
		PendingValue: money(pendingValue),
		OverdueCount: overdueCount,
		OverdueValue: money(overdueValue),

		ActiveClients: ActiveClients(filtered),
		NewClients:    NewClientsInPeriod(filtered, all, reference),

		MonthlySeries:        BuildRollingSeries(filtered, reference, DefaultWindow),
		ServiceTypes:         ServiceTypeDistribution(filtered),
		TaxTypes:             TaxTypeDistribution(filtered, false),
		PaymentMix:           PaymentMix(filtered),
		SegmentRevenue:       SegmentRevenue(filtered, segments),
		StatusPipeline:       StatusPipeline(filtered),
		OperatorProductivity: OperatorProductivity(filtered),
		TopClients:           TopClients(filtered, overall.Net),
		Aging:                AgingBuckets(filtered, now),
	}
}

// BuildFilterOptions lists the distinct statuses and payment types present
// and the configured plus observed segments, each sorted.
func BuildFilterOptions(all []domain.ServiceRecord, segments Segments) domain.FilterOptions {
	statuses := make(map[domain.Status]struct{})
	payments := make(map[domain.PaymentType]struct{})
	segs := make(map[string]struct{})
	for _, name := range segments.Names() {
		segs[name] = struct{}{}
	}
	for _, r := range all {
		statuses[r.Status] = struct{}{}
		payments[r.PaymentType] = struct{}{}
		segs[segments.Of(r.Company.ID)] = struct{}{}
	}

	opts := domain.FilterOptions{
		Statuses:     make([]domain.Status, 0, len(statuses)),
		PaymentTypes: make([]domain.PaymentType, 0, len(payments)),
		Segments:     make([]string, 0, len(segs)),
	}
	for s := range statuses {
		opts.Statuses = append(opts.Statuses, s)
	}
	for p := range payments {
		opts.PaymentTypes = append(opts.PaymentTypes, p)
	}
	for s := range segs {
		opts.Segments = append(opts.Segments, s)
	}
	sort.Slice(opts.Statuses, func(i, j int) bool { return opts.Statuses[i] < opts.Statuses[j] })
	sort.Slice(opts.PaymentTypes, func(i, j int) bool { return opts.PaymentTypes[i] < opts.PaymentTypes[j] })
	sort.Strings(opts.Segments)
	return opts
}
