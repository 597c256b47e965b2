package analytics

import (
	"math"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// VariancePct is (current - previous) / previous * 100 rounded to one
// decimal, or 0 when previous is 0.
func VariancePct(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(hundred).Round(1).InexactFloat64()
}

// MarginPct is net / gross * 100 rounded to one decimal, or 0 when gross is 0.
func MarginPct(net, gross decimal.Decimal) float64 {
	if gross.IsZero() {
		return 0
	}
	return net.Div(gross).Mul(hundred).Round(1).InexactFloat64()
}

// AverageTicket is net / count rounded to two decimals, or 0 for no records.
func AverageTicket(net decimal.Decimal, count int) float64 {
	if count <= 0 {
		return 0
	}
	return net.Div(decimal.NewFromInt(int64(count))).Round(2).InexactFloat64()
}

// IsOverdue reports whether a pending record's due date is before today.
func IsOverdue(r domain.ServiceRecord, today time.Time) bool {
	if r.DueDate == nil || !r.Status.IsPending() {
		return false
	}
	due, ok := parseDate(*r.DueDate)
	if !ok {
		return false
	}
	return due.Before(truncateDay(today))
}

// DaysPastDue is floor((today - due) / 1 day).
func DaysPastDue(due, today time.Time) int {
	diff := truncateDay(today).Sub(truncateDay(due))
	return int(math.Floor(diff.Hours() / 24))
}

// AgingBuckets classifies every non-finalized record with a due date by
// days past due: current (<= 0), 1-15, 16-30 and over 30.
func AgingBuckets(records []domain.ServiceRecord, today time.Time) domain.AgingBuckets {
	var (
		out                   domain.AgingBuckets
		current, d1, d16, d30 decimal.Decimal
	)
	for _, r := range records {
		if r.Status == domain.StatusFinalized || r.DueDate == nil {
			continue
		}
		due, ok := parseDate(*r.DueDate)
		if !ok {
			continue
		}

		switch days := DaysPastDue(due, today); {
		case days <= 0:
			out.Current++
			current = current.Add(r.GrossValue)
		case days <= 15:
			out.D1To15++
			d1 = d1.Add(r.GrossValue)
		case days <= 30:
			out.D16To30++
			d16 = d16.Add(r.GrossValue)
		default:
			out.D30Plus++
			d30 = d30.Add(r.GrossValue)
		}
	}

	out.CurrentValue = money(current)
	out.D1To15Value = money(d1)
	out.D16To30Value = money(d16)
	out.D30PlusValue = money(d30)
	return out
}

// NewClientsInPeriod counts the companies active in filtered whose first
// period across the unfiltered collection equals reference.
func NewClientsInPeriod(filtered, all []domain.ServiceRecord, reference string) int {
	first := make(map[string]string)
	for _, r := range all {
		p := PeriodKey(r.Date)
		if p == "" {
			continue
		}
		if cur, ok := first[r.Company.ID]; !ok || p < cur {
			first[r.Company.ID] = p
		}
	}

	seen := make(map[string]struct{})
	count := 0
	for _, r := range filtered {
		if _, dup := seen[r.Company.ID]; dup {
			continue
		}
		seen[r.Company.ID] = struct{}{}
		if first[r.Company.ID] == reference {
			count++
		}
	}
	return count
}

// ActiveClients counts distinct company ids.
func ActiveClients(records []domain.ServiceRecord) int {
	ids := make(map[string]struct{})
	for _, r := range records {
		ids[r.Company.ID] = struct{}{}
	}
	return len(ids)
}

func sumTotals(records []domain.ServiceRecord) Totals {
	var t Totals
	for _, r := range records {
		t = t.add(r)
	}
	return t
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percentOf is part / total * 100 rounded to the nearest integer, 0 when
// total is 0.
func percentOf(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func ratioPct(part, total decimal.Decimal, places int32) float64 {
	if total.IsZero() {
		return 0
	}
	return part.Div(total).Mul(hundred).Round(places).InexactFloat64()
}
