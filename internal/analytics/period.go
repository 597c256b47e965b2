package analytics

import (
	"sort"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultWindow is the length of the rolling monthly series.
const DefaultWindow = 12

const periodLayout = "2006-01"

// Totals holds exact gross and net sums.
type Totals struct {
	Gross decimal.Decimal
	Net   decimal.Decimal
}

func (t Totals) add(r domain.ServiceRecord) Totals {
	return Totals{Gross: t.Gross.Add(r.GrossValue), Net: t.Net.Add(r.NetValue)}
}

func (t Totals) asPeriod(period string) domain.PeriodTotals {
	return domain.PeriodTotals{
		Period:     period,
		GrossValue: money(t.Gross),
		NetValue:   money(t.Net),
	}
}

// PeriodKey returns the YYYY-MM key of a date, or "" when the date does not
// start with a valid year and month.
func PeriodKey(date string) string {
	if len(date) < 7 {
		return ""
	}
	key := date[:7]
	if _, err := time.Parse(periodLayout, key); err != nil {
		return ""
	}
	return key
}

// AggregateByPeriod sums gross and net value per YYYY-MM period. Records
// without a usable date are left out.
func AggregateByPeriod(records []domain.ServiceRecord) map[string]Totals {
	totals := make(map[string]Totals)
	for _, r := range records {
		key := PeriodKey(r.Date)
		if key == "" {
			continue
		}
		totals[key] = totals[key].add(r)
	}
	return totals
}

// ReferencePeriods picks the latest period with data as the reference and
// the latest before it as the previous one. With no data the reference is
// the period of now and there is no previous period.
func ReferencePeriods(totals map[string]Totals, now time.Time) (string, *string) {
	keys := sortedKeys(totals)
	if len(keys) == 0 {
		return now.Format(periodLayout), nil
	}
	reference := keys[len(keys)-1]
	if len(keys) == 1 {
		return reference, nil
	}
	previous := keys[len(keys)-2]
	return reference, &previous
}

// PreviousPeriodGap reports whether previous is not the calendar month
// right before reference, i.e. months without data were skipped.
func PreviousPeriodGap(reference string, previous *string) bool {
	if previous == nil {
		return false
	}
	ref, err := time.Parse(periodLayout, reference)
	if err != nil {
		return false
	}
	return ref.AddDate(0, -1, 0).Format(periodLayout) != *previous
}

// BuildRollingSeries returns exactly window calendar months ending at the
// reference period, zero-filled for months without data. An unparsable
// reference yields nil.
func BuildRollingSeries(records []domain.ServiceRecord, reference string, window int) []domain.PeriodTotals {
	if window <= 0 {
		window = DefaultWindow
	}
	ref, err := time.Parse(periodLayout, reference)
	if err != nil {
		return nil
	}

	totals := AggregateByPeriod(records)
	series := make([]domain.PeriodTotals, 0, window)
	for offset := window - 1; offset >= 0; offset-- {
		period := ref.AddDate(0, -offset, 0).Format(periodLayout)
		series = append(series, totals[period].asPeriod(period))
	}
	return series
}

// MonthlyTimeline lists only the periods present in records, ascending.
func MonthlyTimeline(records []domain.ServiceRecord) []domain.PeriodTotals {
	totals := AggregateByPeriod(records)
	keys := sortedKeys(totals)
	timeline := make([]domain.PeriodTotals, 0, len(keys))
	for _, k := range keys {
		timeline = append(timeline, totals[k].asPeriod(k))
	}
	return timeline
}

func sortedKeys(totals map[string]Totals) []string {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
