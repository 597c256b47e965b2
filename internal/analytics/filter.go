package analytics

import (
	"strings"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
)

// Filter returns the records matching every active dimension of the
// descriptor, in input order. Malformed boundaries place no constraint.
func Filter(records []domain.ServiceRecord, f domain.FilterDescriptor, segments Segments) []domain.ServiceRecord {
	m := newMatcher(f, segments)
	out := make([]domain.ServiceRecord, 0, len(records))
	for _, r := range records {
		if m.match(r) {
			out = append(out, r)
		}
	}
	return out
}

type matcher struct {
	f        domain.FilterDescriptor
	segments Segments

	statuses map[domain.Status]struct{}
	payments map[domain.PaymentType]struct{}
	taxes    map[domain.TaxType]struct{}
	segSet   map[string]struct{}

	start, end       *time.Time
	startStr, endStr string

	term string
}

func newMatcher(f domain.FilterDescriptor, segments Segments) *matcher {
	m := &matcher{
		f:        f,
		segments: segments,
		statuses: toSet(f.Statuses),
		payments: toSet(f.PaymentTypes),
		taxes:    toSet(f.TaxTypes),
		segSet:   toSet(f.Segments),
	}

	if t, ok := parseDate(f.Period.Start); ok {
		m.start = &t
		m.startStr = t.Format(time.DateOnly)
	}
	if t, ok := parseDate(f.Period.End); ok {
		m.end = &t
		m.endStr = t.Format(time.DateOnly)
	}

	term := strings.TrimSpace(f.SearchTerm)
	if f.Scope == domain.SearchScopeReport {
		m.term = strings.ToLower(term)
	} else {
		m.term = foldText(term)
	}
	return m
}

func (m *matcher) match(r domain.ServiceRecord) bool {
	if len(m.statuses) > 0 {
		if _, ok := m.statuses[r.Status]; !ok {
			return false
		}
	}
	if len(m.payments) > 0 {
		if _, ok := m.payments[r.PaymentType]; !ok {
			return false
		}
	}
	if len(m.segSet) > 0 {
		if _, ok := m.segSet[m.segments.Of(r.Company.ID)]; !ok {
			return false
		}
	}
	if len(m.taxes) > 0 {
		if r.TaxType == nil {
			return false
		}
		if _, ok := m.taxes[*r.TaxType]; !ok {
			return false
		}
	}
	if !m.matchPeriod(r.Date) {
		return false
	}
	if m.term != "" && !strings.Contains(m.haystack(r), m.term) {
		return false
	}

	if m.f.ChartStatus != "" && r.Status != m.f.ChartStatus {
		return false
	}
	if m.f.ChartMonth != "" && PeriodKey(r.Date) != m.f.ChartMonth {
		return false
	}
	if m.f.ChartTaxType != "" && (r.TaxType == nil || *r.TaxType != m.f.ChartTaxType) {
		return false
	}
	return true
}

func (m *matcher) matchPeriod(date string) bool {
	if m.start == nil && m.end == nil {
		return true
	}

	// Report bounds compare the stored string directly.
	if m.f.Scope == domain.SearchScopeReport {
		if m.start != nil && date < m.startStr {
			return false
		}
		if m.end != nil && date > m.endStr {
			return false
		}
		return true
	}

	d, ok := parseDate(date)
	if !ok {
		return false
	}
	if m.start != nil && d.Before(*m.start) {
		return false
	}
	if m.end != nil && d.After(*m.end) {
		return false
	}
	return true
}

func (m *matcher) haystack(r domain.ServiceRecord) string {
	if m.f.Scope == domain.SearchScopeReport {
		return strings.ToLower(strings.Join([]string{
			deref(r.InvoiceNumber),
			r.Company.Name,
			deref(r.CertifiedClient),
			deref(r.PartDescription),
		}, " "))
	}
	return foldText(strings.Join([]string{
		deref(r.InvoiceNumber),
		r.Company.Name,
		deref(r.CertifiedClient),
		string(r.Status),
		string(r.PaymentType),
		r.ResponsibleUser.Name,
	}, " "))
}

// parseDate accepts YYYY-MM-DD or RFC 3339 timestamps and returns the UTC
// calendar date.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return truncateDay(t), true
	}
	return time.Time{}, false
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func toSet[T comparable](values []T) map[T]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
