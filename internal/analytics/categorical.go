package analytics

import (
	"sort"
	"strings"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// TopClientsLimit caps the top clients ranking.
const TopClientsLimit = 6

// Service type labels derived from part description and notes.
const (
	ServiceTypeMaintenance  = "Manutenção"
	ServiceTypeInstallation = "Instalação"
	ServiceTypeCalibration  = "Calibração"
	ServiceTypeAudit        = "Auditoria"
)

// bucket accumulates one group of records.
type bucket struct {
	key   string
	label string
	count int
	gross decimal.Decimal
	net   decimal.Decimal
	tax   decimal.Decimal

	leadDays    float64
	leadSamples int
}

// groups keeps buckets in first-seen order so that stable sorts preserve
// insertion order on ties.
type groups struct {
	index map[string]*bucket
	order []*bucket
}

func newGroups() *groups {
	return &groups{index: make(map[string]*bucket)}
}

func (g *groups) get(key, label string) *bucket {
	if b, ok := g.index[key]; ok {
		return b
	}
	b := &bucket{key: key, label: label}
	g.index[key] = b
	g.order = append(g.order, b)
	return b
}

func (b *bucket) add(r domain.ServiceRecord) {
	b.count++
	b.gross = b.gross.Add(r.GrossValue)
	b.net = b.net.Add(r.NetValue)
	b.tax = b.tax.Add(r.TaxValue)
}

// StatusPipeline counts records and sums gross value per status, most
// frequent first.
func StatusPipeline(records []domain.ServiceRecord) []domain.StatusPipeline {
	g := newGroups()
	for _, r := range records {
		g.get(string(r.Status), domain.Label(string(r.Status))).add(r)
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].count > g.order[j].count })

	out := make([]domain.StatusPipeline, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, domain.StatusPipeline{
			Status:     domain.Status(b.key),
			Label:      b.label,
			Count:      b.count,
			TotalValue: money(b.gross),
		})
	}
	return out
}

// PaymentMix counts records, sums gross value and computes the share of
// records per payment type, most frequent first.
func PaymentMix(records []domain.ServiceRecord) []domain.PaymentMix {
	g := newGroups()
	for _, r := range records {
		g.get(string(r.PaymentType), domain.Label(string(r.PaymentType))).add(r)
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].count > g.order[j].count })

	out := make([]domain.PaymentMix, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, domain.PaymentMix{
			Type:       domain.PaymentType(b.key),
			Label:      b.label,
			Count:      b.count,
			TotalValue: money(b.gross),
			Percentage: percentOf(b.count, len(records)),
		})
	}
	return out
}

// TaxTypeDistribution counts records per tax type. Untaxed records go to the
// NO_TAX bucket when includeUntaxed is set and are omitted otherwise;
// percentages are relative to the records counted.
func TaxTypeDistribution(records []domain.ServiceRecord, includeUntaxed bool) []domain.TypeDistribution {
	g := newGroups()
	total := 0
	for _, r := range records {
		key, label := taxKey(r)
		if key == domain.NoTaxKey && !includeUntaxed {
			continue
		}
		g.get(key, label).add(r)
		total++
	}
	return distribution(g, total)
}

// ServiceTypeDistribution classifies records by keywords in their part
// description and notes.
func ServiceTypeDistribution(records []domain.ServiceRecord) []domain.TypeDistribution {
	g := newGroups()
	for _, r := range records {
		t := ClassifyServiceType(r)
		g.get(t, t).add(r)
	}
	return distribution(g, len(records))
}

// ClassifyServiceType returns the service type label of a record.
func ClassifyServiceType(r domain.ServiceRecord) string {
	text := strings.ToLower(deref(r.PartDescription) + " " + deref(r.Notes))
	switch {
	case strings.Contains(text, "instala"):
		return ServiceTypeInstallation
	case strings.Contains(text, "calibra"):
		return ServiceTypeCalibration
	case strings.Contains(text, "auditor"):
		return ServiceTypeAudit
	default:
		return ServiceTypeMaintenance
	}
}

func distribution(g *groups, total int) []domain.TypeDistribution {
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].count > g.order[j].count })
	out := make([]domain.TypeDistribution, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, domain.TypeDistribution{
			Type:       b.key,
			Label:      b.label,
			Count:      b.count,
			Percentage: percentOf(b.count, total),
		})
	}
	return out
}

// SegmentRevenue sums gross and net value per client segment, highest gross
// first.
func SegmentRevenue(records []domain.ServiceRecord, segments Segments) []domain.SegmentRevenue {
	g := newGroups()
	for _, r := range records {
		seg := segments.Of(r.Company.ID)
		g.get(seg, seg).add(r)
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].gross.GreaterThan(g.order[j].gross) })

	out := make([]domain.SegmentRevenue, 0, len(g.order))
	for _, b := range g.order {
		out = append(out, domain.SegmentRevenue{
			Segment:    b.key,
			GrossValue: money(b.gross),
			NetValue:   money(b.net),
		})
	}
	return out
}

// OperatorProductivity groups records by responsible user id. The average
// lead time (service date to due date, in days) only counts records with
// both dates.
func OperatorProductivity(records []domain.ServiceRecord) []domain.OperatorProductivity {
	g := newGroups()
	for _, r := range records {
		b := g.get(r.ResponsibleUser.ID, r.ResponsibleUser.Name)
		b.add(r)
		if r.DueDate == nil {
			continue
		}
		start, okStart := parseDate(r.Date)
		due, okDue := parseDate(*r.DueDate)
		if okStart && okDue {
			b.leadDays += due.Sub(start).Hours() / 24
			b.leadSamples++
		}
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].net.GreaterThan(g.order[j].net) })

	out := make([]domain.OperatorProductivity, 0, len(g.order))
	for _, b := range g.order {
		var avg float64
		if b.leadSamples > 0 {
			avg = decimal.NewFromFloat(b.leadDays / float64(b.leadSamples)).Round(1).InexactFloat64()
		}
		out = append(out, domain.OperatorProductivity{
			UserID:          b.key,
			Operator:        b.label,
			ServiceCount:    b.count,
			NetValue:        money(b.net),
			AvgLeadTimeDays: avg,
		})
	}
	return out
}

// TopClients ranks companies by net value and returns at most
// TopClientsLimit of them. Shares use totalNet as the denominator, or the
// sum over all companies when totalNet is zero.
func TopClients(records []domain.ServiceRecord, totalNet decimal.Decimal) []domain.TopClient {
	g := newGroups()
	sum := decimal.Zero
	for _, r := range records {
		g.get(r.Company.ID, r.Company.Name).add(r)
		sum = sum.Add(r.NetValue)
	}
	if totalNet.IsZero() {
		totalNet = sum
	}
	sort.SliceStable(g.order, func(i, j int) bool { return g.order[i].net.GreaterThan(g.order[j].net) })

	n := len(g.order)
	if n > TopClientsLimit {
		n = TopClientsLimit
	}
	out := make([]domain.TopClient, 0, n)
	for _, b := range g.order[:n] {
		out = append(out, domain.TopClient{
			CompanyID:  b.key,
			Company:    b.label,
			GrossValue: money(b.gross),
			NetValue:   money(b.net),
			SharePct:   ratioPct(b.net, totalNet, 1),
		})
	}
	return out
}

func taxKey(r domain.ServiceRecord) (string, string) {
	if r.TaxType == nil || *r.TaxType == "" {
		return domain.NoTaxKey, domain.Label(domain.NoTaxKey)
	}
	return string(*r.TaxType), domain.Label(string(*r.TaxType))
}
