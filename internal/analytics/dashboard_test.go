package analytics

import (
	"testing"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDashboard(t *testing.T) {
	today := day("2024-02-20")

	t.Run("two month scenario", func(t *testing.T) {
		records := []domain.ServiceRecord{
			newRecord("1", "2024-01-10", 1000, 900),
			newRecord("2", "2024-02-05", 500, 500, withStatus(domain.StatusOpen), withDue("2024-01-01")),
		}

		s := BuildDashboard(records, domain.FilterDescriptor{}, DefaultSegments(), today)

		assert.Equal(t, "2024-02", s.ReferencePeriod)
		require.NotNil(t, s.PreviousPeriod)
		assert.Equal(t, "2024-01", *s.PreviousPeriod)
		assert.False(t, s.PreviousPeriodGap)
		assert.Equal(t, 500.0, s.GrossRevenue)
		assert.Equal(t, 500.0, s.NetRevenue)
		assert.Equal(t, -50.0, s.RevenueVariancePct)
		assert.Equal(t, 93.3, s.NetMarginPct)
		assert.Equal(t, 700.0, s.AverageNetTicket)
		assert.Equal(t, 1, s.PendingCount)
		assert.Equal(t, 500.0, s.PendingValue)
		assert.Equal(t, 1, s.OverdueCount)
		assert.Equal(t, 500.0, s.OverdueValue)
		assert.Equal(t, 1, s.ActiveClients)
		assert.Equal(t, 0, s.NewClients)
		assert.Equal(t, domain.AgingBuckets{D30Plus: 1, D30PlusValue: 500}, s.Aging)

		require.Len(t, s.MonthlySeries, DefaultWindow)
		assert.Equal(t, domain.PeriodTotals{Period: "2024-01", GrossValue: 1000, NetValue: 900}, s.MonthlySeries[10])
		assert.Equal(t, domain.PeriodTotals{Period: "2024-02", GrossValue: 500, NetValue: 500}, s.MonthlySeries[11])

		require.Len(t, s.TopClients, 1)
		assert.Equal(t, 100.0, s.TopClients[0].SharePct)
		assert.Empty(t, s.TaxTypes)
	})

	t.Run("empty collection yields zeros", func(t *testing.T) {
		s := BuildDashboard(nil, domain.FilterDescriptor{}, DefaultSegments(), today)

		assert.Equal(t, "2024-02", s.ReferencePeriod)
		assert.Nil(t, s.PreviousPeriod)
		assert.Zero(t, s.GrossRevenue)
		assert.Zero(t, s.RevenueVariancePct)
		assert.Zero(t, s.NetMarginPct)
		assert.Zero(t, s.AverageNetTicket)
		assert.Zero(t, s.Aging.Total())
		assert.Len(t, s.MonthlySeries, DefaultWindow)
		assert.Empty(t, s.TopClients)
		assert.Empty(t, s.PaymentMix)
	})

	t.Run("gap between periods is flagged", func(t *testing.T) {
		records := []domain.ServiceRecord{
			newRecord("1", "2023-11-10", 1000, 1000),
			newRecord("2", "2024-02-05", 1500, 1500, withCompany("c2", "Beta")),
		}

		s := BuildDashboard(records, domain.FilterDescriptor{}, DefaultSegments(), today)

		require.NotNil(t, s.PreviousPeriod)
		assert.Equal(t, "2023-11", *s.PreviousPeriod)
		assert.True(t, s.PreviousPeriodGap)
		assert.Equal(t, 50.0, s.RevenueVariancePct)
		assert.Equal(t, 1, s.NewClients)
	})

	t.Run("new clients look at unfiltered history", func(t *testing.T) {
		records := []domain.ServiceRecord{
			newRecord("1", "2024-01-10", 100, 100, withPayment(domain.PaymentCash)),
			newRecord("2", "2024-02-05", 100, 100),
		}
		filter := domain.FilterDescriptor{PaymentTypes: []domain.PaymentType{domain.PaymentPix}}

		s := BuildDashboard(records, filter, DefaultSegments(), today)

		assert.Equal(t, "2024-02", s.ReferencePeriod)
		assert.Equal(t, 1, s.ActiveClients)
		assert.Equal(t, 0, s.NewClients)
	})
}

func TestBuildFilterOptions(t *testing.T) {
	opts := BuildFilterOptions([]domain.ServiceRecord{
		newRecord("1", "2024-01-10", 1, 1, withStatus(domain.StatusOpen), withPayment(domain.PaymentBoleto)),
		newRecord("2", "2024-01-10", 1, 1, withCompany("other", "Other")),
		newRecord("3", "2024-01-10", 1, 1, withStatus(domain.StatusOpen)),
	}, DefaultSegments())

	assert.Equal(t, []domain.Status{domain.StatusFinalized, domain.StatusOpen}, opts.Statuses)
	assert.Equal(t, []domain.PaymentType{domain.PaymentBoleto, domain.PaymentPix}, opts.PaymentTypes)
	assert.Equal(t, []string{
		"Automação Industrial",
		"Ensaios Laboratoriais",
		DefaultSegment,
		"Metalurgia & Siderurgia",
		"Montagens e Infraestrutura",
	}, opts.Segments)
}
