package analytics

import (
	"fmt"
	"testing"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMix(t *testing.T) {
	t.Run("integer percentages", func(t *testing.T) {
		mix := PaymentMix([]domain.ServiceRecord{
			newRecord("1", "2024-01-01", 100, 100, withPayment(domain.PaymentPix)),
			newRecord("2", "2024-01-02", 50, 50, withPayment(domain.PaymentPix)),
			newRecord("3", "2024-01-03", 25.555, 25, withPayment(domain.PaymentBoleto)),
		})

		assert.Equal(t, []domain.PaymentMix{
			{Type: domain.PaymentPix, Label: "Pix", Count: 2, TotalValue: 150, Percentage: 67},
			{Type: domain.PaymentBoleto, Label: "Boleto", Count: 1, TotalValue: 25.56, Percentage: 33},
		}, mix)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, PaymentMix(nil))
	})
}

func TestStatusPipeline(t *testing.T) {
	pipeline := StatusPipeline([]domain.ServiceRecord{
		newRecord("1", "2024-01-01", 100, 100, withStatus(domain.StatusOpen)),
		newRecord("2", "2024-01-01", 200, 200, withStatus(domain.StatusAwaitingPay)),
		newRecord("3", "2024-01-01", 300, 300, withStatus(domain.StatusAwaitingPay)),
	})

	require.Len(t, pipeline, 2)
	assert.Equal(t, domain.StatusPipeline{Status: domain.StatusAwaitingPay, Label: "Awaiting Payment", Count: 2, TotalValue: 500}, pipeline[0])
	assert.Equal(t, domain.StatusOpen, pipeline[1].Status)
}

func TestTaxTypeDistribution(t *testing.T) {
	records := []domain.ServiceRecord{
		newRecord("1", "2024-01-01", 1, 1, withTax(domain.TaxICMS)),
		newRecord("2", "2024-01-01", 1, 1, withTax(domain.TaxICMS)),
		newRecord("3", "2024-01-01", 1, 1, withTax(domain.TaxISSQN)),
		newRecord("4", "2024-01-01", 1, 1),
	}

	t.Run("untaxed omitted", func(t *testing.T) {
		dist := TaxTypeDistribution(records, false)
		assert.Equal(t, []domain.TypeDistribution{
			{Type: "ICMS", Label: "Icms", Count: 2, Percentage: 67},
			{Type: "ISSQN", Label: "Issqn", Count: 1, Percentage: 33},
		}, dist)
	})

	t.Run("untaxed bucketed", func(t *testing.T) {
		dist := TaxTypeDistribution(records, true)
		require.Len(t, dist, 3)
		assert.Equal(t, 50, dist[0].Percentage)
		assert.Equal(t, domain.NoTaxKey, dist[2].Type)
		assert.Equal(t, 25, dist[2].Percentage)
	})
}

func TestServiceTypeDistribution(t *testing.T) {
	notes := "Auditoria de balanceamento"
	audit := newRecord("3", "2024-01-01", 1, 1)
	audit.Notes = &notes

	dist := ServiceTypeDistribution([]domain.ServiceRecord{
		newRecord("1", "2024-01-01", 1, 1, withDescription("Instalação de rotor")),
		newRecord("2", "2024-01-01", 1, 1, withDescription("Calibração do eixo")),
		audit,
		newRecord("4", "2024-01-01", 1, 1),
		newRecord("5", "2024-01-01", 1, 1, withDescription("Instalação de mancal")),
	})

	require.Len(t, dist, 4)
	assert.Equal(t, ServiceTypeInstallation, dist[0].Type)
	assert.Equal(t, 2, dist[0].Count)
	assert.Equal(t, 40, dist[0].Percentage)
	assert.Equal(t, []string{ServiceTypeCalibration, ServiceTypeAudit, ServiceTypeMaintenance},
		[]string{dist[1].Type, dist[2].Type, dist[3].Type})

	assert.Empty(t, ServiceTypeDistribution(nil))
}

func TestSegmentRevenue(t *testing.T) {
	rev := SegmentRevenue([]domain.ServiceRecord{
		newRecord("1", "2024-01-01", 100, 90, withCompany("empresa-01", "A")),
		newRecord("2", "2024-01-01", 300, 250, withCompany("x", "X")),
		newRecord("3", "2024-01-01", 50, 50, withCompany("y", "Y")),
	}, DefaultSegments())

	assert.Equal(t, []domain.SegmentRevenue{
		{Segment: DefaultSegment, GrossValue: 350, NetValue: 300},
		{Segment: "Metalurgia & Siderurgia", GrossValue: 100, NetValue: 90},
	}, rev)
}

func TestOperatorProductivity(t *testing.T) {
	prod := OperatorProductivity([]domain.ServiceRecord{
		newRecord("1", "2024-01-01", 100, 100, withUser("u1", "Ana"), withDue("2024-01-11")),
		newRecord("2", "2024-01-01", 100, 100, withUser("u1", "Ana"), withDue("2024-01-06")),
		newRecord("3", "2024-01-01", 100, 100, withUser("u1", "Ana")),
		newRecord("4", "2024-01-01", 500, 450, withUser("u2", "Ana")),
	})

	require.Len(t, prod, 2, "same display name, different ids")
	assert.Equal(t, domain.OperatorProductivity{UserID: "u2", Operator: "Ana", ServiceCount: 1, NetValue: 450}, prod[0])
	assert.Equal(t, domain.OperatorProductivity{UserID: "u1", Operator: "Ana", ServiceCount: 3, NetValue: 300, AvgLeadTimeDays: 7.5}, prod[1])
}

func TestTopClients(t *testing.T) {
	var records []domain.ServiceRecord
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("c%d", i)
		net := float64(100 * (i%3 + 1))
		records = append(records, newRecord(id, "2024-01-01", net, net, withCompany(id, "Client "+id)))
	}

	top := TopClients(records, decimal.Zero)

	require.Len(t, top, TopClientsLimit)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].NetValue, top[i].NetValue)
	}
	// c2 and c5 tie at 300 and keep insertion order.
	assert.Equal(t, []string{"c2", "c5", "c1", "c4", "c7", "c0"},
		[]string{top[0].CompanyID, top[1].CompanyID, top[2].CompanyID, top[3].CompanyID, top[4].CompanyID, top[5].CompanyID})
	assert.Equal(t, 20.0, top[0].SharePct)

	t.Run("explicit total", func(t *testing.T) {
		top := TopClients(records[:1], decimal.NewFromInt(400))
		assert.Equal(t, 25.0, top[0].SharePct)
	})

	t.Run("zero totals", func(t *testing.T) {
		top := TopClients([]domain.ServiceRecord{newRecord("1", "2024-01-01", 0, 0)}, decimal.Zero)
		require.Len(t, top, 1)
		assert.Zero(t, top[0].SharePct)
	})
}
