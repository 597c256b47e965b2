package analytics

import (
	"testing"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFixture() []domain.ServiceRecord {
	return []domain.ServiceRecord{
		newRecord("1", "2024-01-10", 1000, 950, withTax(domain.TaxICMS)),
		newRecord("2", "2024-01-20", 400, 380, withStatus(domain.StatusOrder), withTax(domain.TaxISSQN), withCompany("c2", "Beta")),
		newRecord("3", "2024-02-02", 600, 600, withStatus(domain.StatusOrder), withPayment(domain.PaymentBoleto)),
		newRecord("4", "2024-02-15", 200, 200, withStatus(domain.StatusOpen), withCompany("c2", "Beta")),
	}
}

func TestReportKPIs(t *testing.T) {
	records := reportFixture()

	kpis := ReportKPIs(records, 8)

	assert.Equal(t, domain.ReportKPIs{
		TotalServices:     4,
		PortfolioSharePct: 50,
		GrossValue:        2200,
		NetValue:          2130,
		TaxValue:          70,
		TaxBurdenPct:      3.2,
		AverageTicket:     532.5,
		CompletedCount:    1,
		CompletedPct:      25,
		InProgressCount:   2,
		InProgressPct:     50,
	}, kpis)

	assert.Equal(t, domain.ReportKPIs{}, ReportKPIs(nil, 0))
}

func TestGroupBy(t *testing.T) {
	records := reportFixture()

	t.Run("company keyed by id", func(t *testing.T) {
		groups := GroupBy(records, domain.GroupByCompany)
		assert.Equal(t, []domain.GroupSummary{
			{Key: "c1", Label: "Usinagem Alfa", Count: 2, GrossValue: 1600, NetValue: 1550, TaxValue: 50},
			{Key: "c2", Label: "Beta", Count: 2, GrossValue: 600, NetValue: 580, TaxValue: 20},
		}, groups)
	})

	t.Run("tax type with no tax bucket", func(t *testing.T) {
		groups := GroupBy(records, domain.GroupByTaxType)
		require.Len(t, groups, 3)
		assert.Equal(t, "ICMS", groups[0].Key)
		assert.Equal(t, domain.NoTaxKey, groups[1].Key)
		assert.Equal(t, 800.0, groups[1].GrossValue)
	})

	t.Run("status", func(t *testing.T) {
		groups := GroupBy(records, domain.GroupByStatus)
		require.Len(t, groups, 3)
		assert.Equal(t, "FINALIZED", groups[0].Key)
		assert.Equal(t, "ORDER", groups[1].Key)
		assert.Equal(t, 2, groups[1].Count)
	})

	t.Run("unknown key", func(t *testing.T) {
		assert.Nil(t, GroupBy(records, domain.GroupKey("color")))
	})
}

func TestTaxBreakdown(t *testing.T) {
	breakdown := TaxBreakdown(reportFixture())

	assert.Equal(t, []domain.TaxBreakdown{
		{TaxType: "ICMS", Label: "Icms", TaxValue: 50, NetValue: 950},
		{TaxType: "ISSQN", Label: "Issqn", TaxValue: 20, NetValue: 380},
		{TaxType: domain.NoTaxKey, Label: "No Tax", TaxValue: 0, NetValue: 800},
	}, breakdown)
}

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		name    string
		taxType domain.TaxType
		rate    float64
		gross   string
		wantTax string
		wantNet string
	}{
		{"icms", domain.TaxICMS, 18, "1000", "180", "820"},
		{"issqn rounds to cents", domain.TaxISSQN, 5, "333.33", "16.67", "316.66"},
		{"withheld", domain.TaxISSQNWithheld, 2.5, "200", "5", "195"},
		{"non taxable type", domain.TaxExempt, 18, "1000", "0", "1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax, net := CalculateTax(decimal.RequireFromString(tt.gross), tt.taxType, tt.rate)
			assert.Equal(t, tt.wantTax, tax.String())
			assert.Equal(t, tt.wantNet, net.String())
		})
	}
}

func TestTaxWindowRange(t *testing.T) {
	now := day("2024-03-31")

	start, end, err := TaxWindowRange(domain.TaxRecalculation{Window: domain.TaxWindowLast30}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", start)
	assert.Equal(t, "2024-03-31", end)

	start, end, err = TaxWindowRange(domain.TaxRecalculation{Window: domain.TaxWindowCustom, Start: "2024-01-01", End: "2024-01-31"}, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", start)
	assert.Equal(t, "2024-01-31", end)

	_, _, err = TaxWindowRange(domain.TaxRecalculation{Window: domain.TaxWindowCustom, Start: "2024-02-01", End: "2024-01-01"}, now)
	assert.ErrorIs(t, err, ErrInvalidTaxWindow)

	_, _, err = TaxWindowRange(domain.TaxRecalculation{Window: "LAST_7"}, now)
	assert.ErrorIs(t, err, ErrInvalidTaxWindow)
}

func TestApplyTaxRate(t *testing.T) {
	records := reportFixture()
	req := domain.TaxRecalculation{TaxType: domain.TaxICMS, RatePct: 10, Window: domain.TaxWindowCustom, Start: "2024-01-01", End: "2024-01-31"}

	updated, result, err := ApplyTaxRate(records, req, day("2024-03-01"))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, "100", updated[0].TaxValue.String())
	assert.Equal(t, "900", updated[0].NetValue.String())
	assert.Equal(t, "50", records[0].TaxValue.String(), "input must not change")
	assert.Equal(t, 120.0, result.KPIs.TaxValue)
	assert.Equal(t, "ICMS", result.Taxes[0].TaxType)
	assert.Equal(t, 100.0, result.Taxes[0].TaxValue)

	_, _, err = ApplyTaxRate(records, domain.TaxRecalculation{TaxType: domain.TaxICMS, RatePct: 120, Window: domain.TaxWindowLast15}, day("2024-03-01"))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)
}
