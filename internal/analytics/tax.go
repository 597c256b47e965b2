package analytics

import (
	"errors"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidTaxWindow is returned for an unknown window or a custom
	// window with missing or malformed dates.
	ErrInvalidTaxWindow = errors.New("invalid tax recalculation window")
	// ErrInvalidTaxRate is returned for rates outside 0..100.
	ErrInvalidTaxRate = errors.New("tax rate must be between 0 and 100")
)

var taxWindowDays = map[domain.TaxWindow]int{
	domain.TaxWindowLast15: 15,
	domain.TaxWindowLast30: 30,
	domain.TaxWindowLast60: 60,
	domain.TaxWindowLast90: 90,
}

// IsTaxable reports whether a rate applies to the tax type. Other types
// carry no tax.
func IsTaxable(t domain.TaxType) bool {
	switch t {
	case domain.TaxICMS, domain.TaxISSQN, domain.TaxISSQNWithheld:
		return true
	}
	return false
}

// CalculateTax returns tax = gross * rate% and net = gross - tax, both
// rounded to two decimals. Non-taxable types get zero tax.
func CalculateTax(gross decimal.Decimal, t domain.TaxType, ratePct float64) (tax, net decimal.Decimal) {
	tax = decimal.Zero
	if IsTaxable(t) {
		tax = gross.Mul(decimal.NewFromFloat(ratePct)).Div(hundred).Round(2)
	}
	return tax, gross.Sub(tax).Round(2)
}

// TaxWindowRange resolves the inclusive YYYY-MM-DD range of a recalculation.
// Preset windows end today and start the given number of days before.
func TaxWindowRange(req domain.TaxRecalculation, now time.Time) (string, string, error) {
	if req.Window == domain.TaxWindowCustom {
		start, okStart := parseDate(req.Start)
		end, okEnd := parseDate(req.End)
		if !okStart || !okEnd || end.Before(start) {
			return "", "", ErrInvalidTaxWindow
		}
		return start.Format(time.DateOnly), end.Format(time.DateOnly), nil
	}

	days, ok := taxWindowDays[req.Window]
	if !ok {
		return "", "", ErrInvalidTaxWindow
	}
	today := truncateDay(now)
	return today.AddDate(0, 0, -days).Format(time.DateOnly), today.Format(time.DateOnly), nil
}

// ApplyTaxRate recalculates tax and net value of every record with the
// requested tax type dated inside the window. It returns an updated copy of
// records and the range and number of records changed; the input is left
// untouched.
func ApplyTaxRate(records []domain.ServiceRecord, req domain.TaxRecalculation, now time.Time) ([]domain.ServiceRecord, domain.TaxRecalculationResult, error) {
	if req.RatePct < 0 || req.RatePct > 100 {
		return nil, domain.TaxRecalculationResult{}, ErrInvalidTaxRate
	}
	start, end, err := TaxWindowRange(req, now)
	if err != nil {
		return nil, domain.TaxRecalculationResult{}, err
	}

	result := domain.TaxRecalculationResult{Start: start, End: end}
	out := make([]domain.ServiceRecord, len(records))
	copy(out, records)
	for i, r := range out {
		if r.TaxType == nil || *r.TaxType != req.TaxType {
			continue
		}
		if r.Date < start || r.Date > end {
			continue
		}
		out[i].TaxValue, out[i].NetValue = CalculateTax(r.GrossValue, req.TaxType, req.RatePct)
		result.Updated++
	}

	result.KPIs = ReportKPIs(out, len(out))
	result.Taxes = TaxBreakdown(out)
	return out, result, nil
}
