package handlers

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

// queryList reads a multi-valued parameter sent either repeated or
// comma-separated:
//
//	?status=OPEN&status=ORDER
//	?status=OPEN,ORDER
func queryList(c *gin.Context, name string) []string {
	raw := c.QueryArray(name)
	if len(raw) == 0 {
		return nil
	}

	values := make([]string, 0, len(raw))
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}

func parseList[T any](values []string, parse func(string) (T, bool), name string) ([]T, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(values))
	for _, v := range values {
		parsed, ok := parse(v)
		if !ok {
			return nil, fmt.Errorf("invalid %s %q", name, v)
		}
		out = append(out, parsed)
	}
	return out, nil
}

// parseDashboardFilter reads status, segment, payment_type, start, end and q.
func parseDashboardFilter(c *gin.Context) (domain.FilterDescriptor, error) {
	var filter domain.FilterDescriptor
	var err error

	if filter.Statuses, err = parseList(queryList(c, "status"), domain.ParseStatus, "status"); err != nil {
		return filter, err
	}
	if filter.PaymentTypes, err = parseList(queryList(c, "payment_type"), domain.ParsePaymentType, "payment_type"); err != nil {
		return filter, err
	}
	filter.Segments = queryList(c, "segment")
	filter.Period = domain.PeriodRange{
		Start: strings.TrimSpace(c.Query("start")),
		End:   strings.TrimSpace(c.Query("end")),
	}
	filter.SearchTerm = strings.TrimSpace(c.Query("q"))
	return filter, nil
}

// parseReportFilter extends the dashboard filter with the tax type set and
// the chart drill-downs.
func parseReportFilter(c *gin.Context) (domain.FilterDescriptor, error) {
	filter, err := parseDashboardFilter(c)
	if err != nil {
		return filter, err
	}

	if filter.TaxTypes, err = parseList(queryList(c, "tax_type"), domain.ParseTaxType, "tax_type"); err != nil {
		return filter, err
	}

	if v := strings.TrimSpace(c.Query("chart_status")); v != "" {
		status, ok := domain.ParseStatus(v)
		if !ok {
			return filter, fmt.Errorf("invalid chart_status %q", v)
		}
		filter.ChartStatus = status
	}
	if v := strings.TrimSpace(c.Query("chart_tax_type")); v != "" {
		taxType, ok := domain.ParseTaxType(v)
		if !ok {
			return filter, fmt.Errorf("invalid chart_tax_type %q", v)
		}
		filter.ChartTaxType = taxType
	}
	filter.ChartMonth = strings.TrimSpace(c.Query("chart_month"))
	return filter, nil
}
