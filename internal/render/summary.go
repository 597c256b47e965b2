// Package render draws dashboard summaries as terminal tables.
package render

import (
	"fmt"
	"strings"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/pkg/format"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	boldCyan = color.New(color.FgCyan, color.Bold).SprintFunc()
	red      = color.New(color.FgRed).SprintFunc()
	green    = color.New(color.FgGreen).SprintFunc()
	yellow   = color.New(color.FgYellow).SprintFunc()
)

// Summary renders the headline figures followed by one table per breakdown.
// Empty breakdowns are skipped.
func Summary(s domain.DashboardSummary) string {
	var b strings.Builder

	b.WriteString(headline(s))

	sections := []struct {
		title string
		data  pterm.TableData
	}{
		{"Série mensal", monthlyTable(s.MonthlySeries)},
		{"Pipeline de status", statusTable(s.StatusPipeline)},
		{"Meios de pagamento", paymentTable(s.PaymentMix)},
		{"Principais clientes", topClientsTable(s.TopClients)},
		{"Produtividade", productivityTable(s.OperatorProductivity)},
		{"Segmentos", segmentTable(s.SegmentRevenue)},
		{"Aging", agingTable(s.Aging)},
	}
	for _, sec := range sections {
		if len(sec.data) <= 1 {
			continue
		}
		rendered, err := pterm.DefaultTable.WithHasHeader().WithData(sec.data).Srender()
		if err != nil {
			continue
		}
		b.WriteString("\n" + boldCyan(sec.title) + "\n" + rendered + "\n")
	}

	return b.String()
}

func headline(s domain.DashboardSummary) string {
	previous := "-"
	if s.PreviousPeriod != nil {
		previous = *s.PreviousPeriod
		if s.PreviousPeriodGap {
			previous += " " + yellow("(sem mês imediatamente anterior)")
		}
	}

	rows := pterm.TableData{
		{"Período de referência", s.ReferencePeriod},
		{"Período anterior", previous},
		{"Faturamento bruto", format.Currency(s.GrossRevenue)},
		{"Faturamento líquido", format.Currency(s.NetRevenue)},
		{"Variação", variance(s.RevenueVariancePct)},
		{"Margem líquida", format.Percent(s.NetMarginPct)},
		{"Ticket médio", format.Currency(s.AverageNetTicket)},
		{"Pendentes", fmt.Sprintf("%s (%s)", format.Count(s.PendingCount), format.Currency(s.PendingValue))},
		{"Vencidos", fmt.Sprintf("%s (%s)", format.Count(s.OverdueCount), format.Currency(s.OverdueValue))},
		{"Clientes ativos", format.Count(s.ActiveClients)},
		{"Clientes novos", format.Count(s.NewClients)},
	}
	rendered, err := pterm.DefaultTable.WithData(rows).WithBoxed().Srender()
	if err != nil {
		return ""
	}
	return rendered + "\n"
}

func variance(pct float64) string {
	text := format.Percent(pct)
	switch {
	case pct > 0:
		return green("+" + text)
	case pct < 0:
		return red(text)
	}
	return text
}

func monthlyTable(series []domain.PeriodTotals) pterm.TableData {
	data := pterm.TableData{{"Mês", "Bruto", "Líquido"}}
	for _, p := range series {
		data = append(data, []string{p.Period, format.Currency(p.GrossValue), format.Currency(p.NetValue)})
	}
	return data
}

func statusTable(pipeline []domain.StatusPipeline) pterm.TableData {
	data := pterm.TableData{{"Status", "Qtd.", "Valor"}}
	for _, p := range pipeline {
		data = append(data, []string{p.Label, format.Count(p.Count), format.Currency(p.TotalValue)})
	}
	return data
}

func paymentTable(mix []domain.PaymentMix) pterm.TableData {
	data := pterm.TableData{{"Pagamento", "Qtd.", "Valor", "%"}}
	for _, p := range mix {
		data = append(data, []string{p.Label, format.Count(p.Count), format.Currency(p.TotalValue), format.IntPercent(p.Percentage)})
	}
	return data
}

func topClientsTable(clients []domain.TopClient) pterm.TableData {
	data := pterm.TableData{{"Cliente", "Bruto", "Líquido", "Part."}}
	for _, c := range clients {
		data = append(data, []string{c.Company, format.Currency(c.GrossValue), format.Currency(c.NetValue), format.Percent(c.SharePct)})
	}
	return data
}

func productivityTable(ops []domain.OperatorProductivity) pterm.TableData {
	data := pterm.TableData{{"Operador", "Serviços", "Líquido", "Lead time (dias)"}}
	for _, o := range ops {
		data = append(data, []string{o.Operator, format.Count(o.ServiceCount), format.Currency(o.NetValue), fmt.Sprintf("%.1f", o.AvgLeadTimeDays)})
	}
	return data
}

func segmentTable(segments []domain.SegmentRevenue) pterm.TableData {
	data := pterm.TableData{{"Segmento", "Bruto", "Líquido"}}
	for _, s := range segments {
		data = append(data, []string{s.Segment, format.Currency(s.GrossValue), format.Currency(s.NetValue)})
	}
	return data
}

func agingTable(a domain.AgingBuckets) pterm.TableData {
	if a.Total() == 0 {
		return nil
	}
	return pterm.TableData{
		{"Faixa", "Qtd.", "Valor"},
		{"Em dia", format.Count(a.Current), format.Currency(a.CurrentValue)},
		{"1-15 dias", format.Count(a.D1To15), format.Currency(a.D1To15Value)},
		{"16-30 dias", format.Count(a.D16To30), format.Currency(a.D16To30Value)},
		{"+30 dias", format.Count(a.D30Plus), format.Currency(a.D30PlusValue)},
	}
}
