package domain

import "strings"

// Status is the lifecycle tag of a service order.
type Status string

const (
	StatusOpen        Status = "OPEN"
	StatusOrder       Status = "ORDER"
	StatusInvoicing   Status = "INVOICING"
	StatusCanceled    Status = "CANCELED"
	StatusFinalized   Status = "FINALIZED"
	StatusInAnalysis  Status = "IN_ANALYSIS"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusAwaitingPay Status = "AWAITING_PAYMENT"
)

// PaymentType is how a service order is settled.
type PaymentType string

const (
	PaymentPix         PaymentType = "PIX"
	PaymentCash        PaymentType = "CASH"
	PaymentBankDeposit PaymentType = "BANK_DEPOSIT"
	PaymentBoleto      PaymentType = "BOLETO"
	PaymentCreditCard  PaymentType = "CREDIT_CARD"
	PaymentDebitCard   PaymentType = "DEBIT_CARD"
	PaymentTransfer    PaymentType = "TRANSFER"
)

// TaxType is the tax regime applied to a service order.
type TaxType string

const (
	TaxICMS          TaxType = "ICMS"
	TaxISSQN         TaxType = "ISSQN"
	TaxISSQNWithheld TaxType = "ISSQN_WITHHELD"
	TaxISS           TaxType = "ISS"
	TaxPIS           TaxType = "PIS"
	TaxCOFINS        TaxType = "COFINS"
	TaxExempt        TaxType = "EXEMPT"

	// NoTaxKey groups records that carry no tax type.
	NoTaxKey = "NO_TAX"
)

var statusAliases = map[string]Status{
	"open":                 StatusOpen,
	"orcamento":            StatusOpen,
	"aberto":               StatusOpen,
	"order":                StatusOrder,
	"ordem_servico":        StatusOrder,
	"invoicing":            StatusInvoicing,
	"faturamento":          StatusInvoicing,
	"canceled":             StatusCanceled,
	"cancelled":            StatusCanceled,
	"cancelado":            StatusCanceled,
	"finalized":            StatusFinalized,
	"finalizado":           StatusFinalized,
	"in_analysis":          StatusInAnalysis,
	"em_analise":           StatusInAnalysis,
	"in_progress":          StatusInProgress,
	"em_andamento":         StatusInProgress,
	"awaiting_payment":     StatusAwaitingPay,
	"aguardando_pagamento": StatusAwaitingPay,
}

var paymentAliases = map[string]PaymentType{
	"pix":            PaymentPix,
	"cash":           PaymentCash,
	"dinheiro":       PaymentCash,
	"bank_deposit":   PaymentBankDeposit,
	"deposito":       PaymentBankDeposit,
	"boleto":         PaymentBoleto,
	"credit_card":    PaymentCreditCard,
	"cartao_credito": PaymentCreditCard,
	"debit_card":     PaymentDebitCard,
	"cartao_debito":  PaymentDebitCard,
	"transfer":       PaymentTransfer,
	"transferencia":  PaymentTransfer,
}

var taxAliases = map[string]TaxType{
	"icms":           TaxICMS,
	"issqn":          TaxISSQN,
	"issqn_withheld": TaxISSQNWithheld,
	"issqn_retido":   TaxISSQNWithheld,
	"iss":            TaxISS,
	"pis":            TaxPIS,
	"cofins":         TaxCOFINS,
	"exempt":         TaxExempt,
	"isento":         TaxExempt,
}

// PendingStatuses are the statuses counted as open work on the dashboard.
var PendingStatuses = map[Status]struct{}{
	StatusOpen:        {},
	StatusInProgress:  {},
	StatusAwaitingPay: {},
}

// ParseStatus resolves English or Portuguese status tags (case-insensitive).
func ParseStatus(label string) (Status, bool) {
	s, ok := statusAliases[normalizeTag(label)]
	return s, ok
}

// ParsePaymentType resolves English or Portuguese payment tags (case-insensitive).
func ParsePaymentType(label string) (PaymentType, bool) {
	p, ok := paymentAliases[normalizeTag(label)]
	return p, ok
}

// ParseTaxType resolves English or Portuguese tax tags (case-insensitive).
func ParseTaxType(label string) (TaxType, bool) {
	t, ok := taxAliases[normalizeTag(label)]
	return t, ok
}

// IsPending reports whether the status counts as open work.
func (s Status) IsPending() bool {
	_, ok := PendingStatuses[s]
	return ok
}

// Label renders an enum tag for display, e.g. "AWAITING_PAYMENT" -> "Awaiting Payment".
func Label(tag string) string {
	if tag == "" {
		return "—"
	}
	parts := strings.Split(strings.ToLower(tag), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func normalizeTag(label string) string {
	tag := strings.ToLower(strings.TrimSpace(label))
	tag = strings.ReplaceAll(tag, "-", "_")
	return strings.ReplaceAll(tag, " ", "_")
}
