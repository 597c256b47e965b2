package analytics

import (
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// UnidentifiedName labels a company or user that could not be resolved.
	UnidentifiedName = "Unidentified"
	unknownTaxID     = "—"
)

// RecordContext carries the resolved references of a raw record. Either
// side may be nil when the lookup failed.
type RecordContext struct {
	Company *domain.Company
	User    *domain.User
}

// Normalize maps a raw record into a fully populated ServiceRecord. Missing
// references become placeholders and missing values fall back to defaults;
// it never fails.
func Normalize(raw domain.RawServiceRecord, ctx RecordContext, now time.Time) domain.ServiceRecord {
	rec := domain.ServiceRecord{
		ID:              stringOr(raw.ID, ""),
		Date:            stringOr(raw.Date, ""),
		DueDate:         nonEmpty(raw.DueDate),
		InvoiceNumber:   nonEmpty(raw.InvoiceNumber),
		Status:          domain.Status(raw.Status),
		PaymentType:     domain.PaymentType(raw.PaymentType),
		CertifiedClient: nonEmpty(raw.CertifiedClient),
		PartDescription: nonEmpty(raw.PartDescription),
		Notes:           nonEmpty(raw.Notes),
		InternalNotes:   nonEmpty(raw.InternalNotes),
		Measurements:    raw.Measurements,
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date == "" {
		rec.Date = now.Format(time.DateOnly)
	}
	if s, ok := domain.ParseStatus(raw.Status); ok {
		rec.Status = s
	}
	if p, ok := domain.ParsePaymentType(raw.PaymentType); ok {
		rec.PaymentType = p
	}
	if raw.TaxType != nil {
		if t, ok := domain.ParseTaxType(*raw.TaxType); ok {
			rec.TaxType = &t
		} else if *raw.TaxType != "" {
			t := domain.TaxType(*raw.TaxType)
			rec.TaxType = &t
		}
	}

	rec.GrossValue = decimalOr(raw.GrossValue, decimal.Zero)
	rec.NetValue = decimalOr(raw.NetValue, rec.GrossValue)
	rec.TaxValue = decimalOr(raw.TaxValue, decimal.Zero)

	if ctx.Company != nil {
		rec.Company = *ctx.Company
	} else {
		rec.Company = domain.Company{ID: raw.CompanyID, Name: UnidentifiedName, TaxID: unknownTaxID}
	}
	if ctx.User != nil {
		rec.ResponsibleUser = *ctx.User
	} else {
		rec.ResponsibleUser = domain.User{ID: raw.UserID, Name: UnidentifiedName}
	}

	return rec
}

// NormalizeAll normalizes a batch using lookup tables keyed by id.
func NormalizeAll(raws []domain.RawServiceRecord, companies map[string]domain.Company, users map[string]domain.User, now time.Time) []domain.ServiceRecord {
	out := make([]domain.ServiceRecord, 0, len(raws))
	for _, raw := range raws {
		var ctx RecordContext
		if c, ok := companies[raw.CompanyID]; ok {
			ctx.Company = &c
		}
		if u, ok := users[raw.UserID]; ok {
			ctx.User = &u
		}
		out = append(out, Normalize(raw, ctx, now))
	}
	return out
}

func stringOr(v *string, fallback string) string {
	if v == nil || *v == "" {
		return fallback
	}
	return *v
}

func nonEmpty(v *string) *string {
	if v == nil || *v == "" {
		return nil
	}
	s := *v
	return &s
}

func decimalOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v == nil {
		return fallback
	}
	return *v
}
