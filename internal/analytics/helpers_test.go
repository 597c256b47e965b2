package analytics

import (
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

type recordOpt func(*domain.ServiceRecord)

func newRecord(id, date string, gross, net float64, opts ...recordOpt) domain.ServiceRecord {
	r := domain.ServiceRecord{
		ID:              id,
		Date:            date,
		GrossValue:      decimal.NewFromFloat(gross),
		NetValue:        decimal.NewFromFloat(net),
		TaxValue:        decimal.NewFromFloat(gross - net),
		Status:          domain.StatusFinalized,
		PaymentType:     domain.PaymentPix,
		Company:         domain.Company{ID: "c1", Name: "Usinagem Alfa"},
		ResponsibleUser: domain.User{ID: "u1", Name: "Ana"},
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func withStatus(s domain.Status) recordOpt {
	return func(r *domain.ServiceRecord) { r.Status = s }
}

func withPayment(p domain.PaymentType) recordOpt {
	return func(r *domain.ServiceRecord) { r.PaymentType = p }
}

func withDue(due string) recordOpt {
	return func(r *domain.ServiceRecord) { r.DueDate = &due }
}

func withTax(t domain.TaxType) recordOpt {
	return func(r *domain.ServiceRecord) { r.TaxType = &t }
}

func withCompany(id, name string) recordOpt {
	return func(r *domain.ServiceRecord) { r.Company = domain.Company{ID: id, Name: name} }
}

func withUser(id, name string) recordOpt {
	return func(r *domain.ServiceRecord) { r.ResponsibleUser = domain.User{ID: id, Name: name} }
}

func withInvoice(n string) recordOpt {
	return func(r *domain.ServiceRecord) { r.InvoiceNumber = &n }
}

func withDescription(d string) recordOpt {
	return func(r *domain.ServiceRecord) { r.PartDescription = &d }
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }
