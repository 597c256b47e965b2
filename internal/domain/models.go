package domain

import "github.com/shopspring/decimal"

// Company is the client a service order is billed to.
type Company struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	TaxID string `json:"tax_id" db:"tax_id"`
}

// User is the operator responsible for a service order.
type User struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Measurements holds the optional part measurements captured on a service order.
type Measurements struct {
	PartQuantity      *int64           `json:"part_quantity,omitempty"`
	Diameter          *decimal.Decimal `json:"diameter,omitempty"`
	Width             *decimal.Decimal `json:"width,omitempty"`
	TotalWidth        *decimal.Decimal `json:"total_width,omitempty"`
	Weight            *decimal.Decimal `json:"weight,omitempty"`
	RPM               *int64           `json:"rpm,omitempty"`
	PlaneOneAllowed   *decimal.Decimal `json:"plane_one_allowed,omitempty"`
	PlaneTwoAllowed   *decimal.Decimal `json:"plane_two_allowed,omitempty"`
	PlaneOneFound     *decimal.Decimal `json:"plane_one_found,omitempty"`
	PlaneTwoFound     *decimal.Decimal `json:"plane_two_found,omitempty"`
	PlaneOneRadius    *decimal.Decimal `json:"plane_one_radius,omitempty"`
	PlaneTwoRadius    *decimal.Decimal `json:"plane_two_radius,omitempty"`
	PlaneOneRemainder *decimal.Decimal `json:"plane_one_remainder,omitempty"`
	PlaneTwoRemainder *decimal.Decimal `json:"plane_two_remainder,omitempty"`
}

// RawServiceRecord is a service order as it arrives from storage or the API,
// with every optional field nullable.
type RawServiceRecord struct {
	ID              *string          `json:"id,omitempty"`
	Date            *string          `json:"date,omitempty"`
	InvoiceNumber   *string          `json:"invoice_number,omitempty"`
	GrossValue      *decimal.Decimal `json:"gross_value,omitempty"`
	TaxType         *string          `json:"tax_type,omitempty"`
	TaxValue        *decimal.Decimal `json:"tax_value,omitempty"`
	NetValue        *decimal.Decimal `json:"net_value,omitempty"`
	PaymentType     string           `json:"payment_type"`
	Status          string           `json:"status"`
	DueDate         *string          `json:"due_date,omitempty"`
	CertifiedClient *string          `json:"certified_client,omitempty"`
	PartDescription *string          `json:"part_description,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	InternalNotes   *string          `json:"internal_notes,omitempty"`
	CompanyID       string           `json:"company_id"`
	UserID          string           `json:"user_id"`
	Measurements
}

// ServiceRecord is the canonical, fully populated service order the
// reporting engine works on. Company and user are embedded by value.
type ServiceRecord struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	DueDate         *string         `json:"due_date,omitempty"`
	InvoiceNumber   *string         `json:"invoice_number,omitempty"`
	GrossValue      decimal.Decimal `json:"gross_value"`
	NetValue        decimal.Decimal `json:"net_value"`
	TaxValue        decimal.Decimal `json:"tax_value"`
	Status          Status          `json:"status"`
	PaymentType     PaymentType     `json:"payment_type"`
	TaxType         *TaxType        `json:"tax_type,omitempty"`
	Company         Company         `json:"company"`
	ResponsibleUser User            `json:"responsible_user"`
	CertifiedClient *string         `json:"certified_client,omitempty"`
	PartDescription *string         `json:"part_description,omitempty"`
	Notes           *string         `json:"notes,omitempty"`
	InternalNotes   *string         `json:"internal_notes,omitempty"`
	Measurements    Measurements    `json:"measurements"`
}

// Snapshot is a self-contained export of services with their references.
type Snapshot struct {
	Services  []RawServiceRecord `json:"services"`
	Companies []Company          `json:"companies"`
	Users     []User             `json:"users"`
}
