package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/config"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRowToRaw(t *testing.T) {
	row := serviceRow{
		ID:            "svc-1",
		Date:          sql.NullTime{Time: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), Valid: true},
		InvoiceNumber: sql.NullString{String: "NF-1", Valid: true},
		GrossValue:    decimal.NullDecimal{Decimal: decimal.RequireFromString("1500.00"), Valid: true},
		TaxType:       sql.NullString{String: "ICMS", Valid: true},
		PaymentType:   sql.NullString{String: "PIX", Valid: true},
		Status:        sql.NullString{String: "FINALIZED", Valid: true},
		CompanyID:     "empresa-01",
		UserID:        "user-01",
		RPM:           sql.NullInt64{Int64: 1200, Valid: true},
	}

	raw := row.toRaw()

	require.NotNil(t, raw.ID)
	assert.Equal(t, "svc-1", *raw.ID)
	require.NotNil(t, raw.Date)
	assert.Equal(t, "2024-03-05", *raw.Date)
	assert.Equal(t, "NF-1", *raw.InvoiceNumber)
	assert.True(t, raw.GrossValue.Equal(decimal.NewFromInt(1500)))
	assert.Nil(t, raw.NetValue)
	assert.Nil(t, raw.TaxValue)
	assert.Nil(t, raw.DueDate)
	assert.Nil(t, raw.CertifiedClient)
	assert.Equal(t, "PIX", raw.PaymentType)
	assert.Equal(t, "FINALIZED", raw.Status)
	assert.Equal(t, "empresa-01", raw.CompanyID)
	assert.Equal(t, int64(1200), *raw.RPM)
	assert.Nil(t, raw.PartQuantity)
	assert.Nil(t, raw.Diameter)
}

func TestServiceArgs(t *testing.T) {
	id := "svc-1"
	gross := decimal.NewFromInt(100)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	args := serviceArgs(domain.RawServiceRecord{ID: &id, GrossValue: &gross, CompanyID: "c1", UserID: "u1"}, now)

	require.Len(t, args, 19)
	assert.Equal(t, "svc-1", args[0])
	assert.Equal(t, decimal.NullDecimal{Decimal: gross, Valid: true}, args[3])
	assert.Equal(t, decimal.NullDecimal{}, args[5])
	assert.Equal(t, "c1", args[10])
	assert.Equal(t, now, args[18])
}

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "allservice", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=allservice sslmode=disable", DSN(cfg))
}

func TestWrapClampsLimit(t *testing.T) {
	db := Wrap(nil, 0)
	assert.True(t, db.sem.TryAcquire(1))
	assert.False(t, db.sem.TryAcquire(1))
}
