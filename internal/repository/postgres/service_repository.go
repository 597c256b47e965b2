// backend-go/internal/repository/postgres/service_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/internal/repository"
	"github.com/shopspring/decimal"
)

type serviceRepository struct {
	db *DB
}

func NewServiceRepository(db *DB) *serviceRepository {
	return &serviceRepository{db: db}
}

const listServicesQuery = `
	SELECT
		id::text AS id, data, nota_fiscal, valor_total, imposto, valor_imposto,
		valor_liquido, tipo_pagamento, status, data_vencimento,
		id_empresa::text AS id_empresa, id_usuario::text AS id_usuario,
		cliente_certificado, descricao_peca, observacao, observacao_interna,
		quantidade_pecas, diamentro_peca, largura_peca, largura_total_peca,
		peso_peca, rpm_peca, plano_um_permitido, plano_dois_permitido,
		plano_um_encontrado, plano_dois_encontrado, raio_plano_um,
		raio_plano_dois, remanescente_plano_um, remanescente_plano_dois
	FROM servico
	ORDER BY data DESC NULLS LAST, data_criacao DESC NULLS LAST
	LIMIT $1
`

// serviceRow mirrors one servico row; every column but the ids is nullable.
type serviceRow struct {
	ID              string              `db:"id"`
	Date            sql.NullTime        `db:"data"`
	InvoiceNumber   sql.NullString      `db:"nota_fiscal"`
	GrossValue      decimal.NullDecimal `db:"valor_total"`
	TaxType         sql.NullString      `db:"imposto"`
	TaxValue        decimal.NullDecimal `db:"valor_imposto"`
	NetValue        decimal.NullDecimal `db:"valor_liquido"`
	PaymentType     sql.NullString      `db:"tipo_pagamento"`
	Status          sql.NullString      `db:"status"`
	DueDate         sql.NullTime        `db:"data_vencimento"`
	CompanyID       string              `db:"id_empresa"`
	UserID          string              `db:"id_usuario"`
	CertifiedClient sql.NullString      `db:"cliente_certificado"`
	PartDescription sql.NullString      `db:"descricao_peca"`
	Notes           sql.NullString      `db:"observacao"`
	InternalNotes   sql.NullString      `db:"observacao_interna"`

	PartQuantity      sql.NullInt64       `db:"quantidade_pecas"`
	Diameter          decimal.NullDecimal `db:"diamentro_peca"`
	Width             decimal.NullDecimal `db:"largura_peca"`
	TotalWidth        decimal.NullDecimal `db:"largura_total_peca"`
	Weight            decimal.NullDecimal `db:"peso_peca"`
	RPM               sql.NullInt64       `db:"rpm_peca"`
	PlaneOneAllowed   decimal.NullDecimal `db:"plano_um_permitido"`
	PlaneTwoAllowed   decimal.NullDecimal `db:"plano_dois_permitido"`
	PlaneOneFound     decimal.NullDecimal `db:"plano_um_encontrado"`
	PlaneTwoFound     decimal.NullDecimal `db:"plano_dois_encontrado"`
	PlaneOneRadius    decimal.NullDecimal `db:"raio_plano_um"`
	PlaneTwoRadius    decimal.NullDecimal `db:"raio_plano_dois"`
	PlaneOneRemainder decimal.NullDecimal `db:"remanescente_plano_um"`
	PlaneTwoRemainder decimal.NullDecimal `db:"remanescente_plano_dois"`
}

func (row serviceRow) toRaw() domain.RawServiceRecord {
	id := row.ID
	return domain.RawServiceRecord{
		ID:              &id,
		Date:            dateOrNil(row.Date),
		InvoiceNumber:   stringOrNil(row.InvoiceNumber),
		GrossValue:      decimalOrNil(row.GrossValue),
		TaxType:         stringOrNil(row.TaxType),
		TaxValue:        decimalOrNil(row.TaxValue),
		NetValue:        decimalOrNil(row.NetValue),
		PaymentType:     row.PaymentType.String,
		Status:          row.Status.String,
		DueDate:         dateOrNil(row.DueDate),
		CertifiedClient: stringOrNil(row.CertifiedClient),
		PartDescription: stringOrNil(row.PartDescription),
		Notes:           stringOrNil(row.Notes),
		InternalNotes:   stringOrNil(row.InternalNotes),
		CompanyID:       row.CompanyID,
		UserID:          row.UserID,
		Measurements: domain.Measurements{
			PartQuantity:      intOrNil(row.PartQuantity),
			Diameter:          decimalOrNil(row.Diameter),
			Width:             decimalOrNil(row.Width),
			TotalWidth:        decimalOrNil(row.TotalWidth),
			Weight:            decimalOrNil(row.Weight),
			RPM:               intOrNil(row.RPM),
			PlaneOneAllowed:   decimalOrNil(row.PlaneOneAllowed),
			PlaneTwoAllowed:   decimalOrNil(row.PlaneTwoAllowed),
			PlaneOneFound:     decimalOrNil(row.PlaneOneFound),
			PlaneTwoFound:     decimalOrNil(row.PlaneTwoFound),
			PlaneOneRadius:    decimalOrNil(row.PlaneOneRadius),
			PlaneTwoRadius:    decimalOrNil(row.PlaneTwoRadius),
			PlaneOneRemainder: decimalOrNil(row.PlaneOneRemainder),
			PlaneTwoRemainder: decimalOrNil(row.PlaneTwoRemainder),
		},
	}
}

// ListServices returns at most limit services, newest first.
func (r *serviceRepository) ListServices(ctx context.Context, limit int) ([]domain.RawServiceRecord, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, listServicesQuery, limit); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	records := make([]domain.RawServiceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toRaw())
	}
	return records, nil
}

func (r *serviceRepository) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var company domain.Company
	query := `
		SELECT id::text AS id, razao_social AS name, COALESCE(cnpj, '') AS tax_id
		FROM empresa
		WHERE id::text = $1
	`
	if err := r.db.GetContext(ctx, &company, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company %s: %w", id, err)
	}
	return &company, nil
}

func (r *serviceRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	release, err := r.db.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var user domain.User
	query := `SELECT id::text AS id, nome AS name FROM usuario WHERE id::text = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return &user, nil
}

func (r *serviceRepository) ImportSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		return UpsertSnapshot(ctx, tx, snapshot)
	})
}

// UpsertSnapshot writes companies, users and services inside tx. Services
// without an id are skipped.
func UpsertSnapshot(ctx context.Context, tx *sql.Tx, snapshot domain.Snapshot) error {
	// 1. Companies
	companyStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO empresa (id, razao_social, cnpj, endereco)
		VALUES ($1, $2, $3, '')
		ON CONFLICT (id) DO UPDATE SET
			razao_social = EXCLUDED.razao_social,
			cnpj = EXCLUDED.cnpj
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare company statement: %w", err)
	}
	defer companyStmt.Close()

	for _, c := range snapshot.Companies {
		if _, err := companyStmt.ExecContext(ctx, c.ID, c.Name, c.TaxID); err != nil {
			return fmt.Errorf("failed to upsert company %s: %w", c.ID, err)
		}
	}

	// 2. Users
	userStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO usuario (id, nome)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET nome = EXCLUDED.nome
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare user statement: %w", err)
	}
	defer userStmt.Close()

	for _, u := range snapshot.Users {
		if _, err := userStmt.ExecContext(ctx, u.ID, u.Name); err != nil {
			return fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
		}
	}

	// 3. Services
	serviceStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO servico (
			id, data, nota_fiscal, valor_total, imposto, valor_imposto,
			valor_liquido, tipo_pagamento, status, data_vencimento,
			id_empresa, id_usuario, cliente_certificado, descricao_peca,
			observacao, observacao_interna, quantidade_pecas, rpm_peca,
			data_criacao, data_atualizacao
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $19
		)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data,
			nota_fiscal = EXCLUDED.nota_fiscal,
			valor_total = EXCLUDED.valor_total,
			imposto = EXCLUDED.imposto,
			valor_imposto = EXCLUDED.valor_imposto,
			valor_liquido = EXCLUDED.valor_liquido,
			tipo_pagamento = EXCLUDED.tipo_pagamento,
			status = EXCLUDED.status,
			data_vencimento = EXCLUDED.data_vencimento,
			id_empresa = EXCLUDED.id_empresa,
			id_usuario = EXCLUDED.id_usuario,
			cliente_certificado = EXCLUDED.cliente_certificado,
			descricao_peca = EXCLUDED.descricao_peca,
			observacao = EXCLUDED.observacao,
			observacao_interna = EXCLUDED.observacao_interna,
			quantidade_pecas = EXCLUDED.quantidade_pecas,
			rpm_peca = EXCLUDED.rpm_peca,
			data_atualizacao = EXCLUDED.data_atualizacao
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare service statement: %w", err)
	}
	defer serviceStmt.Close()

	now := time.Now()
	for _, s := range snapshot.Services {
		if s.ID == nil || *s.ID == "" {
			continue
		}
		_, err := serviceStmt.ExecContext(ctx, serviceArgs(s, now)...)
		if err != nil {
			return fmt.Errorf("failed to upsert service %s: %w", *s.ID, err)
		}
	}

	return nil
}

func serviceArgs(s domain.RawServiceRecord, now time.Time) []any {
	return []any{
		*s.ID,
		s.Date,
		s.InvoiceNumber,
		nullableDecimal(s.GrossValue),
		s.TaxType,
		nullableDecimal(s.TaxValue),
		nullableDecimal(s.NetValue),
		s.PaymentType,
		s.Status,
		s.DueDate,
		s.CompanyID,
		s.UserID,
		s.CertifiedClient,
		s.PartDescription,
		s.Notes,
		s.InternalNotes,
		s.PartQuantity,
		s.RPM,
		now,
	}
}

func nullableDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func decimalOrNil(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func stringOrNil(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func intOrNil(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func dateOrNil(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	v := t.Time.Format(time.DateOnly)
	return &v
}

var _ repository.ServiceRepository = (*serviceRepository)(nil)
