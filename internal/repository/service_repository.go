// backend-go/internal/repository/service_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
)

// ErrNotFound is returned when a company or user id has no row.
var ErrNotFound = errors.New("not found")

type ServiceRepository interface {
	ListServices(ctx context.Context, limit int) ([]domain.RawServiceRecord, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)

	// ImportSnapshot upserts companies, users and services in one transaction.
	ImportSnapshot(ctx context.Context, snapshot domain.Snapshot) error
}
