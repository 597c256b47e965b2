package source

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/internal/repository"
	"github.com/andresuchdata/allservice/backend-go/internal/storage"
)

// SnapshotBackend serves records from a snapshot document kept in object
// storage. The document is re-read on every ListServices call.
type SnapshotBackend struct {
	store storage.ObjectStorage
	key   string

	mu        sync.RWMutex
	companies map[string]domain.Company
	users     map[string]domain.User
}

func NewSnapshotBackend(store storage.ObjectStorage, key string) *SnapshotBackend {
	return &SnapshotBackend{
		store:     store,
		key:       key,
		companies: make(map[string]domain.Company),
		users:     make(map[string]domain.User),
	}
}

// DecodeSnapshot parses a snapshot document.
func DecodeSnapshot(data []byte) (domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func (b *SnapshotBackend) ListServices(ctx context.Context, limit int) ([]domain.RawServiceRecord, error) {
	data, err := b.store.GetObject(ctx, b.key)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", b.key, err)
	}
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	companies := make(map[string]domain.Company, len(snapshot.Companies))
	for _, c := range snapshot.Companies {
		companies[c.ID] = c
	}
	users := make(map[string]domain.User, len(snapshot.Users))
	for _, u := range snapshot.Users {
		users[u.ID] = u
	}

	b.mu.Lock()
	b.companies = companies
	b.users = users
	b.mu.Unlock()

	services := snapshot.Services
	if limit > 0 && len(services) > limit {
		services = services[:limit]
	}
	return services, nil
}

func (b *SnapshotBackend) GetCompany(_ context.Context, id string) (*domain.Company, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.companies[id]
	if !ok {
		return nil, fmt.Errorf("company %s: %w", id, repository.ErrNotFound)
	}
	return &c, nil
}

func (b *SnapshotBackend) GetUser(_ context.Context, id string) (*domain.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return &u, nil
}

var _ Backend = (*SnapshotBackend)(nil)
