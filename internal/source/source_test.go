package source

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/analytics"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/andresuchdata/allservice/backend-go/internal/repository"
	"github.com/andresuchdata/allservice/backend-go/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	services  []domain.RawServiceRecord
	companies map[string]domain.Company
	users     map[string]domain.User
	listErr   error
	gate      chan struct{}

	lists          atomic.Int32
	companyLookups atomic.Int32
	userLookups    atomic.Int32
	lastLimit      atomic.Int32
}

func (f *fakeBackend) ListServices(ctx context.Context, limit int) ([]domain.RawServiceRecord, error) {
	f.lists.Add(1)
	f.lastLimit.Store(int32(limit))
	if f.gate != nil {
		<-f.gate
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.services, nil
}

func (f *fakeBackend) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	f.companyLookups.Add(1)
	c, ok := f.companies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (f *fakeBackend) GetUser(ctx context.Context, id string) (*domain.User, error) {
	f.userLookups.Add(1)
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func strPtr(s string) *string { return &s }

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		services: []domain.RawServiceRecord{
			{ID: strPtr("s1"), Date: strPtr("2024-03-01"), Status: "FINALIZADO", PaymentType: "PIX", CompanyID: "c1", UserID: "u1"},
			{ID: strPtr("s2"), Date: strPtr("2024-03-02"), Status: "ORCAMENTO", PaymentType: "BOLETO", CompanyID: "c1", UserID: "u2"},
			{ID: strPtr("s3"), Date: strPtr("2024-03-03"), Status: "ORDEM_SERVICO", PaymentType: "PIX", CompanyID: "c-missing", UserID: "u1"},
		},
		companies: map[string]domain.Company{"c1": {ID: "c1", Name: "Metalúrgica Alfa", TaxID: "00.000.000/0001-00"}},
		users:     map[string]domain.User{"u1": {ID: "u1", Name: "Ana"}, "u2": {ID: "u2", Name: "Bruno"}},
	}
}

func fixedNow() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }

func TestFetchResolvesReferences(t *testing.T) {
	backend := newFakeBackend()
	src := New(backend, Options{Now: fixedNow})

	records, err := src.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, int32(DefaultPageSize), backend.lastLimit.Load())
	assert.Equal(t, "Metalúrgica Alfa", records[0].Company.Name)
	assert.Equal(t, "Bruno", records[1].ResponsibleUser.Name)
	assert.Equal(t, analytics.UnidentifiedName, records[2].Company.Name)
	assert.Equal(t, "c-missing", records[2].Company.ID)
	assert.Equal(t, int32(2), backend.companyLookups.Load())
	assert.Equal(t, int32(2), backend.userLookups.Load())
}

func TestFetchReturnsCachedCollection(t *testing.T) {
	backend := newFakeBackend()
	src := New(backend, Options{Now: fixedNow})

	_, err := src.Fetch(context.Background(), false)
	require.NoError(t, err)
	_, err = src.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int32(1), backend.lists.Load())

	_, err = src.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, int32(2), backend.lists.Load())
	// Resolved ids are cached; only the failed company is retried.
	assert.Equal(t, int32(3), backend.companyLookups.Load())
	assert.Equal(t, int32(2), backend.userLookups.Load())
}

func TestFetchSharesInFlightLoad(t *testing.T) {
	backend := newFakeBackend()
	backend.gate = make(chan struct{})
	src := New(backend, Options{Now: fixedNow})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := src.Fetch(context.Background(), false)
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return backend.lists.Load() >= 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(backend.gate)
	wg.Wait()

	assert.Equal(t, int32(1), backend.lists.Load())
}

func TestFetchErrors(t *testing.T) {
	_, err := New(nil, Options{}).Fetch(context.Background(), false)
	assert.True(t, errors.Is(err, ErrNoBackend))

	boom := errors.New("connection refused")
	backend := newFakeBackend()
	backend.listErr = boom
	_, err = New(backend, Options{}).Fetch(context.Background(), true)
	assert.True(t, errors.Is(err, boom))
}

type memoryStorage struct {
	objects map[string][]byte
}

func (m *memoryStorage) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func (m *memoryStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (m *memoryStorage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	m.objects[key] = data
	return nil
}

const snapshotDoc = `{
	"services": [
		{"id": "s1", "date": "2024-03-01", "gross_value": "1500.00", "status": "FINALIZED", "payment_type": "PIX", "company_id": "c1", "user_id": "u1"},
		{"id": "s2", "date": "2024-03-02", "gross_value": 300, "status": "ORDER", "payment_type": "CASH", "company_id": "c2", "user_id": "u1"}
	],
	"companies": [{"id": "c1", "name": "Alfa", "tax_id": "11"}],
	"users": [{"id": "u1", "name": "Ana"}]
}`

func TestSnapshotBackend(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{"snapshots/services.json": []byte(snapshotDoc)}}
	src := New(NewSnapshotBackend(store, "snapshots/services.json"), Options{Now: fixedNow})

	records, err := src.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alfa", records[0].Company.Name)
	assert.Equal(t, "1500", records[0].GrossValue.String())
	assert.Equal(t, analytics.UnidentifiedName, records[1].Company.Name)
	assert.Equal(t, "Ana", records[1].ResponsibleUser.Name)
}

func TestSnapshotBackendLimitAndMissingObject(t *testing.T) {
	store := &memoryStorage{objects: map[string][]byte{"k": []byte(snapshotDoc)}}
	backend := NewSnapshotBackend(store, "k")

	services, err := backend.ListServices(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, services, 1)

	_, err = NewSnapshotBackend(store, "missing").ListServices(context.Background(), 10)
	assert.True(t, errors.Is(err, storage.ErrObjectNotFound))

	store.objects["bad"] = []byte("{")
	_, err = NewSnapshotBackend(store, "bad").ListServices(context.Background(), 10)
	assert.Error(t, err)
}
