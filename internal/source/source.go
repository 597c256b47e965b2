// Package source loads service records from a backend, resolves their
// company and user references and normalizes them for the engine.
package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/analytics"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultPageSize          = 200
	DefaultLookupConcurrency = 8
)

// ErrNoBackend is returned by Fetch when no backend was configured.
var ErrNoBackend = errors.New("no record backend configured")

// Backend is the read side of a record store.
type Backend interface {
	ListServices(ctx context.Context, limit int) ([]domain.RawServiceRecord, error)
	GetCompany(ctx context.Context, id string) (*domain.Company, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type Options struct {
	PageSize          int
	LookupConcurrency int
	Now               func() time.Time
}

type Source struct {
	backend Backend
	opts    Options
	flight  singleflight.Group

	mu        sync.RWMutex
	records   []domain.ServiceRecord
	loaded    bool
	companies map[string]domain.Company
	users     map[string]domain.User
}

func New(backend Backend, opts Options) *Source {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.LookupConcurrency <= 0 {
		opts.LookupConcurrency = DefaultLookupConcurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Source{
		backend:   backend,
		opts:      opts,
		companies: make(map[string]domain.Company),
		users:     make(map[string]domain.User),
	}
}

// Fetch returns the loaded collection, loading it first when nothing is
// loaded yet or force is set. Concurrent non-forced calls share one load;
// a forced call always runs its own.
func (s *Source) Fetch(ctx context.Context, force bool) ([]domain.ServiceRecord, error) {
	if !force {
		s.mu.RLock()
		if s.loaded {
			records := s.records
			s.mu.RUnlock()
			return records, nil
		}
		s.mu.RUnlock()

		v, err, _ := s.flight.Do("services", func() (any, error) {
			return s.load(ctx)
		})
		if err != nil {
			return nil, err
		}
		return v.([]domain.ServiceRecord), nil
	}
	return s.load(ctx)
}

func (s *Source) load(ctx context.Context) ([]domain.ServiceRecord, error) {
	if s.backend == nil {
		return nil, ErrNoBackend
	}

	start := time.Now()
	raws, err := s.backend.ListServices(ctx, s.opts.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	if err := s.resolveReferences(ctx, raws); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := analytics.NormalizeAll(raws, s.companies, s.users, s.opts.Now())
	s.records = records
	s.loaded = true

	log.Info().
		Int("services", len(records)).
		Int("companies", len(s.companies)).
		Int("users", len(s.users)).
		Dur("took", time.Since(start)).
		Msg("service records loaded")

	return records, nil
}

// resolveReferences looks up every company and user id not cached yet. A
// failed lookup is logged and left unresolved; the normalizer substitutes a
// placeholder for it.
func (s *Source) resolveReferences(ctx context.Context, raws []domain.RawServiceRecord) error {
	companyIDs, userIDs := s.missingIDs(raws)
	if len(companyIDs) == 0 && len(userIDs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.LookupConcurrency)

	for _, id := range companyIDs {
		g.Go(func() error {
			company, err := s.backend.GetCompany(gctx, id)
			if err != nil {
				log.Warn().Err(err).Str("company_id", id).Msg("company lookup failed")
				return nil
			}
			s.mu.Lock()
			s.companies[id] = *company
			s.mu.Unlock()
			return nil
		})
	}
	for _, id := range userIDs {
		g.Go(func() error {
			user, err := s.backend.GetUser(gctx, id)
			if err != nil {
				log.Warn().Err(err).Str("user_id", id).Msg("user lookup failed")
				return nil
			}
			s.mu.Lock()
			s.users[id] = *user
			s.mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("resolve references: %w", err)
	}
	return nil
}

func (s *Source) missingIDs(raws []domain.RawServiceRecord) (companies, users []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seenCompany := make(map[string]bool)
	seenUser := make(map[string]bool)
	for _, raw := range raws {
		if id := raw.CompanyID; id != "" && !seenCompany[id] {
			seenCompany[id] = true
			if _, ok := s.companies[id]; !ok {
				companies = append(companies, id)
			}
		}
		if id := raw.UserID; id != "" && !seenUser[id] {
			seenUser[id] = true
			if _, ok := s.users[id]; !ok {
				users = append(users, id)
			}
		}
	}
	return companies, users
}
