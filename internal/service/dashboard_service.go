package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/analytics"
	"github.com/andresuchdata/allservice/backend-go/internal/cache"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
)

// LoadErrorMessage is shown to users when the record collection could not
// be loaded.
const LoadErrorMessage = "Não foi possível carregar os dados do dashboard."

// ErrNotLoaded is returned by Ready until a load has succeeded.
var ErrNotLoaded = errors.New("service records not loaded")

// RecordLoader yields the normalized record collection.
type RecordLoader interface {
	Fetch(ctx context.Context, force bool) ([]domain.ServiceRecord, error)
}

// LoadState describes the loaded collection for health reporting.
type LoadState struct {
	Loaded   bool       `json:"loaded"`
	Loading  bool       `json:"loading"`
	Records  int        `json:"records"`
	Error    string     `json:"error,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

type DashboardService struct {
	loader   RecordLoader
	cache    cache.DashboardSummaryCache
	segments analytics.Segments
	now      func() time.Time

	mu       sync.RWMutex
	records  []domain.ServiceRecord
	loading  bool
	loaded   bool
	lastErr  string
	loadedAt time.Time
}

func NewDashboardService(loader RecordLoader, cacheImpl cache.DashboardSummaryCache, segments analytics.Segments, now func() time.Time) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		loader:   loader,
		cache:    cacheImpl,
		segments: segments,
		now:      now,
	}
}

// Load fetches the record collection. It does nothing while another load is
// running unless force is set, or once a load succeeded unless force is set.
// On failure the previous collection is kept and the error is recorded.
func (s *DashboardService) Load(ctx context.Context, force bool) error {
	s.mu.Lock()
	if !force && (s.loading || s.loaded) {
		s.mu.Unlock()
		return nil
	}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	records, err := s.loader.Fetch(ctx, force)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		log.Error().Err(err).Bool("force", force).Msg("dashboard: failed to load services")
		s.lastErr = LoadErrorMessage
		s.loaded = false
		return err
	}

	s.records = records
	s.loaded = true
	s.loadedAt = s.now()
	return nil
}

// Refresh forces a reload and drops every cached summary.
func (s *DashboardService) Refresh(ctx context.Context) (LoadState, error) {
	err := s.Load(ctx, true)
	if err == nil {
		if cerr := s.cache.InvalidateAll(ctx); cerr != nil {
			log.Warn().Err(cerr).Msg("dashboard: cache invalidate failed")
		}
	}
	return s.State(), err
}

// State reports the current load state.
func (s *DashboardService) State() LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := LoadState{
		Loaded:  s.loaded,
		Loading: s.loading,
		Records: len(s.records),
		Error:   s.lastErr,
	}
	if !s.loadedAt.IsZero() {
		at := s.loadedAt
		state.LoadedAt = &at
	}
	return state
}

// Ready returns ErrNotLoaded until a load has succeeded.
func (s *DashboardService) Ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	return nil
}

// collection triggers the initial load if needed and returns the current
// records. A failed load yields the previous, possibly empty, collection.
func (s *DashboardService) collection(ctx context.Context) []domain.ServiceRecord {
	_ = s.Load(ctx, false)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

func (s *DashboardService) GetSummary(ctx context.Context, filter domain.FilterDescriptor) (*domain.DashboardSummary, error) {
	now := s.now()
	filter.Scope = domain.SearchScopeDashboard

	records := s.collection(ctx)

	if summary, ok, err := s.cache.GetSummary(ctx, filter, now); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get summary failed")
	}

	summary := analytics.BuildDashboard(records, filter, s.segments, now)

	// Summaries of a failed load are not cached so the next request retries.
	if s.Ready() == nil {
		if err := s.cache.SetSummary(ctx, filter, now, &summary); err != nil {
			log.Warn().Err(err).Msg("dashboard: cache set summary failed")
		}
	}

	return &summary, nil
}

func (s *DashboardService) GetFilterOptions(ctx context.Context) domain.FilterOptions {
	return analytics.BuildFilterOptions(s.collection(ctx), s.segments)
}

// reportRecords applies a report-scoped filter to the collection.
func (s *DashboardService) reportRecords(ctx context.Context, filter domain.FilterDescriptor) (all, filtered []domain.ServiceRecord) {
	filter.Scope = domain.SearchScopeReport
	all = s.collection(ctx)
	return all, analytics.Filter(all, filter, s.segments)
}

func (s *DashboardService) GetReportKPIs(ctx context.Context, filter domain.FilterDescriptor) domain.ReportKPIs {
	all, filtered := s.reportRecords(ctx, filter)
	return analytics.ReportKPIs(filtered, len(all))
}

func (s *DashboardService) GetReportGroups(ctx context.Context, filter domain.FilterDescriptor, key domain.GroupKey) []domain.GroupSummary {
	_, filtered := s.reportRecords(ctx, filter)
	return analytics.GroupBy(filtered, key)
}

func (s *DashboardService) GetReportTimeline(ctx context.Context, filter domain.FilterDescriptor) []domain.PeriodTotals {
	_, filtered := s.reportRecords(ctx, filter)
	return analytics.MonthlyTimeline(filtered)
}

func (s *DashboardService) GetReportTaxes(ctx context.Context, filter domain.FilterDescriptor) []domain.TaxBreakdown {
	_, filtered := s.reportRecords(ctx, filter)
	return analytics.TaxBreakdown(filtered)
}

// PreviewTaxRate recalculates taxes on a copy of the collection; nothing is
// persisted.
func (s *DashboardService) PreviewTaxRate(ctx context.Context, req domain.TaxRecalculation) (domain.TaxRecalculationResult, error) {
	_, result, err := analytics.ApplyTaxRate(s.collection(ctx), req, s.now())
	return result, err
}
