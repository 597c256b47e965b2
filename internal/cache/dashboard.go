package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/allservice/backend-go/internal/config"
	"github.com/andresuchdata/allservice/backend-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	dashboardSummaryKeyPrefix = "dashboard:summary"
	scanBatchSize             = 100
)

// DashboardSummaryCache stores computed summaries per filter and as-of day.
// Aging and overdue figures depend on the current date, so entries never
// outlive the day they were computed for.
type DashboardSummaryCache interface {
	GetSummary(ctx context.Context, filter domain.FilterDescriptor, asOf time.Time) (*domain.DashboardSummary, bool, error)
	SetSummary(ctx context.Context, filter domain.FilterDescriptor, asOf time.Time, summary *domain.DashboardSummary) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardSummaryCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func NewNoopDashboardCache() DashboardSummaryCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, filter domain.FilterDescriptor, asOf time.Time) (*domain.DashboardSummary, bool, error) {
	key := buildDashboardSummaryKey(filter, asOf)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, false, fmt.Errorf("decode dashboard summary cache: %w", err)
	}

	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, filter domain.FilterDescriptor, asOf time.Time, summary *domain.DashboardSummary) error {
	key := buildDashboardSummaryKey(filter, asOf)
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode dashboard summary cache: %w", err)
	}

	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardSummaryKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) GetSummary(ctx context.Context, filter domain.FilterDescriptor, asOf time.Time) (*domain.DashboardSummary, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) SetSummary(ctx context.Context, filter domain.FilterDescriptor, asOf time.Time, summary *domain.DashboardSummary) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

// buildDashboardSummaryKey is insensitive to the order of multi-valued
// filter fields.
func buildDashboardSummaryKey(filter domain.FilterDescriptor, asOf time.Time) string {
	prefix := fmt.Sprintf("%s:%s", dashboardSummaryKeyPrefix, asOf.UTC().Format(time.DateOnly))

	var parts []string
	addSet := func(name string, values []string) {
		if len(values) == 0 {
			return
		}
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		parts = append(parts, name+"="+strings.Join(sorted, ","))
	}
	addValue := func(name, value string) {
		if value != "" {
			parts = append(parts, name+"="+value)
		}
	}

	addSet("status", toStrings(filter.Statuses))
	addSet("segment", filter.Segments)
	addSet("payment", toStrings(filter.PaymentTypes))
	addSet("tax", toStrings(filter.TaxTypes))
	addValue("start", filter.Period.Start)
	addValue("end", filter.Period.End)
	addValue("q", strings.ToLower(strings.TrimSpace(filter.SearchTerm)))
	addValue("scope", string(filter.Scope))
	addValue("chart_status", string(filter.ChartStatus))
	addValue("chart_month", filter.ChartMonth)
	addValue("chart_tax", string(filter.ChartTaxType))

	if len(parts) == 0 {
		return prefix + ":default"
	}

	raw := strings.Join(parts, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
