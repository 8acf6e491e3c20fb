package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"finhabit/internal/mission/metrics"
	"finhabit/internal/mission/models"
	id "finhabit/pkg/domain"
	pstrings "finhabit/pkg/platform/strings"
)

const (
	eligibleKeyPrefix = "mission:catalog:eligible:"
	templateKeyPrefix = "mission:catalog:template:"
)

// Source is the catalog a Cached decorator reads through to.
type Source interface {
	ListEligible(ctx context.Context, level int) ([]*models.TaskTemplate, error)
	FindByIDs(ctx context.Context, ids []id.TemplateID) (map[id.TemplateID]*models.TaskTemplate, error)
}

// Cached is a Redis read-through cache in front of a Source.
// Templates are immutable, so entries only expire by TTL. Redis failures
// degrade to the Source and are logged, never returned.
type Cached struct {
	source  Source
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// CachedOption configures a Cached catalog.
type CachedOption func(*Cached)

// WithCacheLogger sets the logger for cache degradation warnings.
func WithCacheLogger(logger *slog.Logger) CachedOption {
	return func(c *Cached) {
		c.logger = logger
	}
}

// WithCacheMetrics records hit and miss counts.
func WithCacheMetrics(m *metrics.Metrics) CachedOption {
	return func(c *Cached) {
		c.metrics = m
	}
}

// NewCached wraps source with a Redis cache holding entries for ttl.
func NewCached(source Source, client *redis.Client, ttl time.Duration, opts ...CachedOption) *Cached {
	c := &Cached{
		source: source,
		client: client,
		ttl:    ttl,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *Cached) ListEligible(ctx context.Context, level int) ([]*models.TaskTemplate, error) {
	key := eligibleKeyPrefix + strconv.Itoa(level)
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var templates []*models.TaskTemplate
		if jsonErr := json.Unmarshal(raw, &templates); jsonErr == nil {
			c.metrics.RecordCatalogCacheHit()
			return templates, nil
		}
		c.logger.WarnContext(ctx, "discarding corrupt catalog cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	}
	c.metrics.RecordCatalogCacheMiss()

	templates, err := c.source.ListEligible(ctx, level)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(templates); err == nil {
		if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
		}
	}
	return templates, nil
}

func (c *Cached) FindByIDs(ctx context.Context, ids []id.TemplateID) (map[id.TemplateID]*models.TaskTemplate, error) {
	out := make(map[id.TemplateID]*models.TaskTemplate, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ids = pstrings.Dedupe(ids)
	keys := make([]string, len(ids))
	for i, templateID := range ids {
		keys[i] = templateKeyPrefix + templateID.String()
	}

	var missing []id.TemplateID
	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "catalog cache read failed", "keys", len(keys), "error", err)
		missing = ids
	} else {
		for i, v := range values {
			if t := decodeTemplate(v); t != nil {
				out[ids[i]] = t
				continue
			}
			missing = append(missing, ids[i])
		}
	}
	if len(missing) == 0 {
		c.metrics.RecordCatalogCacheHit()
		return out, nil
	}
	c.metrics.RecordCatalogCacheMiss()

	loaded, err := c.source.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	pipe := c.client.Pipeline()
	for templateID, t := range loaded {
		out[templateID] = t
		if payload, err := json.Marshal(t); err == nil {
			pipe.Set(ctx, templateKeyPrefix+templateID.String(), payload, c.ttl)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "keys", len(loaded), "error", err)
	}
	return out, nil
}

// Invalidate drops every cached eligibility list. Call after adding templates.
func (c *Cached) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, eligibleKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan catalog cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate catalog cache: %w", err)
	}
	return nil
}

func decodeTemplate(v any) *models.TaskTemplate {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	var t models.TaskTemplate
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return nil
	}
	return &t
}
