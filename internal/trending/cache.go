// Package trending maintains the time-bounded trending-books cache. Only
// page 1 is cached; other pages are computed fresh. Every failure along the
// generative path degrades silently to the static catalog.
package trending

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bookcrews/community-platform/internal/catalog"
	"github.com/bookcrews/community-platform/internal/events"
	"github.com/bookcrews/community-platform/internal/extract"
	"github.com/bookcrews/community-platform/internal/llm"
	"github.com/bookcrews/community-platform/internal/model"
	"github.com/bookcrews/community-platform/pkg/logger"
	"github.com/bookcrews/community-platform/pkg/metrics"
)

// DefaultTTL is how long the cached page-1 entry stays fresh.
const DefaultTTL = 24 * time.Hour

var errUnparseable = errors.New("reply did not contain a usable book array")

const pageSize = 5

// entry is the single cached slot. Replaced atomically on successful fetch,
// never partially written.
type entry struct {
	books       []model.BookRecommendation
	lastUpdated time.Time
}

// Cache is the single-slot trending cache.
type Cache struct {
	mu    sync.RWMutex
	slot  *entry
	ttl   time.Duration
	llm   llm.Client
	pub   events.Publisher
	log   *logger.Logger
	clock func() time.Time
}

// New creates a trending cache. client may be nil when the generative
// capability is unconfigured; every request then serves the catalog.
func New(client llm.Client, pub events.Publisher, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if pub == nil {
		pub = events.Noop{}
	}
	if client == nil {
		log.Warn("generative capability unconfigured, trending serves the catalog")
	}
	return &Cache{
		ttl:   ttl,
		llm:   client,
		pub:   pub,
		log:   log,
		clock: time.Now,
	}
}

// Get returns the trending books for page. cached reports whether the result
// came from the fresh page-1 slot. Get never fails; on any generative error
// it returns the corresponding catalog page with a fallback source.
func (c *Cache) Get(ctx context.Context, page int, force bool) ([]model.BookRecommendation, bool, model.RecommendationSource) {
	if page < 1 {
		page = 1
	}

	if page == 1 && !force {
		c.mu.RLock()
		slot := c.slot
		c.mu.RUnlock()
		if slot != nil && c.clock().Sub(slot.lastUpdated) < c.ttl {
			metrics.TrendingCacheHits.Inc()
			out := make([]model.BookRecommendation, len(slot.books))
			copy(out, slot.books)
			return out, true, model.SourceGenerative
		}
	}
	metrics.TrendingCacheMisses.Inc()

	if c.llm == nil {
		metrics.FallbackServed.WithLabelValues("trending").Inc()
		return catalog.Page(page), false, model.SourceFallback
	}

	books, err := c.fetch(ctx, page)
	if err != nil {
		c.log.Warn("trending fetch degraded to catalog",
			zap.Int("page", page),
			zap.Error(err),
		)
		metrics.FallbackServed.WithLabelValues("trending").Inc()
		return catalog.Page(page), false, model.SourceFallback
	}

	if page == 1 {
		c.mu.Lock()
		c.slot = &entry{books: books, lastUpdated: c.clock()}
		c.mu.Unlock()

		c.pub.PublishTrendingRefresh(ctx, &events.TrendingRefreshEvent{
			Forced:    force,
			Source:    model.SourceGenerative,
			Count:     len(books),
			CreatedAt: c.clock(),
		})
	}

	out := make([]model.BookRecommendation, len(books))
	copy(out, books)
	return out, false, model.SourceGenerative
}

// fetch asks the generative capability for one page of trending books.
func (c *Cache) fetch(ctx context.Context, page int) ([]model.BookRecommendation, error) {
	offset := (page - 1) * pageSize
	prompt := fmt.Sprintf(
		"Today is %s. List the %d most talked-about books right now, skipping the first %d. "+
			"Respond with ONLY a JSON array, no prose, no markdown. Each element must have the fields: "+
			`"title", "author", "genre", "description", "trendReason", "rating", "readers".`,
		c.clock().Format("January 2, 2006"), pageSize, offset,
	)

	start := time.Now()
	resp, err := c.llm.Complete(ctx, &llm.CompletionRequest{
		System:      "You are a literary trends analyst. You answer only in strict JSON.",
		Messages:    []llm.ChatMessage{{Role: string(model.RoleUser), Content: prompt}},
		MaxTokens:   1500,
		Temperature: 0.7,
	})
	if err != nil {
		metrics.RecordCompletion("trending", "error", time.Since(start).Seconds(), 0, 0)
		return nil, fmt.Errorf("completion failed: %w", err)
	}
	metrics.RecordCompletion(resp.Model, "success", time.Since(start).Seconds(), resp.TokensIn, resp.TokensOut)

	books, ok := extract.Array(resp.Content)
	if !ok {
		return nil, errUnparseable
	}
	return books, nil
}

// Prime force-populates page 1 once, best-effort. A failure leaves the slot
// empty to be repaired by the next natural access.
func (c *Cache) Prime(ctx context.Context) {
	_, _, source := c.Get(ctx, 1, true)
	c.log.Info("trending cache primed", zap.String("source", string(source)))
}

// RunMidnightRefresh forces a page-1 refresh once per day at local midnight.
// This is a freshness nudge; the TTL check alone guarantees eventual refresh.
func (c *Cache) RunMidnightRefresh(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	lastDay := c.clock().YearDay()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			day := c.clock().YearDay()
			if day != lastDay {
				lastDay = day
				c.Get(ctx, 1, true)
			}
		}
	}
}
