package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"survey-service/internal/domain"
)

// ReportSource computes a fresh analytics report from the backing store.
type ReportSource interface {
	ComputeReport(ctx context.Context, surveyID string) (domain.AnalyticsReport, error)
}

// ReportCache caches analytics reports with TTL to avoid recomputing the
// aggregation on every dashboard poll.
type ReportCache struct {
	source ReportSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedReport
}

type cachedReport struct {
	report    domain.AnalyticsReport
	expiresAt time.Time
}

func NewReportCache(source ReportSource, ttl time.Duration) *ReportCache {
	return &ReportCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedReport),
	}
}

func (c *ReportCache) GetReport(ctx context.Context, surveyID string) (domain.AnalyticsReport, error) {
	now := c.clock()

	c.mu.RLock()
	if entry, ok := c.cache[surveyID]; ok && entry.expiresAt.After(now) {
		c.mu.RUnlock()
		return entry.report, nil
	}
	c.mu.RUnlock()

	result, err, _ := c.sf.Do(surveyID, func() (interface{}, error) {
		now := c.clock()
		c.mu.RLock()
		if entry, ok := c.cache[surveyID]; ok && entry.expiresAt.After(now) {
			c.mu.RUnlock()
			return entry.report, nil
		}
		c.mu.RUnlock()

		report, err := c.source.ComputeReport(ctx, surveyID)
		if err != nil {
			return domain.AnalyticsReport{}, err
		}

		c.mu.Lock()
		c.cache[surveyID] = cachedReport{
			report:    report,
			expiresAt: now.Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return report, nil
	})
	if err != nil {
		return domain.AnalyticsReport{}, err
	}
	return result.(domain.AnalyticsReport), nil
}

// Invalidate drops the cached report after a submission or deletion.
func (c *ReportCache) Invalidate(_ context.Context, surveyID string) error {
	c.mu.Lock()
	delete(c.cache, surveyID)
	c.mu.Unlock()
	return nil
}

func (c *ReportCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
