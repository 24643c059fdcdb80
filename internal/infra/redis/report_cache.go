package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"survey-service/internal/domain"
)

// ReportSource computes a fresh analytics report from the backing store.
type ReportSource interface {
	ComputeReport(ctx context.Context, surveyID string) (domain.AnalyticsReport, error)
}

// ReportCache stores analytics reports as JSON values in Redis:
// SET survey:{surveyID}:analytics {report JSON} with a jittered TTL.
// Concurrent misses for the same survey are collapsed via singleflight.
type ReportCache struct {
	client *redis.Client
	source ReportSource
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewReportCache(client *redis.Client, source ReportSource, ttl time.Duration) *ReportCache {
	return &ReportCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ReportCache) GetReport(ctx context.Context, surveyID string) (domain.AnalyticsReport, error) {
	key := c.key(surveyID)

	if report, ok := c.lookup(ctx, key); ok {
		return report, nil
	}

	result, err, _ := c.sf.Do(surveyID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if report, ok := c.lookup(ctx, key); ok {
			return report, nil
		}

		report, err := c.source.ComputeReport(ctx, surveyID)
		if err != nil {
			return domain.AnalyticsReport{}, err
		}

		if raw, err := json.Marshal(report); err == nil {
			// best-effort write; a failed SET only costs a recompute
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return report, nil
	})
	if err != nil {
		return domain.AnalyticsReport{}, err
	}
	return result.(domain.AnalyticsReport), nil
}

// Invalidate drops the cached report after a submission or deletion.
func (c *ReportCache) Invalidate(ctx context.Context, surveyID string) error {
	return c.client.Del(ctx, c.key(surveyID)).Err()
}

func (c *ReportCache) lookup(ctx context.Context, key string) (domain.AnalyticsReport, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.AnalyticsReport{}, false
	}
	var report domain.AnalyticsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return domain.AnalyticsReport{}, false
	}
	return report, true
}

func (c *ReportCache) key(surveyID string) string {
	return "survey:" + surveyID + ":analytics"
}

func (c *ReportCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
