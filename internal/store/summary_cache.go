package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"hrms.console/internal/core/model"
)

type summaryFetcher interface {
	AttendanceSummary(ctx context.Context, employeeID string) (*model.AttendanceSummary, error)
}

// SummaryCache memoizes per-employee attendance summaries. A fetch is only
// issued when no entry exists for the key; entries never expire on their own
// and are evicted explicitly after a successful attendance write for that
// employee. A failed fetch writes no entry and surfaces no error, the
// summary panel simply stays empty until a later fetch succeeds.
type SummaryCache struct {
	client summaryFetcher

	mu      sync.Mutex
	entries map[string]model.AttendanceSummary
}

func NewSummaryCache(client summaryFetcher) *SummaryCache {
	return &SummaryCache{
		client:  client,
		entries: make(map[string]model.AttendanceSummary),
	}
}

// Get returns the summary for employeeID, fetching it on a miss. ok is
// false when the employee has no cached entry and the fetch failed.
func (c *SummaryCache) Get(ctx context.Context, employeeID string) (model.AttendanceSummary, bool) {
	c.mu.Lock()
	if s, hit := c.entries[employeeID]; hit {
		c.mu.Unlock()
		return s, true
	}
	c.mu.Unlock()

	summary, err := c.client.AttendanceSummary(ctx, employeeID)
	if err != nil {
		// Swallowed on purpose: the panel omits the stats block instead
		// of reporting; the next Get for this key tries again.
		log.Ctx(ctx).Debug().Err(err).Str("employee_id", employeeID).Msg("summary fetch failed")
		return model.AttendanceSummary{}, false
	}

	c.mu.Lock()
	c.entries[employeeID] = *summary
	c.mu.Unlock()
	return *summary, true
}

// Evict drops the entry for employeeID, if any. Other keys are untouched.
func (c *SummaryCache) Evict(employeeID string) {
	c.mu.Lock()
	delete(c.entries, employeeID)
	c.mu.Unlock()
}

// Refresh is the manual retry affordance: it discards whatever is cached
// for employeeID and fetches fresh.
func (c *SummaryCache) Refresh(ctx context.Context, employeeID string) (model.AttendanceSummary, bool) {
	c.Evict(employeeID)
	return c.Get(ctx, employeeID)
}
