package ors

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"kompas/internal/domain/entity"
)

// QuotaTracker captures the rate-limit side channel. The geocoding and
// directions endpoints share one daily quota per API key, so both clients
// record into the same tracker.
type QuotaTracker struct {
	mu     sync.RWMutex
	status entity.RateLimitStatus
	seen   bool
}

// NewQuotaTracker creates the shared rate-limit tracker.
func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{}
}

// Record captures the rate-limit headers of one response. The reset header
// has been observed as a millisecond epoch, a second epoch and a plain delta
// in seconds, so all three are accepted.
func (t *QuotaTracker) Record(header http.Header) {
	remaining, remainingErr := strconv.Atoi(header.Get("X-Ratelimit-Remaining"))
	limit, limitErr := strconv.Atoi(header.Get("X-Ratelimit-Limit"))
	if remainingErr != nil && limitErr != nil {
		return
	}

	status := entity.RateLimitStatus{Observed: time.Now()}
	if remainingErr == nil {
		status.Remaining = remaining
	}
	if limitErr == nil {
		status.Limit = limit
	}
	if reset, err := strconv.ParseInt(header.Get("X-Ratelimit-Reset"), 10, 64); err == nil {
		status.Reset = parseReset(reset, status.Observed)
	}

	t.mu.Lock()
	t.status = status
	t.seen = true
	t.mu.Unlock()
}

// Status returns the last observed quota, false before any call recorded one.
func (t *QuotaTracker) Status() (entity.RateLimitStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.status, t.seen
}

func parseReset(raw int64, now time.Time) time.Time {
	switch {
	case raw > 1_000_000_000_000:
		return time.UnixMilli(raw)
	case raw > 1_000_000_000:
		return time.Unix(raw, 0)
	default:
		return now.Add(time.Duration(raw) * time.Second)
	}
}
