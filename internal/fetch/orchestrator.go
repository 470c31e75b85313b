package fetch

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/metrics"
	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// Defaults for the fetch pipeline.
const (
	DefaultConcurrency = 5
	DefaultTimeout     = 10 * time.Second
	DefaultCooldown    = time.Second
)

// Extractor converts one page body into repository records.
type Extractor interface {
	Extract(body []byte) ([]trending.Repository, error)
}

// Orchestrator fans page retrievals out across goroutines while capping how
// many are in flight at once.
type Orchestrator struct {
	fetcher   Fetcher
	extractor Extractor
	limit     int
	timeout   time.Duration
	cooldown  time.Duration
	logger    *zap.Logger
}

// NewOrchestrator constructs an Orchestrator. Non-positive limit or timeout
// fall back to the package defaults; a negative cooldown is treated as zero.
func NewOrchestrator(
	fetcher Fetcher,
	extractor Extractor,
	limit int,
	timeout time.Duration,
	cooldown time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cooldown < 0 {
		cooldown = 0
	}
	return &Orchestrator{
		fetcher:   fetcher,
		extractor: extractor,
		limit:     limit,
		timeout:   timeout,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// GatherAll fetches every URL and extracts its listings. The returned slice
// is positionally aligned with urls and always has the same length; a failed
// target leaves a nil entry and its siblings are unaffected. Each slot is
// written exactly once by its owning goroutine, and callers only read the
// slice after the full fan-in, so no locking is needed.
func (o *Orchestrator) GatherAll(ctx context.Context, urls []string) [][]trending.Repository {
	results := make([][]trending.Repository, len(urls))
	permits := make(chan struct{}, o.limit)

	var wg sync.WaitGroup
	for i, rawURL := range urls {
		wg.Add(1)
		go func(slot int, target string) {
			defer wg.Done()

			body, err := o.retrieve(ctx, permits, target)
			if err != nil {
				o.logger.Warn("fetch failed", zap.String("url", target), zap.Error(err))
				return
			}

			// Extraction runs outside the permit: only network I/O is
			// throttled, parsing may overlap with in-flight fetches.
			repos, err := o.extractor.Extract(body)
			if err != nil {
				o.logger.Warn("extract failed", zap.String("url", target), zap.Error(err))
				return
			}
			results[slot] = repos
		}(i, rawURL)
	}
	wg.Wait()

	return results
}

// retrieve performs one fetch while holding a permit. The permit is held
// through the cooldown pause whether the fetch succeeded or not, so load on
// the remote source stays throttled, and released on return.
func (o *Orchestrator) retrieve(ctx context.Context, permits chan struct{}, target string) ([]byte, error) {
	permits <- struct{}{}
	defer func() { <-permits }()

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	o.logger.Debug("fetching", zap.String("url", target))
	start := time.Now()
	body, err := o.fetcher.Fetch(fetchCtx, target)
	if err != nil {
		metrics.RecordFetch("error", time.Since(start))
	} else {
		metrics.RecordFetch("success", time.Since(start))
	}

	if o.cooldown > 0 {
		time.Sleep(o.cooldown)
	}
	return body, err
}
