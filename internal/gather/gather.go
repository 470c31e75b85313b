// Package gather runs one end-to-end collection batch: facet resolution,
// fan-out fetch, aggregation, and snapshot persistence.
package gather

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/aggregate"
	"github.com/ymaeda/gh-trending-tracker/internal/fetch"
	"github.com/ymaeda/gh-trending-tracker/internal/metrics"
	"github.com/ymaeda/gh-trending-tracker/internal/snapshot"
	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Runner executes gather batches.
type Runner struct {
	fetcher      fetch.Fetcher
	orchestrator *fetch.Orchestrator
	store        *snapshot.Store
	baseURL      string
	idGen        IDGenerator
	logger       *zap.Logger
}

// NewRunner constructs a Runner.
func NewRunner(
	fetcher fetch.Fetcher,
	orchestrator *fetch.Orchestrator,
	store *snapshot.Store,
	baseURL string,
	idGen IDGenerator,
	logger *zap.Logger,
) *Runner {
	return &Runner{
		fetcher:      fetcher,
		orchestrator: orchestrator,
		store:        store,
		baseURL:      baseURL,
		idGen:        idGen,
		logger:       logger,
	}
}

// Run collects one batch for the given time window and spoken-language facet,
// writes the per-run snapshot, and refreshes the cached facet list from the
// facets that produced results. Per-target fetch failures are absorbed by the
// orchestrator; only persistence failures abort the run.
func (r *Runner) Run(ctx context.Context, since, spokenLanguage string) error {
	logger := r.logger
	if id, err := r.idGen.NewID(); err == nil {
		logger = logger.With(zap.String("run_id", id))
	}
	logger = logger.With(zap.String("since", since), zap.String("spoken_language", spokenLanguage))

	facets := r.resolveFacets(ctx, since, spokenLanguage, logger)
	targets := buildTargets(r.baseURL, facets, since, spokenLanguage)

	logger.Info("gather run starting", zap.Int("targets", len(targets)))
	results := r.orchestrator.GatherAll(ctx, targets)

	merged, successful := aggregate.Fold(results, facets, spokenLanguage, since)

	path, err := r.store.SaveRun(since, spokenLanguage, merged)
	if err != nil {
		metrics.RecordRun("failed")
		return fmt.Errorf("save run snapshot: %w", err)
	}
	if err := r.store.SaveFacetList(successful); err != nil {
		metrics.RecordRun("failed")
		return fmt.Errorf("save facet list: %w", err)
	}

	metrics.RecordRun("succeeded")
	logger.Info("gather run complete",
		zap.Int("facets", len(facets)),
		zap.Int("successful_facets", len(successful)),
		zap.Int("repositories", len(merged)),
		zap.String("snapshot", path),
	)
	return nil
}

// resolveFacets decides which language facets this run will query, always
// starting with the sentinel. The default run (daily window, unfiltered
// locale) rediscovers the facet list from the live page; any other run, or
// a failed discovery, uses the cached list from a previous run. When the
// cache is also unavailable the run degrades to the sentinel facet alone
// rather than failing.
func (r *Runner) resolveFacets(ctx context.Context, since, spokenLanguage string, logger *zap.Logger) []string {
	if since == "daily" && spokenLanguage == trending.FacetAll {
		body, err := r.fetcher.Fetch(ctx, r.baseURL+"/trending")
		if err == nil {
			if langs := trending.Languages(body); len(langs) > 0 {
				logger.Info("facet list discovered", zap.Int("languages", len(langs)))
				return append([]string{trending.FacetAll}, langs...)
			}
			err = fmt.Errorf("language menu not found")
		}
		logger.Warn("facet discovery failed, falling back to cached list", zap.Error(err))
	}

	cached, err := r.store.LoadFacetList()
	if err != nil {
		logger.Warn("cached facet list unavailable, using the default facet only", zap.Error(err))
		return []string{trending.FacetAll}
	}
	return append([]string{trending.FacetAll}, cached...)
}

// buildTargets maps each facet to its trending page URL. The sentinel facet
// always queries the fully unfiltered page; the spoken-language parameter
// applies only to the per-language targets, and only for filtered locales.
// Facet slugs are already in escaped URL form (that is how the enumerator
// and the cache store them), so they are appended as-is.
func buildTargets(baseURL string, facets []string, since, spokenLanguage string) []string {
	targets := make([]string, 0, len(facets))
	for _, facet := range facets {
		u := baseURL + "/trending"
		if facet != trending.FacetAll {
			u += "/" + facet
		}
		u += "?since=" + url.QueryEscape(since)
		if facet != trending.FacetAll && spokenLanguage != trending.FacetAll {
			u += "&spoken_language_code=" + url.QueryEscape(spokenLanguage)
		}
		targets = append(targets, u)
	}
	return targets
}
