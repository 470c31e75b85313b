// Package aggregate folds per-facet scrape results into one identity-keyed map.
package aggregate

import (
	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// Fold merges per-facet result lists into a map keyed by repository name.
// results and facets must be the same length and positionally aligned.
//
// The first occurrence of a repository keeps its scalar fields; every
// occurrence, first included, appends one publication entry. Facet order
// affects only the order inside each published list, never the key set.
//
// The second return value lists the non-sentinel facets that produced at
// least one listing, used to refresh the cached facet list for later runs.
func Fold(
	results [][]trending.Repository,
	facets []string,
	spokenLanguage string,
	since string,
) (map[string]*trending.TrendingRepository, []string) {
	merged := make(map[string]*trending.TrendingRepository)
	var successful []string

	for i, repos := range results {
		if len(repos) == 0 {
			continue
		}
		facet := facets[i]
		for _, repo := range repos {
			pub := trending.Publication{
				Language:           facet,
				SpokenLanguageCode: spokenLanguage,
				Since:              since,
			}
			if existing, ok := merged[repo.Name]; ok {
				existing.Published = append(existing.Published, pub)
				continue
			}
			merged[repo.Name] = &trending.TrendingRepository{
				Repository: repo,
				Published:  []trending.Publication{pub},
			}
		}
		if facet != trending.FacetAll {
			successful = append(successful, facet)
		}
	}

	return merged, successful
}

// FoldSnapshots folds previously written snapshot entries into dst under the
// same rule as Fold: first-seen scalar fields win and published lists are
// concatenated without deduplication. Folding the same snapshot twice
// therefore doubles its published lists; the lists are an append-only
// observation log.
func FoldSnapshots(dst map[string]*trending.TrendingRepository, entries []trending.TrendingRepository) {
	for _, entry := range entries {
		if existing, ok := dst[entry.Name]; ok {
			existing.Published = append(existing.Published, entry.Published...)
			continue
		}
		cp := entry
		cp.Published = append([]trending.Publication(nil), entry.Published...)
		dst[entry.Name] = &cp
	}
}
