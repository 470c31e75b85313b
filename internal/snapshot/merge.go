package snapshot

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/aggregate"
	"github.com/ymaeda/gh-trending-tracker/internal/metrics"
	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// MergeResult summarizes one merge pass over the run snapshots.
type MergeResult struct {
	Snapshots    int
	Repositories int
	LatestPath   string
	ArchivePath  string
}

// Merge folds every run snapshot in the work dir (the raw scratch file is
// excluded by name) into one cumulative map and writes it twice: the rolling
// latest view, overwritten wholesale, and an archive file stamped with the
// current UTC+9 hour, overwritten if the merge re-runs within the same hour.
//
// The fold rule matches intra-run aggregation: one entry per repository
// name, first-seen scalar fields, published lists concatenated without
// deduplication. Folding the same snapshot twice doubles its published
// lists. The result does not depend on the order the snapshot files are
// read, beyond the internal order of each published list.
//
// An unreadable snapshot file fails the whole merge; the caller decides
// whether to retry or give up.
func (s *Store) Merge() (MergeResult, error) {
	files, err := filepath.Glob(filepath.Join(s.workDir, "*.json"))
	if err != nil {
		return MergeResult{}, fmt.Errorf("list run snapshots: %w", err)
	}

	merged := make(map[string]*trending.TrendingRepository)
	count := 0
	for _, path := range files {
		if filepath.Base(path) == rawScratchFile {
			continue
		}
		entries, err := readSnapshot(path)
		if err != nil {
			return MergeResult{}, fmt.Errorf("load snapshot: %w", err)
		}
		aggregate.FoldSnapshots(merged, entries)
		count++
		s.logger.Debug("snapshot folded", zap.String("path", path), zap.Int("entries", len(entries)))
	}

	list := sortedEntries(merged)

	latestPath := s.LatestPath()
	if err := writeJSON(latestPath, list); err != nil {
		return MergeResult{}, fmt.Errorf("write latest view: %w", err)
	}

	stamp := s.clock.Now().In(jst).Format(hourStampLayout)
	archivePath := filepath.Join(s.dataDir, stamp+".json")
	if err := writeJSON(archivePath, list); err != nil {
		return MergeResult{}, fmt.Errorf("write hourly archive: %w", err)
	}

	metrics.AddSnapshotsMerged(count)
	s.logger.Info("merge complete",
		zap.Int("snapshots", count),
		zap.Int("repositories", len(list)),
		zap.String("latest", latestPath),
		zap.String("archive", archivePath),
	)

	return MergeResult{
		Snapshots:    count,
		Repositories: len(list),
		LatestPath:   latestPath,
		ArchivePath:  archivePath,
	}, nil
}
