package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

func widgetEntry() trending.TrendingRepository {
	return trending.TrendingRepository{
		Repository: trending.Repository{Name: "acme/widget", Stars: 10},
		Published: []trending.Publication{
			{Language: "python", SpokenLanguageCode: "all", Since: "daily"},
		},
	}
}

func readEntries(t *testing.T, path string) []trending.TrendingRepository {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []trending.TrendingRepository
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func TestMergeWritesLatestAndHourlyArchive(t *testing.T) {
	t.Parallel()

	// 15:30 UTC is 00:30 of the next day at UTC+9.
	clock := fakeClock{now: time.Date(2025, 8, 30, 15, 30, 0, 0, time.UTC)}
	store := newTestStore(t, clock)

	_, err := store.SaveRun("daily", "all", entryMap(widgetEntry()))
	require.NoError(t, err)

	result, err := store.Merge()
	require.NoError(t, err)
	require.Equal(t, 1, result.Snapshots)
	require.Equal(t, 1, result.Repositories)
	require.Equal(t, filepath.Join(store.dataDir, "latest.json"), result.LatestPath)
	require.Equal(t, filepath.Join(store.dataDir, "2025_08_31_00.json"), result.ArchivePath)

	latest := readEntries(t, result.LatestPath)
	archive := readEntries(t, result.ArchivePath)
	require.Equal(t, latest, archive)
	require.Len(t, latest, 1)
	require.Equal(t, "acme/widget", latest[0].Name)
}

func TestMergeFoldingSameContentTwiceDoublesMemberships(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{now: time.Unix(0, 0)})

	// Two run snapshots with identical content: the published lists must be
	// concatenated, not deduplicated.
	_, err := store.SaveRun("daily", "all", entryMap(widgetEntry()))
	require.NoError(t, err)
	_, err = store.SaveRun("weekly", "all", entryMap(widgetEntry()))
	require.NoError(t, err)

	result, err := store.Merge()
	require.NoError(t, err)
	require.Equal(t, 2, result.Snapshots)

	entries := readEntries(t, result.LatestPath)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Published, 2)
	require.Equal(t, entries[0].Published[0], entries[0].Published[1])
}

func TestMergeExcludesRawScratchFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{now: time.Unix(0, 0)})

	_, err := store.SaveRun("daily", "all", entryMap(widgetEntry()))
	require.NoError(t, err)

	scratch := []trending.TrendingRepository{{
		Repository: trending.Repository{Name: "scratch/only"},
	}}
	data, err := json.Marshal(scratch)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(store.workDir, "data.json"), data, 0o600))

	result, err := store.Merge()
	require.NoError(t, err)
	require.Equal(t, 1, result.Snapshots)

	entries := readEntries(t, result.LatestPath)
	require.Len(t, entries, 1)
	require.Equal(t, "acme/widget", entries[0].Name)
}

func TestMergeOverwritesLatestWholesale(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{now: time.Unix(0, 0)})

	_, err := store.SaveRun("daily", "all", entryMap(widgetEntry()))
	require.NoError(t, err)
	first, err := store.Merge()
	require.NoError(t, err)
	require.Len(t, readEntries(t, first.LatestPath)[0].Published, 1)

	// A second pass re-reads the same snapshot: the latest view reflects
	// only this pass, it does not accumulate across passes.
	second, err := store.Merge()
	require.NoError(t, err)
	require.Len(t, readEntries(t, second.LatestPath)[0].Published, 1)
}

func TestMergeFailsOnUnreadableSnapshot(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{now: time.Unix(0, 0)})
	require.NoError(t, os.WriteFile(filepath.Join(store.workDir, "daily-all.json"), []byte("not json"), 0o600))

	_, err := store.Merge()
	require.Error(t, err)
}
