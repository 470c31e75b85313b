package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// fakeClock pins the merge timestamp.
type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time {
	return c.now
}

func newTestStore(t *testing.T, clock Clock) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), t.TempDir(), clock, zap.NewNop())
	require.NoError(t, err)
	return store
}

func entryMap(entries ...trending.TrendingRepository) map[string]*trending.TrendingRepository {
	m := make(map[string]*trending.TrendingRepository, len(entries))
	for i := range entries {
		m[entries[i].Name] = &entries[i]
	}
	return m
}

func TestNewStoreRequiresDirectories(t *testing.T) {
	t.Parallel()

	_, err := NewStore("", t.TempDir(), fakeClock{}, zap.NewNop())
	require.Error(t, err)

	_, err = NewStore(t.TempDir(), " ", fakeClock{}, zap.NewNop())
	require.Error(t, err)
}

func TestSaveRunWritesSortedSnapshot(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{})
	entries := entryMap(
		trending.TrendingRepository{
			Repository: trending.Repository{Name: "zeta/last", Stars: 1},
			Published:  []trending.Publication{{Language: "go", SpokenLanguageCode: "all", Since: "daily"}},
		},
		trending.TrendingRepository{
			Repository: trending.Repository{Name: "alpha/first", Stars: 2},
			Published:  []trending.Publication{{Language: "all", SpokenLanguageCode: "all", Since: "daily"}},
		},
	)

	path, err := store.SaveRun("daily", "all", entries)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(store.workDir, "daily-all.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []trending.TrendingRepository
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	require.Equal(t, "alpha/first", got[0].Name)
	require.Equal(t, "zeta/last", got[1].Name)
}

func TestFacetListRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{})
	require.NoError(t, store.SaveFacetList([]string{"python", "rust", "c%2B%2B"}))

	facets, err := store.LoadFacetList()
	require.NoError(t, err)
	require.Equal(t, []string{"python", "rust", "c%2B%2B"}, facets)
}

func TestLoadFacetListMissingFileIsAnError(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, fakeClock{})
	_, err := store.LoadFacetList()
	require.Error(t, err)
}
