// Package snapshot persists per-run outputs, the cached facet list, and the
// cumulative store built by merging run snapshots.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ymaeda/gh-trending-tracker/internal/trending"
)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// Cumulative output naming. Archive files are stamped with the local hour at
// a fixed UTC+9 offset; re-running a merge within the same hour overwrites
// that hour's file.
const (
	LatestFile      = "latest.json"
	hourStampLayout = "2006_01_02_15"

	facetListFile = "lang_list.txt"

	// rawScratchFile holds ad-hoc unfiltered captures; it lives next to the
	// run snapshots but is never a merge input.
	rawScratchFile = "data.json"
)

var jst = time.FixedZone("JST", 9*60*60)

// Store reads and writes snapshot artifacts. The work dir holds per-run
// snapshots plus the cached facet list; the data dir holds the cumulative
// latest view and its hour-stamped archives.
type Store struct {
	workDir string
	dataDir string
	clock   Clock
	logger  *zap.Logger
}

// NewStore creates a Store, creating both directories if needed.
func NewStore(workDir, dataDir string, clock Clock, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(workDir) == "" {
		return nil, fmt.Errorf("work directory is required")
	}
	if strings.TrimSpace(dataDir) == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	if err := os.MkdirAll(workDir, 0o750); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{
		workDir: workDir,
		dataDir: dataDir,
		clock:   clock,
		logger:  logger,
	}, nil
}

// RunPath returns where SaveRun writes the snapshot for this combination.
func (s *Store) RunPath(since, spoken string) string {
	return filepath.Join(s.workDir, fmt.Sprintf("%s-%s.json", since, spoken))
}

// SaveRun writes one run's aggregate as <work>/<since>-<spoken>.json and
// returns the path. Entries are sorted by repository name for stable output.
func (s *Store) SaveRun(since, spoken string, entries map[string]*trending.TrendingRepository) (string, error) {
	path := s.RunPath(since, spoken)
	if err := writeJSON(path, sortedEntries(entries)); err != nil {
		return "", fmt.Errorf("write run snapshot: %w", err)
	}
	return path, nil
}

// SaveFacetList writes the cached facet list, one identifier per line.
func (s *Store) SaveFacetList(facets []string) error {
	var b strings.Builder
	for _, facet := range facets {
		b.WriteString(facet)
		b.WriteByte('\n')
	}
	path := filepath.Join(s.workDir, facetListFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write facet list: %w", err)
	}
	return nil
}

// LoadFacetList reads the cached facet list. A missing or unreadable file is
// an error the caller decides how to handle.
func (s *Store) LoadFacetList() ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.workDir, facetListFile))
	if err != nil {
		return nil, fmt.Errorf("read facet list: %w", err)
	}
	var facets []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			facets = append(facets, line)
		}
	}
	return facets, nil
}

// LatestPath returns the location of the rolling cumulative file.
func (s *Store) LatestPath() string {
	return filepath.Join(s.dataDir, LatestFile)
}

// DataDir returns the directory holding cumulative outputs.
func (s *Store) DataDir() string {
	return s.dataDir
}

func sortedEntries(m map[string]*trending.TrendingRepository) []trending.TrendingRepository {
	list := make([]trending.TrendingRepository, 0, len(m))
	for _, entry := range m {
		list = append(list, *entry)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

func writeJSON(path string, entries []trending.TrendingRepository) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func readSnapshot(path string) ([]trending.TrendingRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var entries []trending.TrendingRepository
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return entries, nil
}
