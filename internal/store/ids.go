package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kassets/kassets/internal/models"
)

// Entity types with platform-wide unique IDs. Company and user IDs are
// platform-local sequences and do not go through the allocator.
const (
	entityAssets     = "assets"
	entityLocations  = "locations"
	entityCategories = "categories"
	entityPhotos     = "photos"
	entityNotes      = "notes"
)

var allocatedEntityTypes = []string{
	entityAssets, entityLocations, entityCategories, entityPhotos, entityNotes,
}

// IDAllocator produces platform-wide unique IDs for company-scoped entities.
// IDs must stay unique across companies because lookups such as GetAsset(id)
// carry no company context and scan every company file.
type IDAllocator interface {
	Next(entityType string) (int, error)
}

// scanAllocator implements the original allocation scheme: max existing ID
// across every cached company plus every company file on disk, plus one.
// O(companies x records) per allocation; fine at the scale this system runs
// at, and the counter allocator exists for anything bigger.
type scanAllocator struct {
	s *Store
}

func (a *scanAllocator) Next(entityType string) (int, error) {
	max, err := a.s.scanMaxID(entityType)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// scanMaxID finds the current maximum ID for an entity type across all
// companies. Files on disk that are not cached are parsed for the scan only
// and discarded, never promoted into the cache. Corrupt files are skipped so
// one bad company cannot block allocation for everyone else.
func (s *Store) scanMaxID(entityType string) (int, error) {
	max := 0

	cachedSlugs := make(map[string]bool)
	for _, e := range s.cachedEntries() {
		e.mu.Lock()
		cachedSlugs[e.slug] = true
		for _, id := range collectionIDs(e.data, entityType) {
			if id > max {
				max = id
			}
		}
		e.mu.Unlock()
	}

	files, err := os.ReadDir(s.companiesDir)
	if err != nil {
		// Directory missing entirely is the same as no companies.
		return max, nil
	}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		slug := strings.TrimSuffix(f.Name(), ".json")
		if cachedSlugs[slug] {
			continue
		}
		data := &models.CompanyData{}
		if err := readJSON(filepath.Join(s.companiesDir, f.Name()), data); err != nil {
			continue
		}
		for _, id := range collectionIDs(data, entityType) {
			if id > max {
				max = id
			}
		}
	}
	return max, nil
}

func collectionIDs(d *models.CompanyData, entityType string) []int {
	var ids []int
	switch entityType {
	case entityAssets:
		for _, a := range d.Assets {
			ids = append(ids, a.ID)
		}
	case entityLocations:
		for _, l := range d.Locations {
			ids = append(ids, l.ID)
		}
	case entityCategories:
		for _, c := range d.Categories {
			ids = append(ids, c.ID)
		}
	case entityPhotos:
		for _, p := range d.Photos {
			ids = append(ids, p.ID)
		}
	case entityNotes:
		for _, n := range d.Notes {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// counterAllocator keeps one monotonic counter per entity type in the
// platform file: O(1) allocation instead of the full scan. Counters are
// seeded once from a scan of existing data so IDs already on disk stay
// unique, then never scanned again.
type counterAllocator struct {
	s *Store
}

func newCounterAllocator(s *Store) (*counterAllocator, error) {
	if s.platform.IDCounters == nil {
		s.platform.IDCounters = make(map[string]int)
	}
	for _, typ := range allocatedEntityTypes {
		if _, ok := s.platform.IDCounters[typ]; ok {
			continue
		}
		max, err := s.scanMaxID(typ)
		if err != nil {
			return nil, fmt.Errorf("store: seed id counter for %s: %w", typ, err)
		}
		s.platform.IDCounters[typ] = max
	}
	return &counterAllocator{s: s}, nil
}

func (a *counterAllocator) Next(entityType string) (int, error) {
	a.s.pmu.Lock()
	defer a.s.pmu.Unlock()
	if a.s.platform.IDCounters == nil {
		a.s.platform.IDCounters = make(map[string]int)
	}
	next := a.s.platform.IDCounters[entityType] + 1
	a.s.platform.IDCounters[entityType] = next
	if err := a.s.savePlatformLocked(); err != nil {
		return 0, err
	}
	return next, nil
}
