package store

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/models"
)

// companyEntry is one cached company file. Its mutex is the per-file lock:
// holding it makes a read-modify-write of that company's data atomic with
// respect to every other operation touching the same file.
type companyEntry struct {
	mu   sync.Mutex
	slug string
	data *models.CompanyData
}

func emptyCompanyData() *models.CompanyData {
	return &models.CompanyData{
		Assets:     []models.Asset{},
		Locations:  []models.Location{},
		Categories: []models.Category{},
		Settings:   []models.Settings{},
		Photos:     []models.Photo{},
		Notes:      []models.Note{},
	}
}

// normalizeCompanyData fills nil collections left behind by a file that is
// missing keys, so callers never see nil slices.
func normalizeCompanyData(d *models.CompanyData) {
	if d.Assets == nil {
		d.Assets = []models.Asset{}
	}
	if d.Locations == nil {
		d.Locations = []models.Location{}
	}
	if d.Categories == nil {
		d.Categories = []models.Category{}
	}
	if d.Settings == nil {
		d.Settings = []models.Settings{}
	}
	if d.Photos == nil {
		d.Photos = []models.Photo{}
	}
	if d.Notes == nil {
		d.Notes = []models.Note{}
	}
}

func (s *Store) companyFilePath(slug string) string {
	return filepath.Join(s.companiesDir, slug+".json")
}

// entry returns the cached entry for a company, hydrating it from disk on
// first touch. An unknown company yields a throwaway empty entry that is
// never cached, so reads of a nonexistent company stay harmless and writes
// to it cannot shadow a later legitimate load.
func (s *Store) entry(companyID int) *companyEntry {
	s.cmu.Lock()
	if e, ok := s.cache[companyID]; ok {
		s.cmu.Unlock()
		return e
	}
	s.cmu.Unlock()

	slug, ok := s.currentSlug(companyID)
	if !ok {
		return &companyEntry{data: emptyCompanyData()}
	}

	data := emptyCompanyData()
	path := s.companyFilePath(slug)
	if err := readJSON(path, data); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("company file unreadable, starting fresh",
				zap.Int("company_id", companyID), zap.String("path", path), zap.Error(err))
		} else {
			s.log.Info("creating new company database",
				zap.Int("company_id", companyID), zap.String("slug", slug))
		}
		data = emptyCompanyData()
	}
	normalizeCompanyData(data)

	s.cmu.Lock()
	defer s.cmu.Unlock()
	// Another goroutine may have hydrated in the meantime; keep its entry.
	if e, ok := s.cache[companyID]; ok {
		return e
	}
	e := &companyEntry{slug: slug, data: data}
	s.cache[companyID] = e
	return e
}

// withCompany runs fn with the company's per-file lock held.
func (s *Store) withCompany(companyID int, fn func(data *models.CompanyData) error) error {
	e := s.entry(companyID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.data)
}

// withCompanySave runs fn with the lock held and flushes the company file
// if fn reports a mutation.
func (s *Store) withCompanySave(companyID int, fn func(data *models.CompanyData) (bool, error)) error {
	e := s.entry(companyID)
	e.mu.Lock()
	defer e.mu.Unlock()
	dirty, err := fn(e.data)
	if err != nil || !dirty {
		return err
	}
	return s.saveCompany(companyID, e)
}

// saveCompany writes the entry's data under the company's current slug. The
// caller must hold e.mu. The slug is resolved fresh so a rename that
// happened after load still lands on the right file.
func (s *Store) saveCompany(companyID int, e *companyEntry) error {
	slug, ok := s.currentSlug(companyID)
	if !ok {
		return nil
	}
	e.slug = slug
	return writeJSONAtomic(s.companyFilePath(slug), e.data)
}

// installEntry replaces the cache entry for a company wholesale. Used by
// company creation and legacy import, which build the full data set first.
func (s *Store) installEntry(companyID int, slug string, data *models.CompanyData) *companyEntry {
	e := &companyEntry{slug: slug, data: data}
	s.cmu.Lock()
	s.cache[companyID] = e
	s.cmu.Unlock()
	return e
}

// dropEntry evicts a company from the cache (company deletion).
func (s *Store) dropEntry(companyID int) {
	s.cmu.Lock()
	delete(s.cache, companyID)
	s.cmu.Unlock()
}

// cachedEntries snapshots the cache for the ID scan.
func (s *Store) cachedEntries() []*companyEntry {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	out := make([]*companyEntry, 0, len(s.cache))
	for _, e := range s.cache {
		out = append(out, e)
	}
	return out
}
