package store

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/models"
)

func now() time.Time {
	return time.Now().UTC()
}

// loadPlatform reads platform.json, falling back to the default empty shape
// on a missing or unparsable file. First run and corruption are treated the
// same way: start fresh, never fail the caller.
func (s *Store) loadPlatform() *platformData {
	p := &platformData{}
	if err := readJSON(s.platformPath, p); err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("platform file unreadable, starting fresh",
				zap.String("path", s.platformPath), zap.Error(err))
		} else {
			s.log.Info("creating new platform database", zap.String("path", s.platformPath))
		}
		p = &platformData{}
	}
	if p.Users == nil {
		p.Users = []models.User{}
	}
	if p.Companies == nil {
		p.Companies = []models.Company{}
	}
	return p
}

// savePlatformLocked writes the platform file. The caller must hold pmu
// (or be in single-threaded startup).
func (s *Store) savePlatformLocked() error {
	return writeJSONAtomic(s.platformPath, s.platform)
}

// companiesSnapshot returns a copy of the company list for lock-free
// iteration in cross-company operations.
func (s *Store) companiesSnapshot() []models.Company {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	out := make([]models.Company, len(s.platform.Companies))
	copy(out, s.platform.Companies)
	return out
}

// currentSlug resolves a company's slug at save time. The slug is re-read on
// every save because a rename may have happened since the data was loaded.
func (s *Store) currentSlug(companyID int) (string, bool) {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	return s.currentSlugLocked(companyID)
}

func (s *Store) currentSlugLocked(companyID int) (string, bool) {
	for _, c := range s.platform.Companies {
		if c.ID == companyID {
			if c.Slug != "" {
				return c.Slug, true
			}
			return Slugify(c.Name), true
		}
	}
	return "", false
}
