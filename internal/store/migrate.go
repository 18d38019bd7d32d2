package store

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/models"
)

// singleFileData is the pre-multi-tenant layout: every collection in one
// data.json, rows tied to their company by company_id.
type singleFileData struct {
	Users      []models.User     `json:"users"`
	Companies  []models.Company  `json:"companies"`
	Assets     []models.Asset    `json:"assets"`
	Locations  []models.Location `json:"locations"`
	Categories []models.Category `json:"categories"`
	Settings   []models.Settings `json:"settings"`
	Photos     []models.Photo    `json:"photos"`
	Notes      []models.Note     `json:"notes"`
}

// migrateFromSingleFile splits an old data.json into the platform file plus
// one file per company, then backs the old file up as data.json.backup.
// Runs once: after the rename there is nothing left to migrate. Failure is
// logged and startup continues with whatever state exists.
func (s *Store) migrateFromSingleFile() {
	oldPath := filepath.Join(s.dataDir, "data.json")
	if _, err := os.Stat(oldPath); err != nil {
		return
	}

	s.log.Info("migrating single data.json to per-company files")

	old := &singleFileData{}
	if err := readJSON(oldPath, old); err != nil {
		s.log.Error("migration failed, old file unreadable", zap.Error(err))
		return
	}

	s.platform.Users = old.Users
	s.platform.Companies = old.Companies
	if s.platform.Users == nil {
		s.platform.Users = []models.User{}
	}
	if s.platform.Companies == nil {
		s.platform.Companies = []models.Company{}
	}

	for i := range s.platform.Companies {
		company := &s.platform.Companies[i]
		if company.Slug == "" {
			company.Slug = Slugify(company.Name)
		}

		data := emptyCompanyData()
		for _, a := range old.Assets {
			if a.CompanyID == company.ID {
				data.Assets = append(data.Assets, a)
			}
		}
		for _, l := range old.Locations {
			if l.CompanyID == company.ID {
				data.Locations = append(data.Locations, l)
			}
		}
		for _, c := range old.Categories {
			if c.CompanyID == company.ID {
				data.Categories = append(data.Categories, c)
			}
		}
		for _, st := range old.Settings {
			if st.CompanyID == company.ID {
				data.Settings = append(data.Settings, st)
			}
		}

		// Photos and notes hang off assets, not companies.
		assetIDs := make(map[int]bool, len(data.Assets))
		for _, a := range data.Assets {
			assetIDs[a.ID] = true
		}
		for _, p := range old.Photos {
			if assetIDs[p.AssetID] {
				data.Photos = append(data.Photos, p)
			}
		}
		for _, n := range old.Notes {
			if assetIDs[n.AssetID] {
				data.Notes = append(data.Notes, n)
			}
		}

		if err := writeJSONAtomic(s.companyFilePath(company.Slug), data); err != nil {
			s.log.Error("migration: write company file failed",
				zap.String("slug", company.Slug), zap.Error(err))
			continue
		}
		s.log.Info("migrated company",
			zap.String("name", company.Name),
			zap.String("slug", company.Slug),
			zap.Int("assets", len(data.Assets)),
			zap.Int("locations", len(data.Locations)))
	}

	if err := s.savePlatformLocked(); err != nil {
		s.log.Error("migration: save platform failed", zap.Error(err))
		return
	}

	backupPath := oldPath + ".backup"
	if err := os.Rename(oldPath, backupPath); err != nil {
		s.log.Error("migration: backup rename failed", zap.Error(err))
		return
	}
	s.log.Info("migration complete", zap.String("backup", backupPath))
}
