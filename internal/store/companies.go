package store

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// defaultCategories seeds every new company, and legacy imports that carry
// no categories of their own.
var defaultCategories = []string{
	"Equipment", "Furniture", "Vehicles", "Electronics",
	"Machinery", "Real Estate", "Inventory", "Other",
}

// NewCompany is the creation payload for a company.
type NewCompany struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// GetCompanies returns every company on the platform.
func (s *Store) GetCompanies() []models.Company {
	return s.companiesSnapshot()
}

// GetCompany returns one company by ID.
func (s *Store) GetCompany(id int) (models.Company, error) {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	for _, c := range s.platform.Companies {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Company{}, kerrors.NewNotFoundError("company")
}

// CreateCompany registers a new company and seeds its data file with a
// default location, the default category set, and a settings record.
func (s *Store) CreateCompany(in NewCompany) (models.Company, error) {
	slug := Slugify(in.Name)

	s.pmu.Lock()
	for _, c := range s.platform.Companies {
		if c.Slug == slug {
			s.pmu.Unlock()
			return models.Company{}, kerrors.NewDuplicateSlugError(slug)
		}
	}
	company := models.Company{
		ID:        nextID(companyIDs(s.platform.Companies)),
		Name:      in.Name,
		Slug:      slug,
		Address:   in.Address,
		Phone:     in.Phone,
		Email:     in.Email,
		IsActive:  true,
		CreatedAt: now(),
	}
	s.platform.Companies = append(s.platform.Companies, company)
	if err := s.savePlatformLocked(); err != nil {
		s.pmu.Unlock()
		return models.Company{}, err
	}
	s.pmu.Unlock()

	data := emptyCompanyData()
	data.Locations = []models.Location{{
		ID:        1,
		CompanyID: company.ID,
		Name:      "Main Office",
		Address:   in.Address,
		CreatedAt: now(),
	}}
	for i, name := range defaultCategories {
		data.Categories = append(data.Categories, models.Category{
			ID:        i + 1,
			CompanyID: company.ID,
			Name:      name,
		})
	}
	data.Settings = []models.Settings{{
		ID:          1,
		CompanyID:   company.ID,
		CompanyName: company.Name,
	}}

	e := s.installEntry(company.ID, slug, data)
	e.mu.Lock()
	err := s.saveCompany(company.ID, e)
	e.mu.Unlock()
	if err != nil {
		return models.Company{}, err
	}

	s.log.Info("created company database",
		zap.Int("company_id", company.ID), zap.String("slug", slug))
	return company, nil
}

// UpdateCompany merges the non-nil fields onto the company record. A name
// change regenerates the slug, re-checks uniqueness, and renames the backing
// file on disk before anything is saved, so data never lands under a stale
// filename.
func (s *Store) UpdateCompany(id int, upd models.CompanyUpdate) error {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	s.pmu.Lock()
	defer s.pmu.Unlock()

	idx := -1
	for i, c := range s.platform.Companies {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return kerrors.NewNotFoundError("company")
	}
	company := &s.platform.Companies[idx]
	oldSlug := company.Slug
	if oldSlug == "" {
		oldSlug = Slugify(company.Name)
	}

	nameChanged := upd.Name != nil && *upd.Name != company.Name
	newSlug := oldSlug
	if nameChanged {
		newSlug = Slugify(*upd.Name)
		for i, c := range s.platform.Companies {
			if i != idx && c.Slug == newSlug {
				return kerrors.NewDuplicateSlugError(newSlug)
			}
		}
	}

	if upd.Name != nil {
		company.Name = *upd.Name
	}
	if upd.Address != nil {
		company.Address = *upd.Address
	}
	if upd.Phone != nil {
		company.Phone = *upd.Phone
	}
	if upd.Email != nil {
		company.Email = *upd.Email
	}
	if upd.IsActive != nil {
		company.IsActive = *upd.IsActive
	}

	if nameChanged {
		company.Slug = newSlug
		oldPath := s.companyFilePath(oldSlug)
		newPath := s.companyFilePath(newSlug)
		if oldPath != newPath {
			if _, err := os.Stat(oldPath); err == nil {
				if err := os.Rename(oldPath, newPath); err != nil {
					return fmt.Errorf("rename company file: %w", err)
				}
				s.log.Info("renamed company database",
					zap.String("from", oldSlug+".json"), zap.String("to", newSlug+".json"))
			}
		}
		e.slug = newSlug
	}

	if err := s.savePlatformLocked(); err != nil {
		return err
	}
	return writeJSONAtomic(s.companyFilePath(newSlug), e.data)
}

// DeleteCompany removes a company that has no assets left: its users go, it
// leaves the company list, and its data file is archived with a .deleted
// suffix rather than erased.
func (s *Store) DeleteCompany(id int) error {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	if n := len(e.data.Assets); n > 0 {
		return kerrors.NewReferentialIntegrityError(
			fmt.Sprintf("company has %d assets, delete assets first", n), n)
	}

	s.pmu.Lock()
	var company *models.Company
	for i := range s.platform.Companies {
		if s.platform.Companies[i].ID == id {
			company = &s.platform.Companies[i]
			break
		}
	}
	if company == nil {
		s.pmu.Unlock()
		return kerrors.NewNotFoundError("company")
	}
	slug := company.Slug
	if slug == "" {
		slug = Slugify(company.Name)
	}

	users := s.platform.Users[:0]
	for _, u := range s.platform.Users {
		if u.CompanyID == nil || *u.CompanyID != id {
			users = append(users, u)
		}
	}
	s.platform.Users = users

	companies := s.platform.Companies[:0]
	for _, c := range s.platform.Companies {
		if c.ID != id {
			companies = append(companies, c)
		}
	}
	s.platform.Companies = companies

	err := s.savePlatformLocked()
	s.pmu.Unlock()
	if err != nil {
		return err
	}

	path := s.companyFilePath(slug)
	if _, statErr := os.Stat(path); statErr == nil {
		if err := os.Rename(path, path+".deleted"); err != nil {
			return fmt.Errorf("archive company file: %w", err)
		}
		s.log.Info("archived company database", zap.String("file", slug+".json.deleted"))
	}

	s.dropEntry(id)
	return nil
}

// GetCompanyStats summarizes a company's holdings for dashboards.
func (s *Store) GetCompanyStats(companyID int) (models.CompanyStats, error) {
	var stats models.CompanyStats
	err := s.withCompany(companyID, func(data *models.CompanyData) error {
		stats.AssetCount = len(data.Assets)
		stats.LocationCount = len(data.Locations)
		for _, a := range data.Assets {
			qty := a.Quantity
			if qty == 0 {
				qty = 1
			}
			stats.TotalUnits += qty
			stats.TotalValue += a.CurrentValue * float64(qty)
			stats.TotalCost += a.PurchaseCost * float64(qty)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	s.pmu.RLock()
	for _, u := range s.platform.Users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			stats.UserCount++
		}
	}
	s.pmu.RUnlock()
	return stats, nil
}
