package store

import (
	"fmt"

	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// GetCategories returns one company's categories with the number of assets
// using each.
func (s *Store) GetCategories(companyID int) []models.CategoryView {
	views := []models.CategoryView{}
	s.withCompany(companyID, func(data *models.CompanyData) error {
		for _, c := range data.Categories {
			view := models.CategoryView{Category: c}
			for _, a := range data.Assets {
				if a.Category == c.Name {
					view.AssetCount++
				}
			}
			views = append(views, view)
		}
		return nil
	})
	return views
}

// CreateCategory adds a category. Names are unique within a company.
func (s *Store) CreateCategory(companyID int, name string) (models.Category, error) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	id, err := s.alloc.Next(entityCategories)
	if err != nil {
		return models.Category{}, err
	}
	cat := models.Category{ID: id, CompanyID: companyID, Name: name}
	err = s.withCompanySave(companyID, func(data *models.CompanyData) (bool, error) {
		for _, c := range data.Categories {
			if c.Name == name {
				return false, kerrors.NewDuplicateCategoryNameError(name)
			}
		}
		data.Categories = append(data.Categories, cat)
		return true, nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// RenameCategory renames a category and rewrites every asset referencing the
// old name in the same store write, so the two can never diverge.
func (s *Store) RenameCategory(companyID int, oldName, newName string) error {
	return s.withCompanySave(companyID, func(data *models.CompanyData) (bool, error) {
		for _, c := range data.Categories {
			if c.Name == newName {
				return false, kerrors.NewDuplicateCategoryNameError(newName)
			}
		}
		idx := -1
		for i, c := range data.Categories {
			if c.Name == oldName {
				idx = i
				break
			}
		}
		if idx == -1 {
			return false, kerrors.NewNotFoundError("category")
		}
		data.Categories[idx].Name = newName
		for i := range data.Assets {
			if data.Assets[i].Category == oldName {
				data.Assets[i].Category = newName
			}
		}
		return true, nil
	})
}

// DeleteCategory refuses while any asset still uses the category.
func (s *Store) DeleteCategory(id, companyID int) error {
	return s.withCompanySave(companyID, func(data *models.CompanyData) (bool, error) {
		idx := -1
		for i, c := range data.Categories {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return false, kerrors.NewNotFoundError("category")
		}
		count := 0
		for _, a := range data.Assets {
			if a.Category == data.Categories[idx].Name {
				count++
			}
		}
		if count > 0 {
			return false, kerrors.NewReferentialIntegrityError(
				fmt.Sprintf("%d assets use this category", count), count)
		}
		data.Categories = append(data.Categories[:idx], data.Categories[idx+1:]...)
		return true, nil
	})
}
