package store

import (
	"fmt"

	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// NewLocation is the creation payload for a location.
type NewLocation struct {
	CompanyID int
	Name      string
	Address   string
}

// GetLocations returns one company's locations with asset counts and the
// total current value (value x quantity) held at each.
func (s *Store) GetLocations(companyID int) []models.LocationView {
	views := []models.LocationView{}
	s.withCompany(companyID, func(data *models.CompanyData) error {
		for _, l := range data.Locations {
			view := models.LocationView{Location: l}
			for _, a := range data.Assets {
				if a.LocationID != nil && *a.LocationID == l.ID {
					view.AssetCount++
					qty := a.Quantity
					if qty == 0 {
						qty = 1
					}
					view.TotalValue += a.CurrentValue * float64(qty)
				}
			}
			views = append(views, view)
		}
		return nil
	})
	return views
}

// GetLocation finds a location by ID alone, scanning every company.
func (s *Store) GetLocation(id int) (models.Location, error) {
	var found *models.Location
	for _, company := range s.companiesSnapshot() {
		s.withCompany(company.ID, func(data *models.CompanyData) error {
			for _, l := range data.Locations {
				if l.ID == id {
					loc := l
					found = &loc
					return nil
				}
			}
			return nil
		})
		if found != nil {
			return *found, nil
		}
	}
	return models.Location{}, kerrors.NewNotFoundError("location")
}

// CreateLocation allocates a platform-wide ID and appends the location.
func (s *Store) CreateLocation(in NewLocation) (models.Location, error) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	id, err := s.alloc.Next(entityLocations)
	if err != nil {
		return models.Location{}, err
	}
	loc := models.Location{
		ID:        id,
		CompanyID: in.CompanyID,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now(),
	}
	err = s.withCompanySave(in.CompanyID, func(data *models.CompanyData) (bool, error) {
		data.Locations = append(data.Locations, loc)
		return true, nil
	})
	if err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// UpdateLocation merges the non-nil fields onto the location.
func (s *Store) UpdateLocation(id int, upd models.LocationUpdate) error {
	for _, company := range s.companiesSnapshot() {
		updated := false
		err := s.withCompanySave(company.ID, func(data *models.CompanyData) (bool, error) {
			for i := range data.Locations {
				if data.Locations[i].ID != id {
					continue
				}
				if upd.Name != nil {
					data.Locations[i].Name = *upd.Name
				}
				if upd.Address != nil {
					data.Locations[i].Address = *upd.Address
				}
				updated = true
				return true, nil
			}
			return false, nil
		})
		if err != nil {
			return err
		}
		if updated {
			return nil
		}
	}
	return kerrors.NewNotFoundError("location")
}

// DeleteLocation refuses while any asset still references the location;
// reassign or delete the assets first.
func (s *Store) DeleteLocation(id int) error {
	for _, company := range s.companiesSnapshot() {
		found := false
		err := s.withCompanySave(company.ID, func(data *models.CompanyData) (bool, error) {
			idx := -1
			for i, l := range data.Locations {
				if l.ID == id {
					idx = i
					break
				}
			}
			if idx == -1 {
				return false, nil
			}
			found = true

			count := 0
			for _, a := range data.Assets {
				if a.LocationID != nil && *a.LocationID == id {
					count++
				}
			}
			if count > 0 {
				return false, kerrors.NewReferentialIntegrityError(
					fmt.Sprintf("%d assets in this location", count), count)
			}
			data.Locations = append(data.Locations[:idx], data.Locations[idx+1:]...)
			return true, nil
		})
		if err != nil {
			return err
		}
		if found {
			return nil
		}
	}
	return kerrors.NewNotFoundError("location")
}
