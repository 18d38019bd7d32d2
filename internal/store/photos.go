package store

import (
	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// findAssetCompany locates the company owning an asset, by ID alone.
func (s *Store) findAssetCompany(assetID int) (int, bool) {
	for _, company := range s.companiesSnapshot() {
		owns := false
		s.withCompany(company.ID, func(data *models.CompanyData) error {
			for _, a := range data.Assets {
				if a.ID == assetID {
					owns = true
					return nil
				}
			}
			return nil
		})
		if owns {
			return company.ID, true
		}
	}
	return 0, false
}

// AddPhoto attaches a photo to an asset, wherever the asset lives.
func (s *Store) AddPhoto(assetID int, url, name string) (models.Photo, error) {
	companyID, ok := s.findAssetCompany(assetID)
	if !ok {
		return models.Photo{}, kerrors.NewNotFoundError("asset")
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	id, err := s.alloc.Next(entityPhotos)
	if err != nil {
		return models.Photo{}, err
	}
	photo := models.Photo{
		ID:        id,
		AssetID:   assetID,
		URL:       url,
		Name:      name,
		CreatedAt: now(),
	}
	err = s.withCompanySave(companyID, func(data *models.CompanyData) (bool, error) {
		data.Photos = append(data.Photos, photo)
		return true, nil
	})
	if err != nil {
		return models.Photo{}, err
	}
	return photo, nil
}

// DeletePhoto removes a photo by ID, wherever it lives.
func (s *Store) DeletePhoto(id int) error {
	for _, company := range s.companiesSnapshot() {
		deleted := false
		err := s.withCompanySave(company.ID, func(data *models.CompanyData) (bool, error) {
			for i, p := range data.Photos {
				if p.ID == id {
					data.Photos = append(data.Photos[:i], data.Photos[i+1:]...)
					deleted = true
					return true, nil
				}
			}
			return false, nil
		})
		if err != nil {
			return err
		}
		if deleted {
			return nil
		}
	}
	return kerrors.NewNotFoundError("photo")
}
