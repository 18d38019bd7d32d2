package store

import (
	"sort"

	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// NewAsset is the creation payload for an asset.
type NewAsset struct {
	CompanyID        int
	Name             string
	Category         string
	SerialNumber     string
	PartNumber       string
	Description      string
	PurchaseDate     string
	PurchaseCost     float64
	CurrentValue     float64
	Quantity         int
	DepreciationRate float64
	LocationID       *int
}

// decorateAsset joins an asset with its location name, photos, and notes
// (newest first). A deleted or never-set location shows as "Unknown".
func decorateAsset(data *models.CompanyData, a models.Asset, companyName string) models.AssetView {
	view := models.AssetView{
		Asset:        a,
		CompanyName:  companyName,
		LocationName: "Unknown",
		Photos:       []models.Photo{},
		Notes:        []models.Note{},
	}
	if a.LocationID != nil {
		for _, l := range data.Locations {
			if l.ID == *a.LocationID {
				view.LocationName = l.Name
				break
			}
		}
	}
	for _, p := range data.Photos {
		if p.AssetID == a.ID {
			view.Photos = append(view.Photos, p)
		}
	}
	for _, n := range data.Notes {
		if n.AssetID == a.ID {
			view.Notes = append(view.Notes, n)
		}
	}
	sort.SliceStable(view.Notes, func(i, j int) bool {
		return view.Notes[i].CreatedAt.After(view.Notes[j].CreatedAt)
	})
	return view
}

// GetAssets returns one company's assets, decorated.
func (s *Store) GetAssets(companyID int) []models.AssetView {
	views := []models.AssetView{}
	s.withCompany(companyID, func(data *models.CompanyData) error {
		for _, a := range data.Assets {
			views = append(views, decorateAsset(data, a, ""))
		}
		return nil
	})
	return views
}

// GetAllAssets returns every asset across every company, each tagged with
// its company name. Super admin view.
func (s *Store) GetAllAssets() []models.AssetView {
	views := []models.AssetView{}
	for _, company := range s.companiesSnapshot() {
		s.withCompany(company.ID, func(data *models.CompanyData) error {
			for _, a := range data.Assets {
				views = append(views, decorateAsset(data, a, company.Name))
			}
			return nil
		})
	}
	return views
}

// GetAsset finds an asset by ID alone, scanning every company. Asset IDs
// are platform-unique, so at most one company can match.
func (s *Store) GetAsset(id int) (models.Asset, error) {
	var found *models.Asset
	for _, company := range s.companiesSnapshot() {
		s.withCompany(company.ID, func(data *models.CompanyData) error {
			for _, a := range data.Assets {
				if a.ID == id {
					asset := a
					found = &asset
					return nil
				}
			}
			return nil
		})
		if found != nil {
			return *found, nil
		}
	}
	return models.Asset{}, kerrors.NewNotFoundError("asset")
}

// CreateAsset allocates a platform-wide ID and appends the asset to its
// company's file.
func (s *Store) CreateAsset(in NewAsset) (models.Asset, error) {
	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	id, err := s.alloc.Next(entityAssets)
	if err != nil {
		return models.Asset{}, err
	}
	asset := models.Asset{
		ID:               id,
		CompanyID:        in.CompanyID,
		Name:             in.Name,
		Category:         in.Category,
		SerialNumber:     in.SerialNumber,
		PartNumber:       in.PartNumber,
		Description:      in.Description,
		PurchaseDate:     in.PurchaseDate,
		PurchaseCost:     in.PurchaseCost,
		CurrentValue:     in.CurrentValue,
		Quantity:         in.Quantity,
		DepreciationRate: in.DepreciationRate,
		LocationID:       in.LocationID,
		CreatedAt:        now(),
	}
	err = s.withCompanySave(in.CompanyID, func(data *models.CompanyData) (bool, error) {
		data.Assets = append(data.Assets, asset)
		return true, nil
	})
	if err != nil {
		return models.Asset{}, err
	}
	return asset, nil
}

// UpdateAsset merges the non-nil fields onto the asset, wherever it lives.
func (s *Store) UpdateAsset(id int, upd models.AssetUpdate) error {
	for _, company := range s.companiesSnapshot() {
		updated := false
		err := s.withCompanySave(company.ID, func(data *models.CompanyData) (bool, error) {
			for i := range data.Assets {
				if data.Assets[i].ID != id {
					continue
				}
				applyAssetUpdate(&data.Assets[i], upd)
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
	return kerrors.NewNotFoundError("asset")
}

func applyAssetUpdate(a *models.Asset, upd models.AssetUpdate) {
	if upd.Name != nil {
		a.Name = *upd.Name
	}
	if upd.Category != nil {
		a.Category = *upd.Category
	}
	if upd.SerialNumber != nil {
		a.SerialNumber = *upd.SerialNumber
	}
	if upd.PartNumber != nil {
		a.PartNumber = *upd.PartNumber
	}
	if upd.Description != nil {
		a.Description = *upd.Description
	}
	if upd.PurchaseDate != nil {
		a.PurchaseDate = *upd.PurchaseDate
	}
	if upd.PurchaseCost != nil {
		a.PurchaseCost = *upd.PurchaseCost
	}
	if upd.CurrentValue != nil {
		a.CurrentValue = *upd.CurrentValue
	}
	if upd.Quantity != nil {
		a.Quantity = *upd.Quantity
	}
	if upd.DepreciationRate != nil {
		a.DepreciationRate = *upd.DepreciationRate
	}
	if upd.LocationID != nil {
		a.LocationID = *upd.LocationID
	}
}

// DeleteAsset removes an asset and cascades to its photos and notes.
func (s *Store) DeleteAsset(id int) error {
	for _, company := range s.companiesSnapshot() {
		deleted := false
		err := s.withCompanySave(company.ID, func(data *models.CompanyData) (bool, error) {
			idx := -1
			for i, a := range data.Assets {
				if a.ID == id {
					idx = i
					break
				}
			}
			if idx == -1 {
				return false, nil
			}
			data.Assets = append(data.Assets[:idx], data.Assets[idx+1:]...)

			photos := data.Photos[:0]
			for _, p := range data.Photos {
				if p.AssetID != id {
					photos = append(photos, p)
				}
			}
			data.Photos = photos

			notes := data.Notes[:0]
			for _, n := range data.Notes {
				if n.AssetID != id {
					notes = append(notes, n)
				}
			}
			data.Notes = notes

			deleted = true
			return true, nil
		})
		if err != nil {
			return err
		}
		if deleted {
			return nil
		}
	}
	return kerrors.NewNotFoundError("asset")
}
