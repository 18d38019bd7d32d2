package store

import (
	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// AddNote attaches a note to an asset, wherever the asset lives. CreatedBy
// is the author's display name, recorded verbatim.
func (s *Store) AddNote(assetID int, text, createdBy string) (models.Note, error) {
	companyID, ok := s.findAssetCompany(assetID)
	if !ok {
		return models.Note{}, kerrors.NewNotFoundError("asset")
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	id, err := s.alloc.Next(entityNotes)
	if err != nil {
		return models.Note{}, err
	}
	note := models.Note{
		ID:        id,
		AssetID:   assetID,
		Text:      text,
		CreatedBy: createdBy,
		CreatedAt: now(),
	}
	err = s.withCompanySave(companyID, func(data *models.CompanyData) (bool, error) {
		data.Notes = append(data.Notes, note)
		return true, nil
	})
	if err != nil {
		return models.Note{}, err
	}
	return note, nil
}

// DeleteNote removes a note by ID, wherever it lives.
func (s *Store) DeleteNote(id int) error {
	for _, company := range s.companiesSnapshot() {
		deleted := false
		err := s.withCompanySave(company.ID, func(data *models.CompanyData) (bool, error) {
			for i, n := range data.Notes {
				if n.ID == id {
					data.Notes = append(data.Notes[:i], data.Notes[i+1:]...)
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
	return kerrors.NewNotFoundError("note")
}
