package store

import (
	"github.com/kassets/kassets/internal/models"
)

// GetSettings returns the company's settings record, or a zero-value default
// when the company has none yet.
func (s *Store) GetSettings(companyID int) models.Settings {
	var settings models.Settings
	s.withCompany(companyID, func(data *models.CompanyData) error {
		if len(data.Settings) > 0 {
			settings = data.Settings[0]
		}
		return nil
	})
	return settings
}

// UpdateSettings merges onto the company's settings record, creating it if
// the company has none.
func (s *Store) UpdateSettings(companyID int, upd models.SettingsUpdate) error {
	return s.withCompanySave(companyID, func(data *models.CompanyData) (bool, error) {
		if len(data.Settings) == 0 {
			data.Settings = append(data.Settings, models.Settings{
				ID:        1,
				CompanyID: companyID,
			})
		}
		if upd.CompanyName != nil {
			data.Settings[0].CompanyName = *upd.CompanyName
		}
		return true, nil
	})
}
