package store

import (
	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/auth"
	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// UserImportResult records what happened to one legacy user.
type UserImportResult struct {
	Username string `json:"username"`
	Status   string `json:"status"` // imported | skipped | created
	Reason   string `json:"reason,omitempty"`
	Role     string `json:"role,omitempty"`
}

// ImportCounts summarizes the imported collections.
type ImportCounts struct {
	Locations  int                `json:"locations"`
	Categories int                `json:"categories"`
	Assets     int                `json:"assets"`
	Photos     int                `json:"photos"`
	Notes      int                `json:"notes"`
	Users      []UserImportResult `json:"users"`
}

// ImportSummary is the result of a legacy import.
type ImportSummary struct {
	CompanyID   int          `json:"companyId"`
	CompanyName string       `json:"companyName"`
	Slug        string       `json:"slug"`
	Imported    ImportCounts `json:"imported"`
}

// ImportLegacyData ingests a single-company export from the old app into a
// brand-new company, remapping every entity ID. A slug collision on the new
// company name aborts before anything is written; past that point every
// malformed record degrades to a default rather than failing the import,
// because legacy exports are too inconsistently shaped for strictness.
func (s *Store) ImportLegacyData(legacy LegacyPayload, companyName string, masterAdmin *LegacyCredentials) (ImportSummary, error) {
	ts := now()
	slug := Slugify(companyName)

	// 1. Create the company. This is the only hard abort.
	s.pmu.Lock()
	for _, c := range s.platform.Companies {
		if c.Slug == slug {
			s.pmu.Unlock()
			return ImportSummary{}, kerrors.NewDuplicateSlugError(slug)
		}
	}
	company := models.Company{
		ID:        nextID(companyIDs(s.platform.Companies)),
		Name:      companyName,
		Slug:      slug,
		IsActive:  true,
		CreatedAt: ts,
	}
	s.platform.Companies = append(s.platform.Companies, company)
	s.pmu.Unlock()
	companyID := company.ID

	// 2. Locations: fresh sequential IDs, old ID -> new ID map.
	locationMap := map[int]int{}
	newLocations := []models.Location{}
	for _, loc := range legacy.Locations {
		newID := len(newLocations) + 1
		if oldID := loc.ID.Or(0); oldID != 0 {
			locationMap[oldID] = newID
		}
		newLocations = append(newLocations, models.Location{
			ID:        newID,
			CompanyID: companyID,
			Name:      loc.Name,
			Address:   loc.Address,
			CreatedAt: parseLegacyTime(loc.CreatedAt, ts),
		})
	}
	if len(newLocations) == 0 {
		newLocations = append(newLocations, models.Location{
			ID:        1,
			CompanyID: companyID,
			Name:      "Main Office",
			CreatedAt: ts,
		})
	}

	// 3. Categories: dedupe by name, keep first occurrence order.
	newCategories := []models.Category{}
	seen := map[string]bool{}
	for _, c := range legacy.Categories {
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		newCategories = append(newCategories, models.Category{
			ID:        len(newCategories) + 1,
			CompanyID: companyID,
			Name:      c.Name,
		})
	}
	if len(newCategories) == 0 {
		for i, name := range defaultCategories {
			newCategories = append(newCategories, models.Category{
				ID:        i + 1,
				CompanyID: companyID,
				Name:      name,
			})
		}
	}

	// 4. Assets: remap keyed by the old record's own ID and by its position,
	// so exports that omit IDs still resolve their embedded photos/notes.
	assetByOldID := map[int]int{}
	assetByIndex := make([]int, len(legacy.Assets))
	newAssets := []models.Asset{}
	for i := range legacy.Assets {
		a := &legacy.Assets[i]
		newID := i + 1
		if oldID := a.ID.Or(0); oldID != 0 {
			assetByOldID[oldID] = newID
		}
		assetByIndex[i] = newID

		var locID *int
		switch ref := a.locationRef(); ref.kind {
		case locationRefByID:
			if mapped, ok := locationMap[ref.id]; ok {
				locID = &mapped
			}
		case locationRefByName:
			for _, l := range newLocations {
				if l.Name == ref.name {
					id := l.ID
					locID = &id
					break
				}
			}
		}

		name := a.Name
		if name == "" {
			name = "Unnamed Asset"
		}
		category := a.Category
		if category == "" {
			category = "Other"
		}
		newAssets = append(newAssets, models.Asset{
			ID:               newID,
			CompanyID:        companyID,
			Name:             name,
			Category:         category,
			SerialNumber:     a.serialNumberValue(),
			PartNumber:       a.partNumberValue(),
			Description:      a.Description,
			PurchaseDate:     a.purchaseDateValue(),
			PurchaseCost:     a.purchaseCostValue(),
			CurrentValue:     a.currentValueValue(),
			Quantity:         a.Quantity.Or(1),
			DepreciationRate: a.depreciationRateValue(),
			LocationID:       locID,
			CreatedAt:        parseLegacyTime(a.CreatedAt, ts),
		})
	}

	// 5. Photos: top-level rows first, then rows embedded inside assets,
	// deduplicated on (asset, url). Rows whose asset did not survive the
	// remap are dropped.
	type attachmentKey struct {
		assetID int
		value   string
	}
	newPhotos := []models.Photo{}
	havePhoto := map[attachmentKey]bool{}
	addPhoto := func(assetID int, p LegacyPhoto) {
		key := attachmentKey{assetID, p.URL}
		if havePhoto[key] {
			return
		}
		havePhoto[key] = true
		name := p.Name
		if name == "" {
			name = "photo"
		}
		newPhotos = append(newPhotos, models.Photo{
			ID:        len(newPhotos) + 1,
			AssetID:   assetID,
			URL:       p.URL,
			Name:      name,
			CreatedAt: parseLegacyTime(p.CreatedAt, ts),
		})
	}
	for _, p := range legacy.Photos {
		if oldID, ok := p.assetIDValue(); ok {
			if mapped, ok := assetByOldID[oldID]; ok {
				addPhoto(mapped, p)
			}
		}
	}
	for i := range legacy.Assets {
		a := &legacy.Assets[i]
		mapped := assetByIndex[i]
		if oldID := a.ID.Or(0); oldID != 0 {
			mapped = assetByOldID[oldID]
		}
		for _, p := range a.Photos {
			addPhoto(mapped, p)
		}
	}

	// 6. Notes: same merge, deduplicated on (asset, text).
	newNotes := []models.Note{}
	haveNote := map[attachmentKey]bool{}
	addNote := func(assetID int, n LegacyNote) {
		key := attachmentKey{assetID, n.Text}
		if haveNote[key] {
			return
		}
		haveNote[key] = true
		newNotes = append(newNotes, models.Note{
			ID:        len(newNotes) + 1,
			AssetID:   assetID,
			Text:      n.Text,
			CreatedBy: n.createdByValue(),
			CreatedAt: parseLegacyTime(n.CreatedAt, ts),
		})
	}
	for _, n := range legacy.Notes {
		if oldID, ok := n.assetIDValue(); ok {
			if mapped, ok := assetByOldID[oldID]; ok {
				addNote(mapped, n)
			}
		}
	}
	for i := range legacy.Assets {
		a := &legacy.Assets[i]
		mapped := assetByIndex[i]
		if oldID := a.ID.Or(0); oldID != 0 {
			mapped = assetByOldID[oldID]
		}
		for _, n := range a.Notes {
			addNote(mapped, n)
		}
	}

	// 7. Settings: legacy display name when present, company name otherwise.
	settingsName := legacy.Settings.CompanyName
	if settingsName == "" {
		settingsName = companyName
	}

	data := &models.CompanyData{
		Assets:     newAssets,
		Locations:  newLocations,
		Categories: newCategories,
		Settings:   []models.Settings{{ID: 1, CompanyID: companyID, CompanyName: settingsName}},
		Photos:     newPhotos,
		Notes:      newNotes,
	}
	e := s.installEntry(companyID, slug, data)
	e.mu.Lock()
	err := s.saveCompany(companyID, e)
	e.mu.Unlock()
	if err != nil {
		return ImportSummary{}, err
	}

	// 8. Users: existing usernames are skipped, legacy roles map onto the
	// new hierarchy, unknown roles land on viewer. Hashes carry over as-is.
	roleMapping := map[string]string{
		"admin":  models.RoleAdmin,
		"editor": models.RoleEditor,
		"viewer": models.RoleViewer,
	}
	results := []UserImportResult{}

	s.pmu.Lock()
	defer s.pmu.Unlock()

	exists := func(username string) bool {
		for _, u := range s.platform.Users {
			if u.Username == username {
				return true
			}
		}
		return false
	}
	for _, u := range legacy.Users {
		if exists(u.Username) {
			results = append(results, UserImportResult{
				Username: u.Username,
				Status:   "skipped",
				Reason:   "username already exists",
			})
			continue
		}
		role, ok := roleMapping[u.Role]
		if !ok {
			role = models.RoleViewer
		}
		cid := companyID
		s.platform.Users = append(s.platform.Users, models.User{
			ID:          nextID(userIDs(s.platform.Users)),
			Username:    u.Username,
			Password:    u.Password,
			DisplayName: u.displayNameValue(),
			Email:       u.Email,
			Role:        role,
			CompanyID:   &cid,
			IsActive:    u.IsActive.Or(true),
			CreatedAt:   parseLegacyTime(u.CreatedAt, ts),
		})
		results = append(results, UserImportResult{Username: u.Username, Status: "imported", Role: role})
	}

	// 9. Optional master admin for the new company.
	if masterAdmin != nil && masterAdmin.Username != "" && masterAdmin.Password != "" {
		if !exists(masterAdmin.Username) {
			hash, err := auth.HashPassword(masterAdmin.Password)
			if err != nil {
				return ImportSummary{}, err
			}
			cid := companyID
			s.platform.Users = append(s.platform.Users, models.User{
				ID:          nextID(userIDs(s.platform.Users)),
				Username:    masterAdmin.Username,
				Password:    hash,
				DisplayName: firstNonEmpty(masterAdmin.DisplayName, masterAdmin.Username),
				Email:       masterAdmin.Email,
				Role:        models.RoleMasterAdmin,
				CompanyID:   &cid,
				IsActive:    true,
				CreatedAt:   ts,
			})
			results = append(results, UserImportResult{
				Username: masterAdmin.Username,
				Status:   "created",
				Role:     models.RoleMasterAdmin,
			})
		}
	}

	if err := s.savePlatformLocked(); err != nil {
		return ImportSummary{}, err
	}

	s.log.Info("legacy import complete",
		zap.String("slug", slug),
		zap.Int("assets", len(newAssets)),
		zap.Int("locations", len(newLocations)),
		zap.Int("users", len(results)))

	return ImportSummary{
		CompanyID:   companyID,
		CompanyName: companyName,
		Slug:        slug,
		Imported: ImportCounts{
			Locations:  len(newLocations),
			Categories: len(newCategories),
			Assets:     len(newAssets),
			Photos:     len(newPhotos),
			Notes:      len(newNotes),
			Users:      results,
		},
	}, nil
}
