package store_test

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
	"github.com/kassets/kassets/internal/store"
)

func TestCreateCompanySeedsDefaults(t *testing.T) {
	c := qt.New(t)
	st, dir := newTestStore(t)

	company, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp", Address: "1 Main St"})
	c.Assert(err, qt.IsNil)
	c.Assert(company.Slug, qt.Equals, "acme-corp")
	c.Assert(company.IsActive, qt.IsTrue)

	_, err = os.Stat(filepath.Join(dir, "companies", "acme-corp.json"))
	c.Assert(err, qt.IsNil)

	locations := st.GetLocations(company.ID)
	c.Assert(locations, qt.HasLen, 1)
	c.Assert(locations[0].Name, qt.Equals, "Main Office")
	c.Assert(locations[0].Address, qt.Equals, "1 Main St")

	categories := st.GetCategories(company.ID)
	c.Assert(categories, qt.HasLen, 8)
	c.Assert(categories[0].Name, qt.Equals, "Equipment")
	c.Assert(categories[7].Name, qt.Equals, "Other")

	settings := st.GetSettings(company.ID)
	c.Assert(settings.CompanyName, qt.Equals, "Acme Corp")
}

func TestCreateCompanyDuplicateSlug(t *testing.T) {
	c := qt.New(t)
	st, _ := newTestStore(t)

	_, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)

	// A different spelling that slugifies to the same name must be refused.
	_, err = st.CreateCompany(store.NewCompany{Name: "ACME... CORP!"})
	var dup *kerrors.DuplicateSlugError
	c.Assert(stderrors.As(err, &dup), qt.IsTrue)
	c.Assert(dup.Slug, qt.Equals, "acme-corp")
}

func TestUpdateCompanyRenameMovesFile(t *testing.T) {
	c := qt.New(t)
	st, dir := newTestStore(t)

	company, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)

	asset, err := st.CreateAsset(store.NewAsset{
		CompanyID: company.ID,
		Name:      "Drill",
		Category:  "Equipment",
		Quantity:  1,
	})
	c.Assert(err, qt.IsNil)

	err = st.UpdateCompany(company.ID, models.CompanyUpdate{Name: strPtr("Acme Industries")})
	c.Assert(err, qt.IsNil)

	_, err = os.Stat(filepath.Join(dir, "companies", "acme-corp.json"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
	_, err = os.Stat(filepath.Join(dir, "companies", "acme-industries.json"))
	c.Assert(err, qt.IsNil)

	// Data survives the move.
	got, err := st.GetAsset(asset.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Name, qt.Equals, "Drill")

	updated, err := st.GetCompany(company.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.Slug, qt.Equals, "acme-industries")
}

func TestUpdateCompanyRenameSurvivesReopen(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	st, err := store.Open(store.Options{DataDir: dir})
	c.Assert(err, qt.IsNil)

	company, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)
	_, err = st.CreateAsset(store.NewAsset{CompanyID: company.ID, Name: "Drill", Quantity: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(st.UpdateCompany(company.ID, models.CompanyUpdate{Name: strPtr("Acme Industries")}), qt.IsNil)

	// A fresh process must find the data under the new slug.
	st2, err := store.Open(store.Options{DataDir: dir})
	c.Assert(err, qt.IsNil)
	assets := st2.GetAssets(company.ID)
	c.Assert(assets, qt.HasLen, 1)
	c.Assert(assets[0].Name, qt.Equals, "Drill")
}

func TestUpdateCompanyRenameCollision(t *testing.T) {
	c := qt.New(t)
	st, dir := newTestStore(t)

	_, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)
	beta, err := st.CreateCompany(store.NewCompany{Name: "Beta LLC"})
	c.Assert(err, qt.IsNil)

	err = st.UpdateCompany(beta.ID, models.CompanyUpdate{Name: strPtr("Acme Corp")})
	var dup *kerrors.DuplicateSlugError
	c.Assert(stderrors.As(err, &dup), qt.IsTrue)

	// The refused rename must leave everything in place.
	_, err = os.Stat(filepath.Join(dir, "companies", "beta-llc.json"))
	c.Assert(err, qt.IsNil)
	got, err := st.GetCompany(beta.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Name, qt.Equals, "Beta LLC")
}

func TestDeleteCompanyRefusedWithAssets(t *testing.T) {
	c := qt.New(t)
	st, _ := newTestStore(t)

	company, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)
	asset, err := st.CreateAsset(store.NewAsset{CompanyID: company.ID, Name: "Drill", Quantity: 1})
	c.Assert(err, qt.IsNil)

	err = st.DeleteCompany(company.ID)
	var ref *kerrors.ReferentialIntegrityError
	c.Assert(stderrors.As(err, &ref), qt.IsTrue)
	c.Assert(ref.Dependents, qt.Equals, 1)

	c.Assert(st.DeleteAsset(asset.ID), qt.IsNil)
	c.Assert(st.DeleteCompany(company.ID), qt.IsNil)
}

func TestDeleteCompanyArchivesFileAndDropsUsers(t *testing.T) {
	c := qt.New(t)
	st, dir := newTestStore(t)

	company, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)

	_, err = st.CreateUser(store.NewUser{
		Username:  "alice",
		Password:  "x",
		Role:      models.RoleAdmin,
		CompanyID: intPtr(company.ID),
		IsActive:  true,
	})
	c.Assert(err, qt.IsNil)

	c.Assert(st.DeleteCompany(company.ID), qt.IsNil)

	_, err = os.Stat(filepath.Join(dir, "companies", "acme-corp.json"))
	c.Assert(os.IsNotExist(err), qt.IsTrue)
	_, err = os.Stat(filepath.Join(dir, "companies", "acme-corp.json.deleted"))
	c.Assert(err, qt.IsNil)

	_, err = st.GetUser("alice")
	c.Assert(err, qt.IsNotNil)
	_, err = st.GetCompany(company.ID)
	c.Assert(err, qt.IsNotNil)
}

func TestGetCompanyStats(t *testing.T) {
	c := qt.New(t)
	st, _ := newTestStore(t)

	company, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)

	_, err = st.CreateAsset(store.NewAsset{
		CompanyID: company.ID, Name: "Drill",
		Quantity: 2, CurrentValue: 100, PurchaseCost: 150,
	})
	c.Assert(err, qt.IsNil)
	// Quantity zero counts as one unit.
	_, err = st.CreateAsset(store.NewAsset{
		CompanyID: company.ID, Name: "Ladder",
		Quantity: 0, CurrentValue: 50, PurchaseCost: 60,
	})
	c.Assert(err, qt.IsNil)

	_, err = st.CreateUser(store.NewUser{
		Username: "bob", Password: "x", Role: models.RoleViewer,
		CompanyID: intPtr(company.ID), IsActive: true,
	})
	c.Assert(err, qt.IsNil)

	stats, err := st.GetCompanyStats(company.ID)
	c.Assert(err, qt.IsNil)
	c.Assert(stats.AssetCount, qt.Equals, 2)
	c.Assert(stats.TotalUnits, qt.Equals, 3)
	c.Assert(stats.TotalValue, qt.Equals, 250.0)
	c.Assert(stats.TotalCost, qt.Equals, 360.0)
	c.Assert(stats.UserCount, qt.Equals, 1)
	c.Assert(stats.LocationCount, qt.Equals, 1)
}
