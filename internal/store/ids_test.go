package store_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/kassets/kassets/internal/store"
)

func TestAssetIDsUniqueAcrossCompanies(t *testing.T) {
	c := qt.New(t)
	st, _ := newTestStore(t)

	acme, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)
	beta, err := st.CreateCompany(store.NewCompany{Name: "Beta LLC"})
	c.Assert(err, qt.IsNil)

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		for _, companyID := range []int{acme.ID, beta.ID} {
			asset, err := st.CreateAsset(store.NewAsset{
				CompanyID: companyID,
				Name:      "Asset",
				Quantity:  1,
			})
			c.Assert(err, qt.IsNil)
			c.Assert(seen[asset.ID], qt.IsFalse)
			seen[asset.ID] = true
		}
	}
}

func TestAllocationSeesUncachedCompanies(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	st, err := store.Open(store.Options{DataDir: dir})
	c.Assert(err, qt.IsNil)
	acme, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)
	beta, err := st.CreateCompany(store.NewCompany{Name: "Beta LLC"})
	c.Assert(err, qt.IsNil)
	existing, err := st.CreateAsset(store.NewAsset{CompanyID: beta.ID, Name: "Ladder", Quantity: 1})
	c.Assert(err, qt.IsNil)

	// A fresh store has nothing cached; allocation must still scan Beta's
	// file on disk and not reissue its asset ID.
	st2, err := store.Open(store.Options{DataDir: dir})
	c.Assert(err, qt.IsNil)
	created, err := st2.CreateAsset(store.NewAsset{CompanyID: acme.ID, Name: "Drill", Quantity: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(created.ID > existing.ID, qt.IsTrue)
}

func TestAllocationSkipsCorruptCompanyFile(t *testing.T) {
	c := qt.New(t)
	st, dir := newTestStore(t)

	acme, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)

	// One corrupt file must not block allocation for everyone else.
	corrupt := filepath.Join(dir, "companies", "broken.json")
	c.Assert(os.WriteFile(corrupt, []byte("{oops"), 0o644), qt.IsNil)

	asset, err := st.CreateAsset(store.NewAsset{CompanyID: acme.ID, Name: "Drill", Quantity: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(asset.ID > 0, qt.IsTrue)
}

func TestCounterAllocatorSeedsFromExistingData(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	st, err := store.Open(store.Options{DataDir: dir})
	c.Assert(err, qt.IsNil)
	acme, err := st.CreateCompany(store.NewCompany{Name: "Acme Corp"})
	c.Assert(err, qt.IsNil)

	var maxID int
	for i := 0; i < 3; i++ {
		asset, err := st.CreateAsset(store.NewAsset{CompanyID: acme.ID, Name: "Asset", Quantity: 1})
		c.Assert(err, qt.IsNil)
		maxID = asset.ID
	}

	// Switching to counters must pick up above the scanned maximum.
	st2, err := store.Open(store.Options{DataDir: dir, UseCounterIDs: true})
	c.Assert(err, qt.IsNil)
	created, err := st2.CreateAsset(store.NewAsset{CompanyID: acme.ID, Name: "Asset", Quantity: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(created.ID > maxID, qt.IsTrue)

	// Counters persist across restarts.
	st3, err := store.Open(store.Options{DataDir: dir, UseCounterIDs: true})
	c.Assert(err, qt.IsNil)
	next, err := st3.CreateAsset(store.NewAsset{CompanyID: acme.ID, Name: "Asset", Quantity: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(next.ID > created.ID, qt.IsTrue)
}
