package store_test

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/kassets/kassets/internal/store"
)

func TestFlexTypesAbsorbVariants(t *testing.T) {
	c := qt.New(t)

	var payload store.LegacyPayload
	raw := `{
		"assets": [
			{"id": "7", "name": "Drill", "purchaseCost": "199.99", "quantity": "2", "depreciation_rate": 5},
			{"id": 8, "name": "Ladder", "purchase_cost": 50, "quantity": null},
			{"name": "Saw", "purchaseCost": "not a number", "quantity": {"weird": true}}
		],
		"categories": ["Tools", {"name": "Vehicles"}],
		"settings": [{"company_name": "Old Shop"}],
		"users": [
			{"username": "alice", "is_active": 1},
			{"username": "bob", "is_active": false}
		]
	}`
	c.Assert(json.Unmarshal([]byte(raw), &payload), qt.IsNil)

	c.Assert(payload.Assets, qt.HasLen, 3)
	c.Assert(payload.Assets[0].ID.Or(0), qt.Equals, 7)
	c.Assert(payload.Assets[0].Quantity.Or(1), qt.Equals, 2)
	c.Assert(payload.Assets[1].ID.Or(0), qt.Equals, 8)
	c.Assert(payload.Assets[1].Quantity.IsSet(), qt.IsFalse)
	c.Assert(payload.Assets[2].ID.IsSet(), qt.IsFalse)
	c.Assert(payload.Assets[2].Quantity.Or(1), qt.Equals, 1)

	c.Assert(payload.Categories[0].Name, qt.Equals, "Tools")
	c.Assert(payload.Categories[1].Name, qt.Equals, "Vehicles")
	c.Assert(payload.Settings.CompanyName, qt.Equals, "Old Shop")

	c.Assert(payload.Users[0].IsActive.Or(false), qt.IsTrue)
	c.Assert(payload.Users[1].IsActive.Or(true), qt.IsFalse)
}

func TestLegacySettingsObjectForm(t *testing.T) {
	c := qt.New(t)

	var payload store.LegacyPayload
	raw := `{"settings": {"company_name": "Old Shop"}}`
	c.Assert(json.Unmarshal([]byte(raw), &payload), qt.IsNil)
	c.Assert(payload.Settings.CompanyName, qt.Equals, "Old Shop")
}
