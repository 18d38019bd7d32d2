package store

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Legacy exports are inconsistently shaped: field names appear in both
// snake_case and camelCase, numbers arrive as numbers or strings, booleans
// as booleans or 0/1, and some collections come in two representations.
// The types here absorb every variant the old app ever produced, so the
// importer proper works on normalized values only.

// FlexFloat accepts a JSON number or a numeric string. Anything else leaves
// it unset, which the importer turns into a default.
type FlexFloat struct {
	value float64
	set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface. It never fails:
// an unusable value simply stays unset.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value, f.set = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			f.value, f.set = v, true
		}
	}
	return nil
}

// IsSet reports whether a usable value was present.
func (f FlexFloat) IsSet() bool { return f.set }

// Or returns the value, or def when unset.
func (f FlexFloat) Or(def float64) float64 {
	if f.set {
		return f.value
	}
	return def
}

// FlexInt accepts a JSON integer, a float (truncated), or a numeric string.
type FlexInt struct {
	value int
	set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value, f.set = int(n), true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if v, err := strconv.Atoi(s); err == nil {
			f.value, f.set = v, true
		} else if v, err := strconv.ParseFloat(s, 64); err == nil {
			f.value, f.set = int(v), true
		}
	}
	return nil
}

// IsSet reports whether a usable value was present.
func (f FlexInt) IsSet() bool { return f.set }

// Or returns the value, or def when unset.
func (f FlexInt) Or(def int) int {
	if f.set {
		return f.value
	}
	return def
}

// FlexBool accepts a JSON bool or a number (nonzero is true). The old app
// stored is_active as 1/0.
type FlexBool struct {
	value bool
	set   bool
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		f.value, f.set = b, true
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.value, f.set = n != 0, true
	}
	return nil
}

// Or returns the value, or def when unset.
func (f FlexBool) Or(def bool) bool {
	if f.set {
		return f.value
	}
	return def
}

// FlexString accepts a JSON string and ignores anything else.
type FlexString struct {
	value string
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f.value = s
	}
	return nil
}

// String returns the value, empty when unset or not a string.
func (f FlexString) String() string { return f.value }

func isJSONNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}

// LegacyPayload is a single-company export from the pre-multi-tenant app.
type LegacyPayload struct {
	Assets     []LegacyAsset    `json:"assets"`
	Locations  []LegacyLocation `json:"locations"`
	Categories []LegacyCategory `json:"categories"`
	Photos     []LegacyPhoto    `json:"photos"`
	Notes      []LegacyNote     `json:"notes"`
	Users      []LegacyUser     `json:"users"`
	Settings   LegacySettings   `json:"settings"`
}

// LegacyAsset carries both field spellings side by side; the *Value
// accessors below pick whichever is present.
type LegacyAsset struct {
	ID                  FlexInt       `json:"id"`
	Name                string        `json:"name"`
	Category            string        `json:"category"`
	SerialNumber        string        `json:"serial_number"`
	SerialNumberAlt     string        `json:"serialNumber"`
	PartNumber          string        `json:"part_number"`
	PartNumberAlt       string        `json:"partNumber"`
	Description         string        `json:"description"`
	PurchaseDate        string        `json:"purchase_date"`
	PurchaseDateAlt     string        `json:"purchaseDate"`
	PurchaseCost        FlexFloat     `json:"purchase_cost"`
	PurchaseCostAlt     FlexFloat     `json:"purchaseCost"`
	CurrentValue        FlexFloat     `json:"current_value"`
	CurrentValueAlt     FlexFloat     `json:"currentValue"`
	Quantity            FlexInt       `json:"quantity"`
	DepreciationRate    FlexFloat     `json:"depreciation_rate"`
	DepreciationRateAlt FlexFloat     `json:"depreciationRate"`
	LocationID          FlexInt       `json:"location_id"`
	LocationIDAlt       FlexInt       `json:"locationId"`
	Location            FlexString    `json:"location"`
	Photos              []LegacyPhoto `json:"photos"`
	Notes               []LegacyNote  `json:"notes"`
	CreatedAt           string        `json:"created_at"`
}

func (a *LegacyAsset) serialNumberValue() string {
	return firstNonEmpty(a.SerialNumber, a.SerialNumberAlt)
}

func (a *LegacyAsset) partNumberValue() string {
	return firstNonEmpty(a.PartNumber, a.PartNumberAlt)
}

func (a *LegacyAsset) purchaseDateValue() string {
	return firstNonEmpty(a.PurchaseDate, a.PurchaseDateAlt)
}

func (a *LegacyAsset) purchaseCostValue() float64 {
	return firstSetFloat(a.PurchaseCost, a.PurchaseCostAlt).Or(0)
}

func (a *LegacyAsset) currentValueValue() float64 {
	return firstSetFloat(a.CurrentValue, a.CurrentValueAlt).Or(0)
}

func (a *LegacyAsset) depreciationRateValue() float64 {
	return firstSetFloat(a.DepreciationRate, a.DepreciationRateAlt).Or(10)
}

// locationRefKind distinguishes the two ways a legacy asset can point at a
// location, plus "no reference at all".
type locationRefKind int

const (
	locationRefNone locationRefKind = iota
	locationRefByID
	locationRefByName
)

// locationRef is the normalized location reference of a legacy asset.
type locationRef struct {
	kind locationRefKind
	id   int
	name string
}

// locationRef resolves the asset's location reference: an old location ID
// when either spelling carries one, else a location name string from the
// export format, else none.
func (a *LegacyAsset) locationRef() locationRef {
	if id, ok := firstSetInt(a.LocationID, a.LocationIDAlt); ok && id != 0 {
		return locationRef{kind: locationRefByID, id: id}
	}
	if name := a.Location.String(); name != "" {
		return locationRef{kind: locationRefByName, name: name}
	}
	return locationRef{kind: locationRefNone}
}

// LegacyLocation is a location row from a legacy export.
type LegacyLocation struct {
	ID        FlexInt `json:"id"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	CreatedAt string  `json:"created_at"`
}

// LegacyCategory is either a plain name string or an object with a name.
type LegacyCategory struct {
	Name string
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (c *LegacyCategory) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		c.Name = obj.Name
	}
	return nil
}

// LegacyPhoto is a photo row, either top-level or embedded in an asset.
type LegacyPhoto struct {
	AssetID    FlexInt `json:"asset_id"`
	AssetIDAlt FlexInt `json:"assetId"`
	URL        string  `json:"url"`
	Name       string  `json:"name"`
	CreatedAt  string  `json:"created_at"`
}

func (p *LegacyPhoto) assetIDValue() (int, bool) {
	return firstSetInt(p.AssetID, p.AssetIDAlt)
}

// LegacyNote is a note row, either top-level or embedded in an asset.
type LegacyNote struct {
	AssetID      FlexInt `json:"asset_id"`
	AssetIDAlt   FlexInt `json:"assetId"`
	Text         string  `json:"text"`
	CreatedBy    string  `json:"created_by"`
	CreatedByAlt string  `json:"createdBy"`
	CreatedAt    string  `json:"created_at"`
}

func (n *LegacyNote) assetIDValue() (int, bool) {
	return firstSetInt(n.AssetID, n.AssetIDAlt)
}

func (n *LegacyNote) createdByValue() string {
	return firstNonEmpty(n.CreatedBy, n.CreatedByAlt, "Legacy Import")
}

// LegacyUser is a user row from a legacy export. Password is the existing
// hash, carried over verbatim.
type LegacyUser struct {
	Username       string   `json:"username"`
	Password       string   `json:"password"`
	DisplayName    string   `json:"display_name"`
	DisplayNameAlt string   `json:"displayName"`
	Email          string   `json:"email"`
	Role           string   `json:"role"`
	IsActive       FlexBool `json:"is_active"`
	CreatedAt      string   `json:"created_at"`
}

func (u *LegacyUser) displayNameValue() string {
	return firstNonEmpty(u.DisplayName, u.DisplayNameAlt, u.Username)
}

// LegacySettings is either a settings object or an array holding one.
type LegacySettings struct {
	CompanyName string
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *LegacySettings) UnmarshalJSON(data []byte) error {
	type entry struct {
		CompanyName string `json:"company_name"`
	}
	var obj entry
	if err := json.Unmarshal(data, &obj); err == nil {
		s.CompanyName = obj.CompanyName
		return nil
	}
	var list []entry
	if err := json.Unmarshal(data, &list); err == nil && len(list) > 0 {
		s.CompanyName = list[0].CompanyName
	}
	return nil
}

// LegacyCredentials is the optional master admin account created alongside
// an import. Password here is plaintext and gets hashed.
type LegacyCredentials struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstSetFloat(a, b FlexFloat) FlexFloat {
	if a.IsSet() {
		return a
	}
	return b
}

func firstSetInt(a, b FlexInt) (int, bool) {
	if a.IsSet() {
		return a.value, true
	}
	if b.IsSet() {
		return b.value, true
	}
	return 0, false
}

// parseLegacyTime accepts the RFC3339-ish timestamps the old app wrote;
// anything unparsable falls back to the import time.
func parseLegacyTime(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}
