// Package models contains the core Kassets data structures
// shared by the store, auth, and API layers.
package models

import "time"

// =============================================================================
// ROLES
// =============================================================================

// Role names, strongest first. super_admin is platform-wide and has no
// company; every other role is scoped to exactly one company.
const (
	RoleSuperAdmin  = "super_admin"
	RoleMasterAdmin = "master_admin"
	RoleAdmin       = "admin"
	RoleEditor      = "editor"
	RoleViewer      = "viewer"
)

// =============================================================================
// PLATFORM MODELS (stored in platform.json)
// =============================================================================

// Company represents a tenant. Each company owns one JSON data file named
// after its slug under the companies directory.
type Company struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// User represents an account. Users live in the platform file regardless of
// which company they belong to; CompanyID is nil for super admins.
type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Password    string    `json:"password,omitempty"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	CompanyID   *int      `json:"company_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// WithoutPassword returns a copy of the user with the password hash cleared.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// =============================================================================
// COMPANY MODELS (stored in <slug>.json)
// =============================================================================

// Asset is a tracked physical asset. IDs are unique platform-wide.
type Asset struct {
	ID               int       `json:"id"`
	CompanyID        int       `json:"company_id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	SerialNumber     string    `json:"serial_number"`
	PartNumber       string    `json:"part_number"`
	Description      string    `json:"description"`
	PurchaseDate     string    `json:"purchase_date"`
	PurchaseCost     float64   `json:"purchase_cost"`
	CurrentValue     float64   `json:"current_value"`
	Quantity         int       `json:"quantity"`
	DepreciationRate float64   `json:"depreciation_rate"`
	LocationID       *int      `json:"location_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// Location is a place assets live at. A location cannot be deleted while
// any asset in the same company references it.
type Location struct {
	ID        int       `json:"id"`
	CompanyID int       `json:"company_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// Category groups assets by name within a company. Assets reference
// categories by name, not by ID.
type Category struct {
	ID        int    `json:"id"`
	CompanyID int    `json:"company_id"`
	Name      string `json:"name"`
}

// Settings is the per-company settings record. Each company file holds at
// most one.
type Settings struct {
	ID          int    `json:"id"`
	CompanyID   int    `json:"company_id"`
	CompanyName string `json:"company_name"`
}

// Photo is attached to an asset and removed when the asset is deleted.
type Photo struct {
	ID        int       `json:"id"`
	AssetID   int       `json:"asset_id"`
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-text note on an asset. CreatedBy is a display name,
// not a user reference.
type Note struct {
	ID        int       `json:"id"`
	AssetID   int       `json:"asset_id"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// CompanyData is the full contents of one company's JSON file.
type CompanyData struct {
	Assets     []Asset    `json:"assets"`
	Locations  []Location `json:"locations"`
	Categories []Category `json:"categories"`
	Settings   []Settings `json:"settings"`
	Photos     []Photo    `json:"photos"`
	Notes      []Note     `json:"notes"`
}

// =============================================================================
// DECORATED VIEWS
// =============================================================================

// AssetView is an asset joined with its location name, photos, and notes
// (notes sorted newest first). CompanyName is set only on cross-company
// listings.
type AssetView struct {
	Asset
	CompanyName  string  `json:"company_name,omitempty"`
	LocationName string  `json:"location_name"`
	Photos       []Photo `json:"photos"`
	Notes        []Note  `json:"notes"`
}

// LocationView is a location joined with usage stats.
type LocationView struct {
	Location
	AssetCount int     `json:"asset_count"`
	TotalValue float64 `json:"total_value"`
}

// CategoryView is a category joined with the number of assets using it.
type CategoryView struct {
	Category
	AssetCount int `json:"asset_count"`
}

// CompanyStats summarizes one company for the super admin dashboard.
type CompanyStats struct {
	AssetCount    int     `json:"assetCount"`
	TotalUnits    int     `json:"totalUnits"`
	TotalValue    float64 `json:"totalValue"`
	TotalCost     float64 `json:"totalCost"`
	UserCount     int     `json:"userCount"`
	LocationCount int     `json:"locationCount"`
}

// =============================================================================
// UPDATE PAYLOADS
// =============================================================================

// Update structs are partial: nil fields are left untouched.

// CompanyUpdate is a partial update of a company record.
type CompanyUpdate struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

// UserUpdate is a partial update of a user record.
type UserUpdate struct {
	Password    *string `json:"password"`
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	IsActive    *bool   `json:"is_active"`
}

// AssetUpdate is a partial update of an asset record. LocationID uses a
// double pointer so "set to null" and "leave alone" stay distinguishable.
type AssetUpdate struct {
	Name             *string  `json:"name"`
	Category         *string  `json:"category"`
	SerialNumber     *string  `json:"serial_number"`
	PartNumber       *string  `json:"part_number"`
	Description      *string  `json:"description"`
	PurchaseDate     *string  `json:"purchase_date"`
	PurchaseCost     *float64 `json:"purchase_cost"`
	CurrentValue     *float64 `json:"current_value"`
	Quantity         *int     `json:"quantity"`
	DepreciationRate *float64 `json:"depreciation_rate"`
	LocationID       **int    `json:"-"`
}

// LocationUpdate is a partial update of a location record.
type LocationUpdate struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// SettingsUpdate is a partial update of the settings record.
type SettingsUpdate struct {
	CompanyName *string `json:"company_name"`
}
