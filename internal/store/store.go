// Package store implements the Kassets persistence layer: a platform file
// holding companies and users, one JSON file per company holding that
// company's operational data, and the data access operations the HTTP layer
// calls. All writes flush the owning file synchronously before returning.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/kassets/kassets/internal/auth"
	"github.com/kassets/kassets/internal/models"
)

// DefaultSuperAdminPassword is the seed password for the bootstrap
// super admin account. Override it via Options in anything but a demo.
const DefaultSuperAdminPassword = "super123"

const platformFileName = "platform.json"

// Options configures a Store.
type Options struct {
	// DataDir is the directory holding platform.json and the companies
	// subdirectory. Created if absent.
	DataDir string

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// UseCounterIDs switches global ID allocation from the full-corpus scan
	// to per-type counters persisted in the platform file. Counters are
	// seeded from a one-time scan so existing IDs stay unique.
	UseCounterIDs bool

	// SuperAdminPassword overrides the seed password for the bootstrap
	// super admin account.
	SuperAdminPassword string
}

// Store is the process-wide data access facade. Construct one per data
// directory; tests construct isolated instances against temp dirs.
type Store struct {
	dataDir      string
	companiesDir string
	platformPath string
	log          *zap.Logger
	alloc        IDAllocator

	// pmu guards platform. Lock order across the store: allocMu before
	// cache locks, a company entry's mutex before pmu, never two company
	// entries at once.
	pmu      sync.RWMutex
	platform *platformData

	// cmu guards the cache map only, not the entries inside it.
	cmu   sync.Mutex
	cache map[int]*companyEntry

	// allocMu serializes a global ID allocation with the insert that
	// follows it, so two concurrent creates cannot claim the same ID.
	allocMu sync.Mutex
}

// platformData is the on-disk shape of platform.json.
type platformData struct {
	Users     []models.User    `json:"users"`
	Companies []models.Company `json:"companies"`

	// IDCounters is used only by the counter allocator; absent until the
	// first run with UseCounterIDs.
	IDCounters map[string]int `json:"id_counters,omitempty"`
}

// Open loads (or initializes) the store at opts.DataDir: creates the
// directory layout, runs the one-time single-file migration if an old
// data.json is present, and seeds the super admin account.
func Open(opts Options) (*Store, error) {
	if opts.DataDir == "" {
		return nil, fmt.Errorf("store: DataDir is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		dataDir:      opts.DataDir,
		companiesDir: filepath.Join(opts.DataDir, "companies"),
		platformPath: filepath.Join(opts.DataDir, platformFileName),
		log:          logger,
		cache:        make(map[int]*companyEntry),
	}

	for _, dir := range []string{s.dataDir, s.companiesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", dir, err)
		}
	}

	s.platform = s.loadPlatform()
	s.migrateFromSingleFile()

	password := opts.SuperAdminPassword
	if password == "" {
		password = DefaultSuperAdminPassword
	}
	if err := s.seedSuperAdmin(password); err != nil {
		return nil, err
	}

	if opts.UseCounterIDs {
		alloc, err := newCounterAllocator(s)
		if err != nil {
			return nil, err
		}
		s.alloc = alloc
	} else {
		s.alloc = &scanAllocator{s: s}
	}

	if err := s.savePlatformLocked(); err != nil {
		return nil, err
	}
	s.log.Info("platform database ready",
		zap.Int("companies", len(s.platform.Companies)),
		zap.Int("users", len(s.platform.Users)))
	return s, nil
}

// seedSuperAdmin creates the bootstrap super admin account once. Idempotent
// across restarts.
func (s *Store) seedSuperAdmin(password string) error {
	for _, u := range s.platform.Users {
		if u.Username == "superadmin" {
			return nil
		}
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("store: hash super admin password: %w", err)
	}
	s.platform.Users = append(s.platform.Users, models.User{
		ID:          nextID(userIDs(s.platform.Users)),
		Username:    "superadmin",
		Password:    hash,
		DisplayName: "Super Administrator",
		Role:        models.RoleSuperAdmin,
		CompanyID:   nil,
		IsActive:    true,
		CreatedAt:   now(),
	})
	s.log.Info("super admin account created", zap.String("username", "superadmin"))
	return nil
}

// nextID returns max(ids)+1, or 1 for an empty collection. Used for the
// company-list and user-list sequences, which are platform-local.
func nextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func userIDs(users []models.User) []int {
	ids := make([]int, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func companyIDs(companies []models.Company) []int {
	ids := make([]int, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	return ids
}
