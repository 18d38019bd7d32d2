package store

import (
	kerrors "github.com/kassets/kassets/internal/errors"
	"github.com/kassets/kassets/internal/models"
)

// NewUser is the creation payload for a user. Password must already be
// hashed; the store never sees plaintext credentials.
type NewUser struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
	Role        string
	CompanyID   *int
	IsActive    bool
}

// GetUser returns an active user by username, hash included. This is the
// login lookup; inactive accounts cannot authenticate.
func (s *Store) GetUser(username string) (models.User, error) {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	for _, u := range s.platform.Users {
		if u.Username == username && u.IsActive {
			return u, nil
		}
	}
	return models.User{}, kerrors.NewNotFoundError("user")
}

// GetUserByID returns a user by ID, hash included.
func (s *Store) GetUserByID(id int) (models.User, error) {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	for _, u := range s.platform.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, kerrors.NewNotFoundError("user")
}

// GetUsers returns the users of one company, passwords stripped.
func (s *Store) GetUsers(companyID int) []models.User {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	out := []models.User{}
	for _, u := range s.platform.Users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			out = append(out, u.WithoutPassword())
		}
	}
	return out
}

// GetAllUsers returns every user on the platform, passwords stripped.
func (s *Store) GetAllUsers() []models.User {
	s.pmu.RLock()
	defer s.pmu.RUnlock()
	out := make([]models.User, 0, len(s.platform.Users))
	for _, u := range s.platform.Users {
		out = append(out, u.WithoutPassword())
	}
	return out
}

// CreateUser adds a user. Usernames are unique platform-wide, across all
// companies.
func (s *Store) CreateUser(in NewUser) (models.User, error) {
	s.pmu.Lock()
	defer s.pmu.Unlock()
	for _, u := range s.platform.Users {
		if u.Username == in.Username {
			return models.User{}, kerrors.NewDuplicateUsernameError(in.Username)
		}
	}
	user := models.User{
		ID:          nextID(userIDs(s.platform.Users)),
		Username:    in.Username,
		Password:    in.Password,
		DisplayName: in.DisplayName,
		Email:       in.Email,
		Role:        in.Role,
		CompanyID:   in.CompanyID,
		IsActive:    in.IsActive,
		CreatedAt:   now(),
	}
	s.platform.Users = append(s.platform.Users, user)
	if err := s.savePlatformLocked(); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// UpdateUser merges the non-nil fields onto the user record.
func (s *Store) UpdateUser(id int, upd models.UserUpdate) error {
	s.pmu.Lock()
	defer s.pmu.Unlock()
	for i := range s.platform.Users {
		if s.platform.Users[i].ID != id {
			continue
		}
		u := &s.platform.Users[i]
		if upd.Password != nil {
			u.Password = *upd.Password
		}
		if upd.DisplayName != nil {
			u.DisplayName = *upd.DisplayName
		}
		if upd.Email != nil {
			u.Email = *upd.Email
		}
		if upd.Role != nil {
			u.Role = *upd.Role
		}
		if upd.IsActive != nil {
			u.IsActive = *upd.IsActive
		}
		return s.savePlatformLocked()
	}
	return kerrors.NewNotFoundError("user")
}

// DeleteUser removes a user from the platform.
func (s *Store) DeleteUser(id int) error {
	s.pmu.Lock()
	defer s.pmu.Unlock()
	for i, u := range s.platform.Users {
		if u.ID == id {
			s.platform.Users = append(s.platform.Users[:i], s.platform.Users[i+1:]...)
			return s.savePlatformLocked()
		}
	}
	return kerrors.NewNotFoundError("user")
}
