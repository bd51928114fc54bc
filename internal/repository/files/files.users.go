// FilePath: internal/repository/files/files.users.go
package files

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/normalize"
	"github.com/airx/beds/server/hub/internal/repository"
)

// userRecord is a user as stored in users.json. Older files keep a plaintext
// password; newer ones a passwordHash.
type userRecord struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email,omitempty"`
	Name         string      `json:"name,omitempty"`
	Role         models.Role `json:"role"`
	SiteIDs      []string    `json:"siteIds"`
	Password     string      `json:"password,omitempty"`
	PasswordHash string      `json:"passwordHash,omitempty"`
	CreatedAt    *time.Time  `json:"createdAt,omitempty"`
}

func (r *userRecord) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*r = userRecord{
		ID:           normalize.Text(m["id"]),
		Username:     normalize.Text(m["username"]),
		Email:        normalize.Text(m["email"]),
		Name:         normalize.Text(m["name"]),
		Role:         models.NormalizeRole(m["role"]),
		SiteIDs:      normalize.StringList(m["siteIds"]),
		Password:     normalize.Text(m["password"]),
		PasswordHash: normalize.Text(m["passwordHash"]),
	}
	if str, ok := m["createdAt"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
			r.CreatedAt = &t
		}
	}
	return nil
}

func recordFromUser(u *models.User) *userRecord {
	r := &userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		SiteIDs:      append([]string{}, u.SiteIDs...),
		PasswordHash: u.PasswordHash,
	}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		r.CreatedAt = &t
	}
	return r
}

func (r *userRecord) toUser() *models.User {
	u := &models.User{
		ID:       r.ID,
		Username: r.Username,
		Email:    r.Email,
		Name:     r.Name,
		Role:     models.NormalizeRole(string(r.Role)),
		SiteIDs:  append([]string{}, r.SiteIDs...),
	}
	if r.CreatedAt != nil {
		u.CreatedAt = *r.CreatedAt
	}
	return u
}

func (r *userRecord) secret() string {
	if r.PasswordHash != "" {
		return r.PasswordHash
	}
	return r.Password
}

func (r *userRecord) removeSite(siteID string) bool {
	before := len(r.SiteIDs)
	r.SiteIDs = slices.DeleteFunc(r.SiteIDs, func(id string) bool { return id == siteID })
	return len(r.SiteIDs) != before
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	out := make([]*models.User, 0, len(s.users))
	for _, r := range s.users {
		out = append(out, r.toUser())
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	if idx := s.findUser(id); idx >= 0 {
		return s.users[idx].toUser(), nil
	}
	return nil, nil
}

func (s *Store) CreateUser(ctx context.Context, in *models.NewUser) (string, error) {
	user, err := repository.PrepareUser(in, s.opts, s.opts.Clock.Now().UTC())
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return "", err
	}

	for _, r := range s.users {
		if r.Username == user.Username {
			return "", repository.DuplicateUsername(user.Username)
		}
	}

	s.users = append(s.users, recordFromUser(user))
	if err := s.saveUsers(); err != nil {
		s.users = s.users[:len(s.users)-1]
		return "", err
	}
	return user.ID, nil
}

func (s *Store) DeleteUser(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return false, err
	}

	idx := s.findUser(id)
	if idx < 0 {
		return false, nil
	}
	if s.users[idx].Role.IsPrivileged() {
		return false, repository.ProtectedUser(id)
	}

	prev := s.users
	s.users = append(s.users[:idx:idx], s.users[idx+1:]...)
	if err := s.saveUsers(); err != nil {
		s.users = prev
		return false, err
	}
	return true, nil
}

func (s *Store) UpdateUserSites(ctx context.Context, id string, siteIDs []string) ([]string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, false, err
	}

	idx := s.findUser(id)
	if idx < 0 {
		return nil, false, nil
	}

	clean := repository.CleanSiteIDs(siteIDs)
	prev := s.users[idx].SiteIDs
	s.users[idx].SiteIDs = clean
	if err := s.saveUsers(); err != nil {
		s.users[idx].SiteIDs = prev
		return nil, false, err
	}
	return append([]string{}, clean...), true, nil
}

// FindUserByCredentials matches identifier against username or email.
func (s *Store) FindUserByCredentials(ctx context.Context, identifier, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(); err != nil {
		return nil, err
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, nil
	}
	for _, r := range s.users {
		if r.Username != identifier && (r.Email == "" || !strings.EqualFold(r.Email, identifier)) {
			continue
		}
		if s.opts.Verifier.Verify(r.secret(), password) {
			return r.toUser(), nil
		}
	}
	return nil, nil
}

func (s *Store) findUser(id string) int {
	for i, r := range s.users {
		if r.ID == id {
			return i
		}
	}
	return -1
}
