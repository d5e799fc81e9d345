package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/user"
)

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

// withRole joins the profile with its role row. Callers hold the lock.
func (repo *userRepository) withRole(p user.Profile) user.Profile {
	if r, ok := repo.db.roles[p.UserID]; ok {
		p.Role.SetValid(string(r))
	}
	return p
}

func (repo *userRepository) GetProfile(_ context.Context, userID string) (user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	if p, ok := repo.db.profiles[userID]; ok {
		return repo.withRole(p), nil
	}
	return user.Profile{}, user.ErrNotFound
}

func (repo *userRepository) FilterProfiles(_ context.Context, filter user.QueryFilter) ([]user.Profile, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	search := strings.ToLower(filter.Search)
	profs := make([]user.Profile, 0)
	for _, p := range repo.db.profiles {
		p = repo.withRole(p)
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Email), search) &&
			!strings.Contains(strings.ToLower(p.FullName), search) {
			continue
		}
		if filter.Role != "" && p.Role.String != filter.Role {
			continue
		}
		profs = append(profs, p)
	}
	sort.Slice(profs, func(i, j int) bool { return profs[i].Email < profs[j].Email })
	return profs, nil
}

func (repo *userRepository) SetRole(_ context.Context, userID string, role auth.Role) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	if _, ok := repo.db.profiles[userID]; !ok {
		return user.ErrNotFound
	}
	repo.db.roles[userID] = role
	return nil
}

func (repo *userRepository) SetAvatarURL(_ context.Context, userID, url string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	p, ok := repo.db.profiles[userID]
	if !ok {
		return user.ErrNotFound
	}
	p.AvatarURL.SetValid(url)
	repo.db.profiles[userID] = p
	return nil
}
