package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
	"github.com/trezcool/campus/core/user"
	"github.com/trezcool/campus/storage/database"
)

type userRepository struct {
	db core.DBExecutor
}

func NewUserRepository(db core.DBExecutor) user.Repository {
	return &userRepository{db: db}
}

func profiles() sq.SelectBuilder {
	return psql.Select("p.user_id, p.email, p.full_name, p.avatar_url, r.role, p.created_at").
		From("profiles p").
		LeftJoin("user_roles r ON r.user_id = p.user_id")
}

func (repo userRepository) GetProfile(ctx context.Context, userID string) (user.Profile, error) {
	if !isUUID(userID) {
		return user.Profile{}, user.ErrNotFound
	}
	var prof user.Profile
	err := get(ctx, repo.db, &prof, profiles().Where(sq.Eq{"p.user_id": userID}))
	if database.IsNoRows(err) {
		return user.Profile{}, user.ErrNotFound
	}
	return prof, errors.Wrap(err, "getting profile")
}

func (repo userRepository) FilterProfiles(ctx context.Context, filter user.QueryFilter) ([]user.Profile, error) {
	profs := make([]user.Profile, 0)
	b := profiles().OrderBy("p.email")
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		b = b.Where(sq.Or{sq.ILike{"p.email": pattern}, sq.ILike{"p.full_name": pattern}})
	}
	if filter.Role != "" {
		b = b.Where(sq.Eq{"r.role": filter.Role})
	}
	err := selectAll(ctx, repo.db, &profs, b)
	return profs, err
}

func (repo userRepository) SetRole(ctx context.Context, userID string, role auth.Role) error {
	if !isUUID(userID) {
		return user.ErrNotFound
	}
	_, err := exec(ctx, repo.db, psql.
		Insert("user_roles").
		Columns("user_id", "role").
		Values(userID, role).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role, updated_at = now()"))
	return database.TranslateError(err, "setting role", "role already set")
}

func (repo userRepository) SetAvatarURL(ctx context.Context, userID, url string) error {
	if !isUUID(userID) {
		return user.ErrNotFound
	}
	n, err := exec(ctx, repo.db, psql.Update("profiles").Set("avatar_url", url).Where(sq.Eq{"user_id": userID}))
	if err != nil {
		return database.TranslateError(err, "setting avatar", "avatar already set")
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}
