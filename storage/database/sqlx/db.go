package sqlxrepos

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
)

var (
	psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
)

// containsPattern is an ILIKE pattern matching s anywhere. Wildcards in s match literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// isUUID guards the queries against ids postgres would reject with a cast error.
func isUUID(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func get(ctx context.Context, db core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return db.GetContext(ctx, dest, q, args...)
}

func selectAll(ctx context.Context, db core.DBExecutor, dest interface{}, b sq.Sqlizer) error {
	q, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return db.SelectContext(ctx, dest, q, args...)
}

func exec(ctx context.Context, db core.DBExecutor, b sq.Sqlizer) (int64, error) {
	q, args, err := b.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "building query")
	}
	res, err := db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func exists(ctx context.Context, db core.DBExecutor, b sq.SelectBuilder) (bool, error) {
	q, args, err := b.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, errors.Wrap(err, "building query")
	}
	var ok bool
	err = db.GetContext(ctx, &ok, q, args...)
	return ok, err
}

// optionalUUID is isUUID for filter fields, where empty means unset.
func optionalUUID(ids ...string) bool {
	for _, id := range ids {
		if id != "" && !isUUID(id) {
			return false
		}
	}
	return true
}
