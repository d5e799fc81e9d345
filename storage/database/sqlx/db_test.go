package sqlxrepos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

// capturingDB records the last select it was asked to run.
type capturingDB struct {
	core.DBExecutor
	query string
	args  []interface{}
}

func (db *capturingDB) SelectContext(_ context.Context, _ interface{}, query string, args ...interface{}) error {
	db.query = query
	db.args = args
	return nil
}

func TestContainsPattern(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane", "%jane%"},
		{"100%", `%100\%%`},
		{"first_name", `%first\_name%`},
		{`a\b`, `%a\\b%`},
		{"", "%%"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, containsPattern(tt.in))
		})
	}
}

func TestUserRepository_FilterProfiles(t *testing.T) {
	db := &capturingDB{}
	repo := NewUserRepository(db)

	_, err := repo.FilterProfiles(context.Background(), user.QueryFilter{Search: "_%", Role: "teacher"})
	require.NoError(t, err)
	assert.Contains(t, db.query, "p.email ILIKE $1")
	assert.Contains(t, db.query, "p.full_name ILIKE $2")
	assert.Equal(t, []interface{}{`%\_\%%`, `%\_\%%`, "teacher"}, db.args)
}
