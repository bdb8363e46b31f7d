package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/payables/internal/testutil"
	"github.com/smallbiznis/payables/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrateCreatesTables(t *testing.T) {
	conn := testutil.NewDB(t)
	require.NoError(t, Migrate(conn, db.TypeSQLite))
	for _, table := range []string{"branches", "suppliers", "invoices", "users"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	require.NoError(t, Migrate(conn, db.TypeSQLite), "migrating twice is a no-op")
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.down.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestMigrateRequiresHandle(t *testing.T) {
	assert.Error(t, Migrate(nil, db.TypeSQLite))
	assert.Error(t, RunMigrations(nil))
}
