package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"add customers table", "add_customers_table"},
		{"Add-Customers-Table", "add_customers_table"},
		{"ADD_CUSTOMERS_TABLE", "add_customers_table"},
		{"add__customers__table", "add_customers_table"},
		{"Credit Transactions v2", "credit_transactions_v2"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, sanitizeName(tc.input), "input %q", tc.input)
	}
}

func TestCreateMigration(t *testing.T) {
	tmpDir := t.TempDir()

	mf, err := CreateMigration(tmpDir, "add customers table", "Customers with credit balance")
	require.NoError(t, err)
	require.NotNil(t, mf)

	// 14-digit timestamp prefix keeps files sorted
	assert.Len(t, mf.Version, 14)
	assert.True(t, strings.HasSuffix(mf.UpPath, ".up.sql"))
	assert.True(t, strings.HasSuffix(mf.DownPath, ".down.sql"))

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "add customers table")
	assert.Contains(t, string(upContent), "Customers with credit balance")
	assert.Contains(t, string(upContent), "Write your UP migration SQL here")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "Rollback")
	assert.Contains(t, string(downContent), "Write your DOWN migration SQL here")
}

func TestCreateMigration_CreatesDirectory(t *testing.T) {
	nestedPath := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(nestedPath, "init", "initial schema")
	require.NoError(t, err)
	require.NotNil(t, mf)

	info, err := os.Stat(nestedPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListMigrations(t *testing.T) {
	t.Run("pairs listed once", func(t *testing.T) {
		tmpDir := t.TempDir()
		for _, f := range []string{
			"000001_create_customers.up.sql",
			"000001_create_customers.down.sql",
			"000002_create_credit_transactions.up.sql",
			"000002_create_credit_transactions.down.sql",
			"000003_create_outbox_events.up.sql",
			"000003_create_outbox_events.down.sql",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("-- test"), 0644))
		}

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_customers",
			"000002_create_credit_transactions",
			"000003_create_outbox_events",
		}, migrations)
	})

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("missing directory treated as empty", func(t *testing.T) {
		migrations, err := ListMigrations("/nonexistent/path/to/migrations")
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("ignores unrelated files", func(t *testing.T) {
		tmpDir := t.TempDir()
		for _, f := range []string{
			"000001_init.up.sql",
			"000001_init.down.sql",
			"README.md",
			".gitkeep",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, f), []byte("test"), 0644))
		}

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, migrations)
	})

	t.Run("ignores directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "000001_init.up.sql"), []byte("test"), 0644))
		require.NoError(t, os.Mkdir(filepath.Join(tmpDir, "subdir.up.sql"), 0755))

		migrations, err := ListMigrations(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, []string{"000001_init"}, migrations)
	})
}
