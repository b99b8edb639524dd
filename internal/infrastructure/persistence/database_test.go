package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "crm.db"),
	}

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, AutoMigrate(db.DB))
	require.NoError(t, SeedStatuses(context.Background(), db.DB))

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestDatabase_Close(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "close.db"),
	}
	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestRowCounters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCustomerRepository(db)
	createTestCustomer(t, repo, "A", "a@example.com", newTestAddress("1", "Wellington"), newTestAddress("2", "Auckland"))

	counters := RowCounters(db)

	want := map[string]int64{"customers": 1, "addresses": 2, "projects": 0, "customer_projects": 0}
	require.Len(t, counters, len(want))
	for table, n := range want {
		got, err := counters[table]()
		require.NoError(t, err, table)
		assert.Equal(t, n, got, table)
	}
}
