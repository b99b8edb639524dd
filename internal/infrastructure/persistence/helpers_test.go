package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database with the schema and
// statuses in place
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SeedStatuses(context.Background(), db))
	return db
}

// newMockDB opens GORM over a sqlmock connection speaking the postgres dialect
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func newTestCustomer(name, email string, addresses ...partner.Address) *partner.Customer {
	return &partner.Customer{
		Name:      name,
		Email:     email,
		Company:   name + " Co",
		Contact:   "555-0100",
		Country:   "NZ",
		StatusID:  partner.StatusActiveID,
		Addresses: addresses,
	}
}

func newTestAddress(no, city string) partner.Address {
	return partner.Address{No: no, Street: "Main St", City: city, State: "WLG"}
}

func createTestCustomer(t *testing.T, repo *GormCustomerRepository, name, email string, addresses ...partner.Address) *partner.Customer {
	t.Helper()
	c := newTestCustomer(name, email, addresses...)
	require.NoError(t, repo.Create(context.Background(), c))
	return c
}
