package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/portfolio/internal/database"
	"github.com/charlesng35/portfolio/internal/models"
)

// TestAdminEmail and TestAdminPassword identify the admin created by WithAdmin.
const (
	TestAdminEmail    = "admin@portfolio.test"
	TestAdminName     = "Portfolio Admin"
	TestAdminPassword = "admin-password"
)

// TestDBOption customises the behaviour of MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	autoMigrate bool
	admin       bool
	samples     bool
}

// WithAutoMigrate enables automatic schema migration after opening the test database.
func WithAutoMigrate() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
	}
}

// WithAdmin migrates the schema and creates the test administrator.
func WithAdmin() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
		cfg.admin = true
	}
}

// WithSeedData migrates the schema and inserts the sample projects and skills.
func WithSeedData() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
		cfg.samples = true
	}
}

// MustOpenTestDB opens a private in-memory SQLite database for tests, applying
// optional migrations and seed data. The connection is closed via t.Cleanup.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	cfg := testDBConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if cfg.autoMigrate {
		require.NoError(t, database.AutoMigrate(db))
	}
	if cfg.admin {
		_, _, err := database.SeedAdmin(db, database.AdminSeed{
			Email:    TestAdminEmail,
			Name:     TestAdminName,
			Password: TestAdminPassword,
		})
		require.NoError(t, err)
	}
	if cfg.samples {
		require.NoError(t, database.SeedSamples(db))
	}

	return db
}

// MustFindAdmin loads the administrator created by WithAdmin.
func MustFindAdmin(t *testing.T, db *gorm.DB) *models.Admin {
	t.Helper()

	var admin models.Admin
	require.NoError(t, db.Where("email = ?", TestAdminEmail).Take(&admin).Error)
	return &admin
}
