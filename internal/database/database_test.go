package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recetario/backend/config"
	"github.com/pageza/recetario/backend/internal/model"
)

func sqliteConfig(t *testing.T) *config.Config {
	return &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "recetario.db"),
	}
}

func TestNewSQLite(t *testing.T) {
	db, err := New(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, HealthCheck(context.Background(), db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)
}

func TestRunMigrationsSQLite(t *testing.T) {
	db, err := New(sqliteConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, RunMigrations(db, "unused"))
	assert.True(t, db.Migrator().HasTable(&model.Ingredient{}))
	assert.True(t, db.Migrator().HasTable(&model.CustomUnit{}))

	ingredient := &model.Ingredient{
		Name:        "Sal",
		BaseUnit:    "gramos",
		CustomUnits: []model.CustomUnit{{Name: "Pizca", Amount: 0.4}},
	}
	require.NoError(t, db.Create(ingredient).Error)

	// foreign keys are enforced, so deleting the parent takes the units with it
	require.NoError(t, db.Delete(&model.Ingredient{}, "id = ?", ingredient.ID).Error)
	var count int64
	require.NoError(t, db.Model(&model.CustomUnit{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHealthCheckAfterClose(t *testing.T) {
	db, err := New(sqliteConfig(t))
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.Error(t, HealthCheck(context.Background(), db))
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_add_index.sql",
		"000001_create_ingredients.sql",
		"000001_create_ingredients_rollback.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "old.sql"), 0o755))

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_ingredients.sql", "000002_add_index.sql"}, files)

	_, err = MigrationFiles(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestRepositoryMigrations(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		rollback := f[:len(f)-len(".sql")] + "_rollback.sql"
		_, err := os.Stat(filepath.Join("..", "..", "migrations", rollback))
		assert.NoError(t, err, "missing rollback for %s", f)
	}
}
