package seed

import (
	"fmt"
	"testing"

	"go-media-library/database/migrations"
	"go-media-library/internal/library"
	"go-media-library/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.Migrate(db))
	return db
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, All(db))
	require.NoError(t, All(db))

	var folderCount, categoryCount, tagCount int64
	require.NoError(t, db.Model(&models.Folder{}).Count(&folderCount).Error)
	require.NoError(t, db.Model(&models.Category{}).Count(&categoryCount).Error)
	require.NoError(t, db.Model(&models.PredefinedTag{}).Count(&tagCount).Error)

	assert.Equal(t, int64(9), folderCount, "8 roots plus the campaign subfolder")
	assert.Equal(t, int64(9), categoryCount)
	assert.Equal(t, int64(20), tagCount)
}

func TestSeedFolderHierarchy(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Folders(db))
	folders := library.NewFolderService(db)

	// Logos is the protected system folder.
	logos, err := folders.GetBySlug("logos", nil)
	require.NoError(t, err)
	assert.True(t, logos.IsSystem)
	assert.ErrorIs(t, folders.Delete(logos.ID), library.ErrProtected)

	// 2024 Launch sits under Campaigns.
	campaigns, err := folders.GetBySlug("campaigns", nil)
	require.NoError(t, err)
	launch, err := folders.GetBySlug("2024-launch", &campaigns.ID)
	require.NoError(t, err)

	crumbs, err := folders.Breadcrumbs(launch.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Campaigns", crumbs[0].Name)
	assert.Equal(t, "2024 Launch", crumbs[1].Name)
}

func TestSeedTaxonomy(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Taxonomy(db))
	taxonomy := library.NewTaxonomyService(db)

	photos, err := taxonomy.CategoryBySlug("photos")
	require.NoError(t, err)
	assert.Equal(t, "Photos", photos.Name)
	assert.Equal(t, models.KindImage, models.MediaKind(photos.ApplicableTo))

	usage, err := taxonomy.ListPredefinedTags("usage")
	require.NoError(t, err)
	require.Len(t, usage, 6)
	assert.Equal(t, "hero-image", usage[0].Name)

	// Every seeded tag is active.
	all, err := taxonomy.ListPredefinedTags("")
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestEnsureAdminRequiresExplicitCredentials(t *testing.T) {
	db := newTestDB(t)

	_, _, err := EnsureAdmin(db, "", "")
	assert.ErrorIs(t, err, library.ErrValidation)
	_, _, err = EnsureAdmin(db, "admin@example.com", "")
	assert.ErrorIs(t, err, library.ErrValidation)
	_, _, err = EnsureAdmin(db, "", "changeme-now")
	assert.ErrorIs(t, err, library.ErrValidation)

	user, created, err := EnsureAdmin(db, "admin@example.com", "changeme-now")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, user.IsAdmin)
	assert.True(t, user.CheckPassword("changeme-now"))

	// A second call finds the existing account and changes nothing.
	again, created, err := EnsureAdmin(db, "admin@example.com", "other-password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.True(t, again.CheckPassword("changeme-now"))
}
