package library

import (
	"testing"

	"go-media-library/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFolderValidation(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	_, err := folders.Create(CreateFolderInput{Slug: "no-name"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = folders.Create(CreateFolderInput{Name: "No Slug"})
	assert.ErrorIs(t, err, ErrValidation)

	missing := uint(999)
	_, err = folders.Create(CreateFolderInput{Name: "Orphan", Slug: "orphan", ParentID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDuplicateSlugAmongSiblings(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	root, err := folders.Create(CreateFolderInput{Name: "Campaigns", Slug: "campaigns"})
	require.NoError(t, err)

	// Same slug at root level is rejected.
	_, err = folders.Create(CreateFolderInput{Name: "Campaigns Again", Slug: "campaigns"})
	assert.ErrorIs(t, err, ErrDuplicate)

	// The same slug under a different parent is fine.
	child, err := folders.Create(CreateFolderInput{Name: "Nested Campaigns", Slug: "campaigns", ParentID: &root.ID})
	require.NoError(t, err)
	assert.Equal(t, root.ID, *child.ParentID)

	// But not twice under the same parent.
	_, err = folders.Create(CreateFolderInput{Name: "Third", Slug: "campaigns", ParentID: &root.ID})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	first, created, err := folders.GetOrCreate("logos", nil, CreateFolderInput{Name: "Logos", Icon: "fa-copyright"})
	require.NoError(t, err)
	assert.True(t, created)

	// A second call must return the existing row untouched, ignoring the
	// new defaults.
	second, created, err := folders.GetOrCreate("logos", nil, CreateFolderInput{Name: "Different Name", Icon: "fa-other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Logos", second.Name)
	assert.Equal(t, "fa-copyright", second.Icon)
}

func TestSystemFolderIsNeverDeletable(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	logos, err := folders.Create(CreateFolderInput{Name: "Logos", Slug: "logos", IsSystem: true})
	require.NoError(t, err)

	ok, err := folders.CanDelete(logos.ID)
	require.NoError(t, err)
	assert.False(t, ok, "system folder must not be deletable even when empty")

	err = folders.Delete(logos.ID)
	assert.ErrorIs(t, err, ErrProtected)

	// The row is still there.
	_, err = folders.Get(logos.ID)
	assert.NoError(t, err)
}

func TestDeleteRules(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderService(db)

	parent, err := folders.Create(CreateFolderInput{Name: "Products", Slug: "products"})
	require.NoError(t, err)
	child, err := folders.Create(CreateFolderInput{Name: "Shoes", Slug: "shoes", ParentID: &parent.ID})
	require.NoError(t, err)

	// A folder with children is protected.
	err = folders.Delete(parent.ID)
	assert.ErrorIs(t, err, ErrProtected)

	// A folder holding media is protected.
	require.NoError(t, db.Create(&models.Image{MediaFields: models.MediaFields{
		ID: "img-1", Title: "Sneaker", FolderID: &child.ID,
	}}).Error)
	err = folders.Delete(child.ID)
	assert.ErrorIs(t, err, ErrProtected)

	// Once the media is gone the leaf deletes, and then so does the parent.
	require.NoError(t, db.Delete(&models.Image{}, "id = ?", "img-1").Error)
	require.NoError(t, folders.Delete(child.ID))
	require.NoError(t, folders.Delete(parent.ID))

	_, err = folders.Get(parent.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMediaCountSpansAllKinds(t *testing.T) {
	db := newTestDB(t)
	folders := NewFolderService(db)

	folder, err := folders.Create(CreateFolderInput{Name: "Mixed", Slug: "mixed"})
	require.NoError(t, err)
	other, err := folders.Create(CreateFolderInput{Name: "Other", Slug: "other"})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.Image{MediaFields: models.MediaFields{ID: "i1", Title: "a", FolderID: &folder.ID}}).Error)
	require.NoError(t, db.Create(&models.Document{MediaFields: models.MediaFields{ID: "d1", Title: "b", FolderID: &folder.ID}}).Error)
	require.NoError(t, db.Create(&models.Video{MediaFields: models.MediaFields{ID: "v1", Title: "c", FolderID: &folder.ID}, RemoteID: "x"}).Error)
	require.NoError(t, db.Create(&models.Audio{MediaFields: models.MediaFields{ID: "a1", Title: "d", FolderID: &folder.ID}}).Error)
	require.NoError(t, db.Create(&models.Image{MediaFields: models.MediaFields{ID: "i2", Title: "e", FolderID: &other.ID}}).Error)

	count, err := folders.MediaCount(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	count, err = folders.MediaCount(other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestBreadcrumbs(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	campaigns, err := folders.Create(CreateFolderInput{Name: "Campaigns", Slug: "campaigns"})
	require.NoError(t, err)
	launch, err := folders.Create(CreateFolderInput{Name: "2024 Launch", Slug: "2024-launch", ParentID: &campaigns.ID})
	require.NoError(t, err)
	assets, err := folders.Create(CreateFolderInput{Name: "Assets", Slug: "assets", ParentID: &launch.ID})
	require.NoError(t, err)

	crumbs, err := folders.Breadcrumbs(assets.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 3)
	assert.Equal(t, "Campaigns", crumbs[0].Name)
	assert.Equal(t, "2024 Launch", crumbs[1].Name)
	assert.Equal(t, "Assets", crumbs[2].Name)

	// A root folder's breadcrumbs are just itself.
	crumbs, err = folders.Breadcrumbs(campaigns.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 1)
	assert.Equal(t, campaigns.ID, crumbs[0].ID)
}

func TestMoveRejectsCycles(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	a, err := folders.Create(CreateFolderInput{Name: "A", Slug: "a"})
	require.NoError(t, err)
	b, err := folders.Create(CreateFolderInput{Name: "B", Slug: "b", ParentID: &a.ID})
	require.NoError(t, err)
	c, err := folders.Create(CreateFolderInput{Name: "C", Slug: "c", ParentID: &b.ID})
	require.NoError(t, err)

	// Self-parenting and moving under a descendant are both rejected.
	_, err = folders.Move(a.ID, &a.ID)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = folders.Move(a.ID, &c.ID)
	assert.ErrorIs(t, err, ErrValidation)

	// A legal move re-parents and updates breadcrumbs.
	moved, err := folders.Move(c.ID, &a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, *moved.ParentID)

	crumbs, err := folders.Breadcrumbs(c.ID)
	require.NoError(t, err)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "A", crumbs[0].Name)
}

func TestMoveToRootAndSlugConflict(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	parent, err := folders.Create(CreateFolderInput{Name: "Parent", Slug: "parent"})
	require.NoError(t, err)
	child, err := folders.Create(CreateFolderInput{Name: "Child", Slug: "child", ParentID: &parent.ID})
	require.NoError(t, err)

	moved, err := folders.Move(child.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)

	// Moving a folder where a sibling already holds its slug is rejected.
	conflicting, err := folders.Create(CreateFolderInput{Name: "Other Child", Slug: "child", ParentID: &parent.ID})
	require.NoError(t, err)
	_, err = folders.Move(conflicting.ID, nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRootsAndChildrenOrdering(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	_, err := folders.Create(CreateFolderInput{Name: "Zebra", Slug: "zebra", SortOrder: 1})
	require.NoError(t, err)
	_, err = folders.Create(CreateFolderInput{Name: "Apple", Slug: "apple", SortOrder: 2})
	require.NoError(t, err)
	_, err = folders.Create(CreateFolderInput{Name: "Mango", Slug: "mango", SortOrder: 1})
	require.NoError(t, err)

	roots, err := folders.Roots()
	require.NoError(t, err)
	require.Len(t, roots, 3)
	// Sort order first, then name.
	assert.Equal(t, []string{"Mango", "Zebra", "Apple"},
		[]string{roots[0].Name, roots[1].Name, roots[2].Name})
}

func TestUpdateLeavesUnsetFieldsAlone(t *testing.T) {
	folders := NewFolderService(newTestDB(t))

	folder, err := folders.Create(CreateFolderInput{Name: "Original", Slug: "original", Icon: "fa-folder", Color: "#111111"})
	require.NoError(t, err)

	updated, err := folders.Update(folder.ID, "Renamed", "", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "fa-folder", updated.Icon)
	assert.Equal(t, "#111111", updated.Color)

	order := 7
	updated, err = folders.Update(folder.ID, "", "", "", "#222222", &order)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "#222222", updated.Color)
	assert.Equal(t, 7, updated.SortOrder)
}
