package library

import (
	"testing"

	"go-media-library/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateCategory(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))

	first, created, err := taxonomy.GetOrCreateCategory("photos", models.Category{Name: "Photos", Icon: "fa-camera"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "photos", first.Slug)

	// Re-running with different defaults returns the original untouched.
	second, created, err := taxonomy.GetOrCreateCategory("photos", models.Category{Name: "Pictures", Icon: "fa-image"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Photos", second.Name)
	assert.Equal(t, "fa-camera", second.Icon)

	_, _, err = taxonomy.GetOrCreateCategory("  ", models.Category{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListCategoriesByKind(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))

	_, _, err := taxonomy.GetOrCreateCategory("photos", models.Category{Name: "Photos", ApplicableTo: "image", SortOrder: 2})
	require.NoError(t, err)
	_, _, err = taxonomy.GetOrCreateCategory("graphics", models.Category{Name: "Graphics", ApplicableTo: "image", SortOrder: 1})
	require.NoError(t, err)
	_, _, err = taxonomy.GetOrCreateCategory("music", models.Category{Name: "Music", ApplicableTo: "audio", SortOrder: 3})
	require.NoError(t, err)

	images, err := taxonomy.ListCategories(models.KindImage)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "Graphics", images[0].Name)
	assert.Equal(t, "Photos", images[1].Name)

	all, err := taxonomy.ListCategories("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestDeleteCategoryClearsAssociations(t *testing.T) {
	db := newTestDB(t)
	taxonomy := NewTaxonomyService(db)
	media := NewMediaService(db)

	category, _, err := taxonomy.GetOrCreateCategory("photos", models.Category{Name: "Photos"})
	require.NoError(t, err)

	image := models.Image{MediaFields: models.MediaFields{Title: "Sunset"}}
	require.NoError(t, media.CreateImage(&image, []string{"photos"}, nil))

	require.NoError(t, taxonomy.DeleteCategory(category.ID))

	// The image survives with its category link cleared.
	got, err := media.GetImage(image.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Categories)

	assert.ErrorIs(t, taxonomy.DeleteCategory(category.ID), ErrNotFound)
}

func TestTagItemIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	taxonomy := NewTaxonomyService(db)

	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-1", "sunset", "beach"))
	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-1", "sunset", "ocean"))

	tags, err := taxonomy.ItemTags(models.KindImage, "img-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"sunset", "beach", "ocean"}, tags)

	// Only one association row exists per (tag, item).
	var count int64
	require.NoError(t, db.Model(&models.TaggedItem{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	// The same tag name is shared across kinds, not duplicated.
	require.NoError(t, taxonomy.TagItem(models.KindDocument, "doc-1", "sunset"))
	var tagCount int64
	require.NoError(t, db.Model(&models.Tag{}).Where("name = ?", "sunset").Count(&tagCount).Error)
	assert.Equal(t, int64(1), tagCount)
}

func TestUntagItem(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))

	require.NoError(t, taxonomy.TagItem(models.KindVideo, "vid-1", "promo", "launch"))
	require.NoError(t, taxonomy.UntagItem(models.KindVideo, "vid-1", "promo"))

	tags, err := taxonomy.ItemTags(models.KindVideo, "vid-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"launch"}, tags)

	assert.ErrorIs(t, taxonomy.UntagItem(models.KindVideo, "vid-1", "never-existed"), ErrNotFound)
}

func TestPopularTags(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))

	// "sunset" on three items across kinds, "beach" on two, "ocean" on one.
	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-1", "sunset", "beach", "ocean"))
	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-2", "sunset", "beach"))
	require.NoError(t, taxonomy.TagItem(models.KindDocument, "doc-1", "sunset"))

	usage, err := taxonomy.PopularTags(2)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, TagUsage{Name: "sunset", Count: 3}, usage[0])
	assert.Equal(t, TagUsage{Name: "beach", Count: 2}, usage[1])

	none, err := taxonomy.PopularTags(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRelatedTags(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))

	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-1", "sunset", "beach", "ocean"))
	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-2", "sunset", "beach"))
	require.NoError(t, taxonomy.TagItem(models.KindImage, "img-3", "mountain"))

	related, err := taxonomy.RelatedTags([]string{"sunset"}, 10)
	require.NoError(t, err)
	require.Len(t, related, 2)
	// "beach" co-occurs twice, "ocean" once; the input tag is excluded.
	assert.Equal(t, "beach", related[0].Name)
	assert.Equal(t, int64(2), related[0].Count)
	assert.Equal(t, "ocean", related[1].Name)

	// Empty input yields an empty result, not all tags.
	empty, err := taxonomy.RelatedTags(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListPredefinedTags(t *testing.T) {
	db := newTestDB(t)
	taxonomy := NewTaxonomyService(db)

	_, _, err := taxonomy.GetOrCreateTag("hero-image", models.PredefinedTag{Name: "hero-image", TagType: "usage", IsActive: true, SortOrder: 1})
	require.NoError(t, err)
	_, _, err = taxonomy.GetOrCreateTag("modern", models.PredefinedTag{Name: "modern", TagType: "style", IsActive: true, SortOrder: 10})
	require.NoError(t, err)
	_, _, err = taxonomy.GetOrCreateTag("retired", models.PredefinedTag{Name: "retired", TagType: "style", IsActive: true, SortOrder: 11})
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.PredefinedTag{}).
		Where("slug = ?", "retired").Update("is_active", false).Error)

	all, err := taxonomy.ListPredefinedTags("")
	require.NoError(t, err)
	require.Len(t, all, 2, "inactive tags stay out of suggestion lists")

	styles, err := taxonomy.ListPredefinedTags("style")
	require.NoError(t, err)
	require.Len(t, styles, 1)
	assert.Equal(t, "modern", styles[0].Name)
}

func TestSuggestCategory(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))

	// Two photo keywords beat one logo keyword.
	category, ok := taxonomy.SuggestCategory([]string{"photo", "photography", "logo"})
	assert.True(t, ok)
	assert.Equal(t, "Photos", category)

	// Keyword matching is substring-based and case-insensitive.
	category, ok = taxonomy.SuggestCategory([]string{"Promo-Video-Final"})
	assert.True(t, ok)
	assert.Equal(t, "Videos", category)

	// No keyword hits at all.
	_, ok = taxonomy.SuggestCategory([]string{"unrelated", "random"})
	assert.False(t, ok)

	// Score ties go to the earliest declared category.
	category, ok = taxonomy.SuggestCategory([]string{"graphic", "photo"})
	assert.True(t, ok)
	assert.Equal(t, "Graphics", category)
}

func TestSuggestCategoryCustomVocabulary(t *testing.T) {
	taxonomy := NewTaxonomyService(newTestDB(t))
	taxonomy.SetCategoryKeywords([]CategoryKeywords{
		{"Nature", []string{"nature", "forest", "wildlife"}},
	})

	category, ok := taxonomy.SuggestCategory([]string{"nature-photo"})
	assert.True(t, ok)
	assert.Equal(t, "Nature", category)

	// "photo" is not in the replaced vocabulary anymore.
	_, ok = taxonomy.SuggestCategory([]string{"photo"})
	assert.False(t, ok)
}
