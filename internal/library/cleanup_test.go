package library

import (
	"testing"
	"time"

	"go-media-library/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedExpiryDocs(t *testing.T, media *MediaService, now time.Time) (expired, current models.Document) {
	t.Helper()
	yesterday := now.AddDate(0, 0, -1)
	nextWeek := now.AddDate(0, 0, 7)

	expired = models.Document{
		MediaFields: models.MediaFields{Title: "Old Pricelist"},
		ExpiryDate:  &yesterday,
	}
	require.NoError(t, media.CreateDocument(&expired, nil, []string{"archived"}))

	current = models.Document{
		MediaFields: models.MediaFields{Title: "Current Pricelist"},
		ExpiryDate:  &nextWeek,
	}
	require.NoError(t, media.CreateDocument(&current, nil, nil))

	forever := models.Document{MediaFields: models.MediaFields{Title: "Evergreen"}}
	require.NoError(t, media.CreateDocument(&forever, nil, nil))
	return expired, current
}

func TestExpiredDocuments(t *testing.T) {
	media := NewMediaService(newTestDB(t))
	now := time.Now()
	expired, _ := seedExpiryDocs(t, media, now)

	docs, err := media.ExpiredDocuments(now)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, expired.ID, docs[0].ID)

	// Documents without an expiry date never expire.
	assert.False(t, (&models.Document{}).Expired(now))
}

func TestCleanupDryRunMutatesNothing(t *testing.T) {
	media := NewMediaService(newTestDB(t))
	now := time.Now()
	expired, _ := seedExpiryDocs(t, media, now)

	docs, err := media.CleanupExpiredDocuments(now, true)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, expired.ID, docs[0].ID)

	// The candidate is still in place after the dry run.
	_, err = media.GetDocument(expired.ID)
	assert.NoError(t, err)
}

func TestCleanupDeletesOnlyExpired(t *testing.T) {
	db := newTestDB(t)
	media := NewMediaService(db)
	taxonomy := NewTaxonomyService(db)
	now := time.Now()
	expired, current := seedExpiryDocs(t, media, now)

	docs, err := media.CleanupExpiredDocuments(now, false)
	require.NoError(t, err)
	require.Len(t, docs, 1)

	_, err = media.GetDocument(expired.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = media.GetDocument(current.ID)
	assert.NoError(t, err)

	// Tag associations of the deleted document are gone too.
	tags, err := taxonomy.ItemTags(models.KindDocument, expired.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	// A second sweep finds nothing.
	docs, err = media.CleanupExpiredDocuments(now, false)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
