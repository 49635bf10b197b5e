package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"go-media-library/internal/library"
	"go-media-library/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := color.RGBA{R: 200, G: 120, B: 40, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, router *gin.Engine, path string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestApplyDocumentText(t *testing.T) {
	richText := strings.Repeat("Quarterly revenue grew across every region. ", 3)

	// A usable text layer is stored as-is; no OCR runs, so the flag stays
	// unset.
	doc := models.Document{}
	ocrCalled := false
	applyDocumentText(&doc, richText, func() (string, error) {
		ocrCalled = true
		return "", nil
	})
	assert.Equal(t, richText, doc.ExtractedText)
	assert.False(t, doc.OCRApplied)
	assert.False(t, ocrCalled, "extraction succeeded, OCR must not run")

	// Sparse text triggers the OCR fallback; only then is the flag set.
	doc = models.Document{}
	applyDocumentText(&doc, "scan", func() (string, error) {
		return "Recovered text from the scanned pages.", nil
	})
	assert.Equal(t, "Recovered text from the scanned pages.", doc.ExtractedText)
	assert.True(t, doc.OCRApplied)

	// A failed fallback keeps whatever extraction produced, unflagged.
	doc = models.Document{}
	applyDocumentText(&doc, "scan", func() (string, error) {
		return "", errors.New("tesseract not installed")
	})
	assert.Equal(t, "scan", doc.ExtractedText)
	assert.False(t, doc.OCRApplied)
}

func TestUploadImageEndpoint(t *testing.T) {
	h, router := newTestHandler(t)
	router.POST("/images", h.UploadImage)

	folder, err := h.folders.Create(library.CreateFolderInput{Name: "Banners", Slug: "banners"})
	require.NoError(t, err)

	w := multipartUpload(t, router, "/images", map[string]string{
		"title":     "Hero Shot",
		"folder_id": strconv.FormatUint(uint64(folder.ID), 10),
		"tags":      "summer, launch",
	}, "hero.png", pngBytes(t, 8, 6))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Image models.Image `json:"image"`
		Tags  []string     `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Hero Shot", created.Image.Title)
	assert.Equal(t, 8, created.Image.Width)
	assert.Equal(t, 6, created.Image.Height)
	require.NotNil(t, created.Image.FolderID)
	assert.Equal(t, folder.ID, *created.Image.FolderID)
	assert.Equal(t, []string{"summer", "launch"}, created.Tags)

	count, err := h.folders.MediaCount(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestUploadRejectsMalformedFolderID(t *testing.T) {
	h, router := newTestHandler(t)
	router.POST("/images", h.UploadImage)

	w := multipartUpload(t, router, "/images", map[string]string{
		"title":     "Hero Shot",
		"folder_id": "not-a-number",
	}, "hero.png", pngBytes(t, 8, 6))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "folder_id")
}
