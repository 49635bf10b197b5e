package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-media-library/internal/library"
	"go-media-library/internal/models"
	"go-media-library/internal/notify"
	"go-media-library/internal/processing"

	"github.com/gin-gonic/gin"
)

const (
	waveformBuckets = 200
	ocrMaxPages     = 5
)

// uploadForm carries the metadata fields shared by every upload route.
type uploadForm struct {
	Title           string
	CopyrightHolder string
	SourceURL       string
	FolderID        *uint
	Categories      []string
	Tags            []string
	AutoTag         bool
}

func parseUploadForm(c *gin.Context, defaultTitle string) (uploadForm, error) {
	form := uploadForm{
		Title:           c.PostForm("title"),
		CopyrightHolder: c.PostForm("copyright_holder"),
		SourceURL:       c.PostForm("source_url"),
		AutoTag:         c.PostForm("auto_tag") == "true",
	}
	if form.Title == "" {
		form.Title = defaultTitle
	}
	if folderParam := c.PostForm("folder_id"); folderParam != "" {
		id, err := strconv.ParseUint(folderParam, 10, 32)
		if err != nil {
			return form, fmt.Errorf("%w: folder_id must be a positive number", library.ErrValidation)
		}
		folderID := uint(id)
		form.FolderID = &folderID
	}
	form.Categories = splitList(c.PostForm("categories"))
	form.Tags = splitList(c.PostForm("tags"))
	return form, nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (f *uploadForm) fields(header *multipart.FileHeader, userID uint) models.MediaFields {
	return models.MediaFields{
		Title:           f.Title,
		Filename:        header.Filename,
		MimeType:        header.Header.Get("Content-Type"),
		Size:            header.Size,
		CopyrightHolder: f.CopyrightHolder,
		SourceURL:       f.SourceURL,
		FolderID:        f.FolderID,
		UploadedByID:    &userID,
	}
}

// receiveUpload validates the multipart file and spools it to a temp file
// so extraction tools can read it by path. The caller removes the temp
// file when done.
func (h *Handler) receiveUpload(c *gin.Context) (*multipart.FileHeader, string, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return nil, "", false
	}
	if header.Size > h.cfg.Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds maximum upload size"})
		return nil, "", false
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
		return nil, "", false
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buffer upload"})
		return nil, "", false
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to buffer upload"})
		return nil, "", false
	}
	tmp.Close()
	return header, tmp.Name(), true
}

func (h *Handler) storeUpload(c *gin.Context, tmpPath, filename string) (string, bool) {
	f, err := os.Open(tmpPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read buffered upload"})
		return "", false
	}
	defer f.Close()

	storedPath, err := h.store.Upload(f, filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return "", false
	}
	return storedPath, true
}

// autoTags merges suggested tags into the user-provided ones when the
// uploader opted in. Suggestion failures never fail the upload.
func (h *Handler) autoTags(tmpPath string, kind models.MediaKind, form uploadForm) []string {
	tags := form.Tags
	if !form.AutoTag {
		return tags
	}
	suggested, err := h.tagger.SuggestTags(tmpPath, kind, h.cfg.Autotag.MaxTags)
	if err != nil {
		log.Printf("Tag suggestion failed for %s: %v", tmpPath, err)
		return tags
	}
	for _, tag := range suggested {
		exists := false
		for _, t := range tags {
			if t == tag {
				exists = true
				break
			}
		}
		if !exists {
			tags = append(tags, tag)
		}
	}
	return tags
}

func notifyUpload(userID uint, kind models.MediaKind, itemID, title string) {
	notify.GetManager().Notify(notify.Event{
		Type:    notify.UploadComplete,
		UserID:  userID,
		ItemID:  itemID,
		Kind:    string(kind),
		Message: title + " uploaded",
	})
}

// UploadImage stores an image, reads its dimensions and applies metadata,
// categories and (optionally) suggested tags.
func (h *Handler) UploadImage(c *gin.Context) {
	userID := c.GetUint("user_id")
	header, tmpPath, ok := h.receiveUpload(c)
	if !ok {
		return
	}
	defer os.Remove(tmpPath)

	form, err := parseUploadForm(c, header.Filename)
	if err != nil {
		fail(c, err)
		return
	}

	image := models.Image{
		MediaFields: form.fields(header, userID),
		AltText:     c.PostForm("alt_text"),
	}
	if f, err := os.Open(tmpPath); err == nil {
		image.Width, image.Height, _ = processing.ImageDimensions(f)
		f.Close()
	}

	storedPath, ok := h.storeUpload(c, tmpPath, header.Filename)
	if !ok {
		return
	}
	image.Path = storedPath

	tags := h.autoTags(tmpPath, models.KindImage, form)
	if err := h.media.CreateImage(&image, form.Categories, tags); err != nil {
		h.store.Delete(storedPath)
		fail(c, err)
		return
	}

	notifyUpload(userID, models.KindImage, image.ID, image.Title)
	c.JSON(http.StatusCreated, gin.H{"image": image, "tags": tags})
}

// applyDocumentText stores the document's text layer. Sparse extraction
// output triggers the OCR fallback; OCRApplied is set only when that
// fallback produced the stored text.
func applyDocumentText(doc *models.Document, extracted string, ocr func() (string, error)) {
	if extracted != "" && !processing.NeedsOCR(extracted) {
		doc.ExtractedText = extracted
		return
	}
	text, err := ocr()
	if err != nil || strings.TrimSpace(text) == "" {
		doc.ExtractedText = extracted
		return
	}
	doc.ExtractedText = text
	doc.OCRApplied = true
}

// UploadDocument stores a document, extracts its text layer and page
// count, and falls back to OCR when the extracted text suggests a scan.
func (h *Handler) UploadDocument(c *gin.Context) {
	userID := c.GetUint("user_id")
	header, tmpPath, ok := h.receiveUpload(c)
	if !ok {
		return
	}
	defer os.Remove(tmpPath)

	form, err := parseUploadForm(c, header.Filename)
	if err != nil {
		fail(c, err)
		return
	}

	doc := models.Document{
		MediaFields: form.fields(header, userID),
		Version:     c.PostForm("version"),
		Department:  c.PostForm("department"),
	}
	if expiryParam := c.PostForm("expiry_date"); expiryParam != "" {
		expiry, err := time.Parse("2006-01-02", expiryParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry date must be YYYY-MM-DD"})
			return
		}
		doc.ExpiryDate = &expiry
	}

	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		text, err := processing.ExtractText(tmpPath, 0)
		if err != nil {
			log.Printf("Text extraction failed for %s: %v", header.Filename, err)
		}
		applyDocumentText(&doc, text, func() (string, error) {
			return processing.OCRText(tmpPath, ocrMaxPages, "")
		})
		if pages, err := processing.PageCount(tmpPath); err == nil {
			doc.PageCount = pages
		}
	}

	storedPath, ok := h.storeUpload(c, tmpPath, header.Filename)
	if !ok {
		return
	}
	doc.Path = storedPath

	tags := h.autoTags(tmpPath, models.KindDocument, form)
	if err := h.media.CreateDocument(&doc, form.Categories, tags); err != nil {
		h.store.Delete(storedPath)
		fail(c, err)
		return
	}

	notifyUpload(userID, models.KindDocument, doc.ID, doc.Title)
	c.JSON(http.StatusCreated, gin.H{"document": doc, "tags": tags})
}

// UploadVideo stores a video file and probes it for duration, resolution,
// codec and frame rate.
func (h *Handler) UploadVideo(c *gin.Context) {
	userID := c.GetUint("user_id")
	header, tmpPath, ok := h.receiveUpload(c)
	if !ok {
		return
	}
	defer os.Remove(tmpPath)

	form, err := parseUploadForm(c, header.Filename)
	if err != nil {
		fail(c, err)
		return
	}

	notify.GetManager().Notify(notify.Event{
		Type:    notify.ProcessingStatus,
		UserID:  userID,
		Kind:    string(models.KindVideo),
		Message: "processing " + header.Filename,
	})

	video := models.Video{
		MediaFields: form.fields(header, userID),
		Director:    c.PostForm("director"),
		Producer:    c.PostForm("producer"),
	}
	if info, err := processing.ProbeFile(tmpPath); err == nil {
		video.Duration = info.Duration
		video.Resolution = info.Resolution()
		video.Codec = info.VideoCodec
		video.FrameRate = info.FrameRate
	} else {
		log.Printf("Probe failed for %s: %v", header.Filename, err)
	}

	// A missing thumbnail is cosmetic; the upload proceeds without it.
	thumbTmp := tmpPath + ".jpg"
	if err := processing.VideoThumbnail(tmpPath, thumbTmp, 1.0); err == nil {
		if data, readErr := os.ReadFile(thumbTmp); readErr == nil {
			if thumbPath, upErr := h.store.UploadBytes(data, "thumb_"+header.Filename+".jpg"); upErr == nil {
				video.ThumbnailPath = thumbPath
			}
		}
		os.Remove(thumbTmp)
	} else {
		log.Printf("Thumbnail extraction failed for %s: %v", header.Filename, err)
	}

	storedPath, ok := h.storeUpload(c, tmpPath, header.Filename)
	if !ok {
		return
	}
	video.Path = storedPath

	tags := h.autoTags(tmpPath, models.KindVideo, form)
	if err := h.media.CreateVideo(&video, form.Categories, tags); err != nil {
		h.store.Delete(storedPath)
		fail(c, err)
		return
	}

	notifyUpload(userID, models.KindVideo, video.ID, video.Title)
	if video.ThumbnailPath != "" {
		notify.GetManager().Notify(notify.Event{
			Type:    notify.ProcessComplete,
			UserID:  userID,
			ItemID:  video.ID,
			Kind:    string(models.KindVideo),
			Message: "thumbnail ready",
			Data:    map[string]interface{}{"thumbnail_path": video.ThumbnailPath},
		})
	} else {
		notify.GetManager().Notify(notify.Event{
			Type:    notify.ProcessError,
			UserID:  userID,
			ItemID:  video.ID,
			Kind:    string(models.KindVideo),
			Message: "thumbnail extraction failed",
		})
	}
	c.JSON(http.StatusCreated, gin.H{"video": video, "tags": tags})
}

// CreateRemoteVideo registers an externally hosted video by provider id
// and embed markup; no file is stored.
func (h *Handler) CreateRemoteVideo(c *gin.Context) {
	userID := c.GetUint("user_id")

	var input struct {
		Title          string   `json:"title" binding:"required"`
		RemoteProvider string   `json:"remote_provider" binding:"required"`
		RemoteID       string   `json:"remote_id" binding:"required"`
		EmbedHTML      string   `json:"embed_html"`
		ThumbnailPath  string   `json:"thumbnail_path"`
		Director       string   `json:"director"`
		Producer       string   `json:"producer"`
		FolderID       *uint    `json:"folder_id"`
		Categories     []string `json:"categories"`
		Tags           []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title, remote provider and remote id are required"})
		return
	}

	video := models.Video{
		MediaFields: models.MediaFields{
			Title:        input.Title,
			FolderID:     input.FolderID,
			UploadedByID: &userID,
		},
		RemoteProvider: input.RemoteProvider,
		RemoteID:       input.RemoteID,
		EmbedHTML:      input.EmbedHTML,
		ThumbnailPath:  input.ThumbnailPath,
		Director:       input.Director,
		Producer:       input.Producer,
	}
	if err := h.media.CreateVideo(&video, input.Categories, input.Tags); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"video": video})
}

// UploadAudio stores an audio file, probes its duration and container
// tags, and precomputes a waveform summary.
func (h *Handler) UploadAudio(c *gin.Context) {
	userID := c.GetUint("user_id")
	header, tmpPath, ok := h.receiveUpload(c)
	if !ok {
		return
	}
	defer os.Remove(tmpPath)

	form, err := parseUploadForm(c, header.Filename)
	if err != nil {
		fail(c, err)
		return
	}

	audio := models.Audio{
		MediaFields: form.fields(header, userID),
		Artist:      c.PostForm("artist"),
		Album:       c.PostForm("album"),
		Genre:       c.PostForm("genre"),
	}
	if yearParam := c.PostForm("year"); yearParam != "" {
		audio.Year, _ = strconv.Atoi(yearParam)
	}

	if info, err := processing.ProbeFile(tmpPath); err == nil {
		audio.Duration = info.Duration
		if audio.Artist == "" {
			audio.Artist = info.Artist
		}
		if audio.Album == "" {
			audio.Album = info.Album
		}
		if audio.Genre == "" {
			audio.Genre = info.Genre
		}
		if audio.Year == 0 {
			audio.Year = info.Year
		}
	} else {
		log.Printf("Probe failed for %s: %v", header.Filename, err)
	}
	if waveform, err := processing.WaveformJSON(tmpPath, waveformBuckets); err == nil {
		audio.Waveform = waveform
	} else {
		log.Printf("Waveform summary failed for %s: %v", header.Filename, err)
	}

	storedPath, ok := h.storeUpload(c, tmpPath, header.Filename)
	if !ok {
		return
	}
	audio.Path = storedPath

	tags := h.autoTags(tmpPath, models.KindAudio, form)
	if err := h.media.CreateAudio(&audio, form.Categories, tags); err != nil {
		h.store.Delete(storedPath)
		fail(c, err)
		return
	}

	notifyUpload(userID, models.KindAudio, audio.ID, audio.Title)
	c.JSON(http.StatusCreated, gin.H{"audio": audio, "tags": tags})
}
