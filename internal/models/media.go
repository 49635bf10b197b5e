package models

import (
	"encoding/json"
	"time"
)

// MediaKind discriminates the four concrete media tables in polymorphic
// associations such as TaggedItem.
type MediaKind string

const (
	KindImage    MediaKind = "image"
	KindDocument MediaKind = "document"
	KindVideo    MediaKind = "video"
	KindAudio    MediaKind = "audio"
)

// Kinds lists every media kind in a stable order.
func Kinds() []MediaKind {
	return []MediaKind{KindImage, KindDocument, KindVideo, KindAudio}
}

// MediaFields carries the attributes shared by all four media kinds.
type MediaFields struct {
	ID              string    `json:"id" gorm:"primarykey"`
	Title           string    `json:"title" gorm:"not null"`
	Path            string    `json:"path"`
	Filename        string    `json:"filename"`
	MimeType        string    `json:"mime_type"`
	Size            int64     `json:"size"`
	CopyrightHolder string    `json:"copyright_holder"`
	SourceURL       string    `json:"source_url"`
	FolderID        *uint     `json:"folder_id" gorm:"index"`
	UploadedByID    *uint     `json:"uploaded_by_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Image is a stored picture plus its cached renditions.
type Image struct {
	MediaFields
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	AltText    string           `json:"alt_text"`
	Renditions []ImageRendition `json:"renditions,omitempty" gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE"`
	Categories []Category       `json:"categories,omitempty" gorm:"many2many:image_categories;"`
}

func (Image) TableName() string {
	return "images"
}

// ImageRendition caches one derived version of an image (thumbnail, preset
// resize). Unique per (image, filter spec).
type ImageRendition struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ImageID   string    `json:"image_id" gorm:"not null;uniqueIndex:idx_renditions_image_filter"`
	Filter    string    `json:"filter" gorm:"not null;uniqueIndex:idx_renditions_image_filter"`
	Path      string    `json:"path"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}

func (ImageRendition) TableName() string {
	return "image_renditions"
}

// Document is a stored file with office metadata. Documents past their
// expiry date become candidates for the cleanup sweep.
type Document struct {
	MediaFields
	Version       string     `json:"version"`
	ExpiryDate    *time.Time `json:"expiry_date" gorm:"index"`
	Department    string     `json:"department"`
	ExtractedText string     `json:"extracted_text" gorm:"type:text"`
	PageCount     int        `json:"page_count"`
	OCRApplied    bool       `json:"ocr_applied"`
	Categories    []Category `json:"categories,omitempty" gorm:"many2many:document_categories;"`
}

func (Document) TableName() string {
	return "documents"
}

// Expired reports whether the document's expiry date is strictly before
// the given day.
func (d *Document) Expired(now time.Time) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return d.ExpiryDate.Before(now.Truncate(24 * time.Hour))
}

// Video is either local (stored file) or remote (provider id + embed
// markup); never both are required.
type Video struct {
	MediaFields
	Duration       float64    `json:"duration"`
	Resolution     string     `json:"resolution"`
	Codec          string     `json:"codec"`
	FrameRate      string     `json:"frame_rate"`
	Director       string     `json:"director"`
	Producer       string     `json:"producer"`
	RemoteProvider string     `json:"remote_provider"`
	RemoteID       string     `json:"remote_id"`
	EmbedHTML      string     `json:"embed_html" gorm:"type:text"`
	ThumbnailPath  string     `json:"thumbnail_path"`
	Categories     []Category `json:"categories,omitempty" gorm:"many2many:video_categories;"`
}

func (Video) TableName() string {
	return "videos"
}

// IsRemote reports whether the video is hosted by an external provider
// rather than stored locally. Processing branches on this.
func (v *Video) IsRemote() bool {
	return v.RemoteID != ""
}

// Audio is a stored sound file with music metadata and an optional
// precomputed waveform summary (JSON array of peak levels).
type Audio struct {
	MediaFields
	Duration   float64         `json:"duration"`
	Artist     string          `json:"artist"`
	Album      string          `json:"album"`
	Genre      string          `json:"genre"`
	Year       int             `json:"year"`
	Waveform   json.RawMessage `json:"waveform,omitempty" gorm:"type:jsonb"`
	Categories []Category      `json:"categories,omitempty" gorm:"many2many:audio_categories;"`
}

func (Audio) TableName() string {
	return "audio_files"
}
