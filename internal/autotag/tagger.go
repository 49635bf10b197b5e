package autotag

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"go-media-library/internal/models"

	"github.com/disintegration/imaging"
)

// Tagger produces best-effort tag suggestions from locally available
// signals only: image headers, file extensions and filenames. It is
// deterministic and needs no network access.
type Tagger struct {
	rules Rules
}

func New(rules Rules) *Tagger {
	if rules.MaxTags <= 0 {
		rules.MaxTags = DefaultRules().MaxTags
	}
	return &Tagger{rules: rules}
}

// SuggestTags returns at most maxTags candidate tags for the file. Images
// are opened to read dimensions and color mode; other kinds use only the
// extension and filename. maxTags <= 0 falls back to the rule default.
func (t *Tagger) SuggestTags(path string, kind models.MediaKind, maxTags int) ([]string, error) {
	if maxTags <= 0 {
		maxTags = t.rules.MaxTags
	}

	var tags []string
	var err error
	switch kind {
	case models.KindImage:
		tags, err = t.tagImage(path)
		if err != nil {
			return nil, err
		}
	case models.KindDocument:
		if tag, ok := t.rules.ExtensionTags[strings.ToLower(filepath.Ext(path))]; ok {
			tags = append(tags, tag)
		}
	case models.KindVideo, models.KindAudio:
		// Filename keywords only.
	default:
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	tags = append(tags, t.filenameTags(path, kind)...)

	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return tags, nil
}

func (t *Tagger) tagImage(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var tags []string

	if height > 0 {
		ratio := float64(width) / float64(height)
		switch {
		case ratio >= t.rules.SquareMin && ratio <= t.rules.SquareMax:
			tags = append(tags, "square")
		case ratio > t.rules.LandscapeMin:
			tags = append(tags, "landscape")
		case ratio < t.rules.PortraitMax:
			tags = append(tags, "portrait")
		}
	}

	switch {
	case width >= t.rules.HighResMin || height >= t.rules.HighResMin:
		tags = append(tags, "high-resolution")
	case width >= t.rules.HDWidthMin || height >= t.rules.HDHeightMin:
		tags = append(tags, "hd")
	default:
		tags = append(tags, "standard")
	}

	tags = append(tags, t.colorTags(img)...)

	if tag, ok := t.rules.FormatTags[strings.ToLower(format)]; ok {
		tags = append(tags, tag)
	}

	return tags, nil
}

// colorTags buckets the image by color mode, or by sampled average
// brightness when neither transparency nor grayscale applies.
func (t *Tagger) colorTags(img image.Image) []string {
	if _, gray := img.(*image.Gray); gray {
		return []string{"grayscale"}
	}
	if o, ok := img.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return []string{"transparent"}
	}

	// Sample a 50x50 thumbnail for average brightness.
	small := imaging.Resize(img, 50, 50, imaging.Box)
	var sum float64
	bounds := small.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := small.At(x, y).RGBA()
			sum += float64(r>>8) + float64(g>>8) + float64(b>>8)
		}
	}
	avg := sum / float64(bounds.Dx()*bounds.Dy()*3)

	switch {
	case avg > t.rules.BrightMin:
		return []string{"bright"}
	case avg < t.rules.DarkMax:
		return []string{"dark"}
	}
	return nil
}

func (t *Tagger) filenameTags(path string, kind models.MediaKind) []string {
	filename := strings.ToLower(filepath.Base(path))
	var tags []string
	for _, entry := range t.rules.FilenameTags[kind] {
		if strings.Contains(filename, entry.Keyword) && !contains(tags, entry.Tag) {
			tags = append(tags, entry.Tag)
		}
	}
	return tags
}

func contains(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
