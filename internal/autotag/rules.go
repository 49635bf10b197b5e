package autotag

import (
	"encoding/json"
	"fmt"
	"os"

	"go-media-library/internal/models"
)

// KeywordTag emits Tag when Keyword appears in the (lowercased) filename.
type KeywordTag struct {
	Keyword string `json:"keyword"`
	Tag     string `json:"tag"`
}

// Rules is the declarative tagging vocabulary: bucket thresholds and
// keyword tables. Editing this (or the JSON file it loads from) extends
// the vocabulary without touching the tagger itself.
type Rules struct {
	MaxTags int `json:"max_tags"`

	// Aspect-ratio buckets (width / height).
	SquareMin    float64 `json:"square_min"`
	SquareMax    float64 `json:"square_max"`
	LandscapeMin float64 `json:"landscape_min"`
	PortraitMax  float64 `json:"portrait_max"`

	// Resolution buckets; either dimension reaching the bound qualifies.
	HighResMin  int `json:"high_res_min"`
	HDWidthMin  int `json:"hd_width_min"`
	HDHeightMin int `json:"hd_height_min"`

	// Average brightness buckets on a 0-255 scale.
	BrightMin float64 `json:"bright_min"`
	DarkMax   float64 `json:"dark_max"`

	// Image format -> tag (decoded format name, e.g. "jpeg").
	FormatTags map[string]string `json:"format_tags"`

	// Document extension (with dot) -> tag.
	ExtensionTags map[string]string `json:"extension_tags"`

	// Per-kind filename keyword tables, checked in order.
	FilenameTags map[models.MediaKind][]KeywordTag `json:"filename_tags"`
}

// DefaultRules returns the stock vocabulary.
func DefaultRules() Rules {
	return Rules{
		MaxTags:      5,
		SquareMin:    0.95,
		SquareMax:    1.05,
		LandscapeMin: 1.5,
		PortraitMax:  0.7,
		HighResMin:   3000,
		HDWidthMin:   1920,
		HDHeightMin:  1080,
		BrightMin:    200,
		DarkMax:      80,
		FormatTags: map[string]string{
			"jpeg": "photo",
			"jpg":  "photo",
			"png":  "graphic",
		},
		ExtensionTags: map[string]string{
			".pdf":  "pdf",
			".doc":  "word-document",
			".docx": "word-document",
			".xls":  "spreadsheet",
			".xlsx": "spreadsheet",
			".ppt":  "presentation",
			".pptx": "presentation",
		},
		FilenameTags: map[models.MediaKind][]KeywordTag{
			models.KindImage: {
				{"logo", "logo"},
				{"banner", "banner"},
				{"icon", "icon"},
				{"hero", "hero-image"},
				{"thumb", "thumbnail"},
			},
			models.KindVideo: {
				{"promo", "promo-video"},
				{"tutorial", "tutorial"},
				{"demo", "demo"},
				{"intro", "intro"},
				{"outro", "outro"},
			},
			models.KindAudio: {
				{"music", "music"},
				{"sfx", "sound-effect"},
				{"sound-effect", "sound-effect"},
				{"voice", "voice"},
				{"vocal", "voice"},
				{"ambient", "ambient"},
				{"loop", "loop"},
				{"rock", "rock"},
				{"pop", "pop"},
				{"jazz", "jazz"},
				{"classical", "classical"},
				{"electronic", "electronic"},
				{"hip-hop", "hip-hop"},
			},
			models.KindDocument: {
				{"report", "report"},
				{"invoice", "invoice"},
				{"contract", "contract"},
				{"manual", "manual"},
				{"guide", "guide"},
			},
		},
	}
}

// LoadRules reads a JSON rule file layered over the defaults; fields the
// file omits keep their default values.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read autotag rules: %w", err)
	}
	if err := json.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse autotag rules: %w", err)
	}
	if rules.MaxTags <= 0 {
		rules.MaxTags = DefaultRules().MaxTags
	}
	return rules, nil
}
