package processing

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
)

// TransformOptions defines the available image transformation options.
type TransformOptions struct {
	Width   int    // Width in pixels
	Height  int    // Height in pixels
	Fit     string // Fit mode: "contain", "cover", "fill"
	Crop    string // Crop position: "center", "top", "bottom", "left", "right"
	Quality int    // JPEG quality (1-100)
	Format  string // Output format: "jpeg", "png"
	Preset  string // Predefined transformation preset
}

// IsEmpty checks if any transformation options are set.
func (t *TransformOptions) IsEmpty() bool {
	return t.Width == 0 && t.Height == 0 && t.Fit == "" && t.Crop == "" &&
		t.Quality == 0 && t.Format == "" && t.Preset == ""
}

// Validate checks if the transformation options are valid.
func (t *TransformOptions) Validate() error {
	if t.Width < 0 || t.Height < 0 {
		return fmt.Errorf("width and height must be non-negative")
	}

	maxDimension := 16384
	if t.Width > maxDimension || t.Height > maxDimension {
		return fmt.Errorf("maximum allowed dimension is %d pixels", maxDimension)
	}

	if t.Fit != "" && t.Fit != "contain" && t.Fit != "cover" && t.Fit != "fill" {
		return fmt.Errorf("invalid fit mode: %s", t.Fit)
	}

	if t.Crop != "" && t.Crop != "center" && t.Crop != "top" && t.Crop != "bottom" && t.Crop != "left" && t.Crop != "right" {
		return fmt.Errorf("invalid crop position: %s", t.Crop)
	}

	if t.Quality < 0 || t.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100")
	}

	if t.Format != "" && t.Format != "jpeg" && t.Format != "jpg" && t.Format != "png" {
		return fmt.Errorf("unsupported format: %s", t.Format)
	}

	return nil
}

// ContentType returns the MIME type the transformed output will carry.
func (t *TransformOptions) ContentType(original string) string {
	switch t.Format {
	case "png":
		return "image/png"
	case "jpeg", "jpg":
		return "image/jpeg"
	case "":
		return original
	default:
		return "image/jpeg"
	}
}

// CacheKey builds a deterministic rendition filter spec for the options,
// used to key the rendition cache.
func (t *TransformOptions) CacheKey() string {
	return fmt.Sprintf("w%d_h%d_f%s_c%s_q%d_%s",
		t.Width, t.Height, t.Fit, t.Crop, t.Quality, t.Format)
}

// TransformImage applies the specified transformations to an image.
func TransformImage(input io.Reader, options TransformOptions) ([]byte, error) {
	if options.IsEmpty() {
		originalBytes, err := io.ReadAll(input)
		if err != nil {
			return nil, fmt.Errorf("failed to read original image: %v", err)
		}
		return originalBytes, nil
	}

	src, format, err := image.Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	bounds := src.Bounds()
	origWidth := bounds.Dx()
	origHeight := bounds.Dy()

	// Convert to NRGBA to ensure consistent color space.
	transformed := imaging.Clone(src)

	if options.Width > 0 || options.Height > 0 {
		targetWidth := options.Width
		targetHeight := options.Height

		// If only one dimension is specified, keep the aspect ratio.
		if targetWidth == 0 {
			targetWidth = int(float64(origWidth) * float64(targetHeight) / float64(origHeight))
		} else if targetHeight == 0 {
			targetHeight = int(float64(origHeight) * float64(targetWidth) / float64(origWidth))
		}

		switch options.Fit {
		case "cover":
			transformed = imaging.Fill(transformed, targetWidth, targetHeight, imaging.Center, imaging.Lanczos)
		case "fill":
			transformed = imaging.Resize(transformed, targetWidth, targetHeight, imaging.Lanczos)
		default:
			transformed = imaging.Fit(transformed, targetWidth, targetHeight, imaging.Lanczos)
		}
	}

	if options.Crop != "" {
		currentBounds := transformed.Bounds()
		cropWidth := options.Width
		cropHeight := options.Height

		if cropWidth == 0 || cropWidth > currentBounds.Dx() {
			cropWidth = currentBounds.Dx()
		}
		if cropHeight == 0 || cropHeight > currentBounds.Dy() {
			cropHeight = currentBounds.Dy()
		}

		var anchor imaging.Anchor
		switch options.Crop {
		case "top":
			anchor = imaging.Top
		case "bottom":
			anchor = imaging.Bottom
		case "left":
			anchor = imaging.Left
		case "right":
			anchor = imaging.Right
		default:
			anchor = imaging.Center
		}

		transformed = imaging.CropAnchor(transformed, cropWidth, cropHeight, anchor)
	}

	var buf bytes.Buffer
	outputFormat := options.Format
	if outputFormat == "" {
		outputFormat = format
	}

	switch outputFormat {
	case "jpeg", "jpg":
		quality := options.Quality
		if quality == 0 {
			quality = 85
		}
		err = jpeg.Encode(&buf, transformed, &jpeg.Options{Quality: quality})
	case "png":
		err = png.Encode(&buf, transformed)
	default:
		err = jpeg.Encode(&buf, transformed, &jpeg.Options{Quality: 85})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to encode transformed image: %v", err)
	}

	return buf.Bytes(), nil
}

// ApplyPreset applies a predefined transformation preset.
func ApplyPreset(options *TransformOptions, preset string) error {
	switch preset {
	case "thumbnail":
		options.Width = 150
		options.Height = 150
		options.Fit = "cover"
		options.Quality = 80
	case "social":
		options.Width = 1200
		options.Height = 630
		options.Fit = "contain"
		options.Quality = 85
	case "avatar":
		options.Width = 300
		options.Height = 300
		options.Fit = "cover"
		options.Quality = 85
	case "banner":
		options.Width = 1920
		options.Height = 400
		options.Fit = "cover"
		options.Quality = 90
	default:
		return fmt.Errorf("unknown preset: %s", preset)
	}
	return nil
}

// ImageDimensions reads the dimensions of an encoded image.
func ImageDimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image header: %v", err)
	}
	return cfg.Width, cfg.Height, nil
}
