package processing

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// MediaInfo holds the technical details ffprobe reports for an audio or
// video file.
type MediaInfo struct {
	Duration    float64 `json:"duration"`
	Bitrate     string  `json:"bitrate,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	VideoCodec  string  `json:"video_codec,omitempty"`
	AudioCodec  string  `json:"audio_codec,omitempty"`
	FrameRate   string  `json:"frame_rate,omitempty"`
	AspectRatio string  `json:"aspect_ratio,omitempty"`

	// Audio container tags.
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Genre  string `json:"genre,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Resolution formats the probed dimensions as "WxH", empty when unknown.
func (m *MediaInfo) Resolution() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// ProbeFile extracts media metadata using ffprobe.
func ProbeFile(path string) (*MediaInfo, error) {
	cmd := exec.Command("ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to probe media file: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			Width      int    `json:"width,omitempty"`
			Height     int    `json:"height,omitempty"`
			RFrameRate string `json:"r_frame_rate,omitempty"`
		} `json:"streams"`
		Format struct {
			Duration string            `json:"duration"`
			BitRate  string            `json:"bit_rate"`
			Tags     map[string]string `json:"tags"`
		} `json:"format"`
	}

	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("failed to parse probe output: %v", err)
	}

	info := &MediaInfo{Bitrate: result.Format.BitRate}

	if result.Format.Duration != "" {
		if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
			info.Duration = d
		}
	}

	for _, stream := range result.Streams {
		switch stream.CodecType {
		case "video":
			info.VideoCodec = stream.CodecName
			info.Width = stream.Width
			info.Height = stream.Height
			// Frame rate usually arrives in "num/den" form.
			if parts := strings.Split(stream.RFrameRate, "/"); len(parts) == 2 {
				num, _ := strconv.ParseFloat(parts[0], 64)
				den, _ := strconv.ParseFloat(parts[1], 64)
				if den > 0 {
					info.FrameRate = fmt.Sprintf("%.2f", num/den)
				}
			}
			if stream.Width > 0 && stream.Height > 0 {
				info.AspectRatio = fmt.Sprintf("%d:%d", stream.Width, stream.Height)
			}
		case "audio":
			info.AudioCodec = stream.CodecName
		}
	}

	for key, value := range result.Format.Tags {
		switch strings.ToLower(key) {
		case "artist":
			info.Artist = value
		case "album":
			info.Album = value
		case "genre":
			info.Genre = value
		case "date", "year":
			if len(value) >= 4 {
				if y, err := strconv.Atoi(value[:4]); err == nil {
					info.Year = y
				}
			}
		}
	}

	return info, nil
}
