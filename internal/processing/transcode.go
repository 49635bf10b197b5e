package processing

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/xfrr/goffmpeg/transcoder"
)

// TranscodeVideo re-encodes a video to H.264/AAC MP4 at the given output
// path. Blocks until ffmpeg finishes; callers run it off the request path.
func TranscodeVideo(inputPath, outputPath string) error {
	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(inputPath, outputPath); err != nil {
		return fmt.Errorf("failed to initialize transcoder: %v", err)
	}

	trans.MediaFile().SetVideoCodec("libx264")
	trans.MediaFile().SetAudioCodec("aac")

	done := trans.Run(false)
	if err := <-done; err != nil {
		return fmt.Errorf("video transcode failed: %v", err)
	}
	return nil
}

// TranscodeAudio re-encodes an audio file to MP3.
func TranscodeAudio(inputPath, outputPath string) error {
	trans := new(transcoder.Transcoder)
	if err := trans.Initialize(inputPath, outputPath); err != nil {
		return fmt.Errorf("failed to initialize transcoder: %v", err)
	}

	trans.MediaFile().SetAudioCodec("libmp3lame")
	trans.MediaFile().SetSkipVideo(true)

	done := trans.Run(false)
	if err := <-done; err != nil {
		return fmt.Errorf("audio transcode failed: %v", err)
	}
	return nil
}

// VideoThumbnail grabs a single frame at the given offset (seconds) and
// writes it as a JPEG.
func VideoThumbnail(inputPath, outputPath string, atSeconds float64) error {
	cmd := exec.Command("ffmpeg",
		"-ss", strconv.FormatFloat(atSeconds, 'f', 2, 64),
		"-i", inputPath,
		"-vframes", "1",
		"-q:v", "2",
		"-y",
		outputPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to extract thumbnail: %v: %s", err, output)
	}
	return nil
}
