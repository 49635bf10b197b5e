package processing

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
)

const waveformSampleRate = 8000

// WaveformSummary decodes an audio file to mono PCM through ffmpeg and
// reduces it to the given number of peak levels in [0, 1], suitable for
// rendering a small waveform preview.
func WaveformSummary(path string, buckets int) ([]float64, error) {
	if buckets <= 0 {
		return nil, fmt.Errorf("bucket count must be positive")
	}

	cmd := exec.Command("ffmpeg",
		"-i", path,
		"-ac", "1",
		"-ar", fmt.Sprint(waveformSampleRate),
		"-f", "s16le",
		"-v", "quiet",
		"-")
	raw, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %v", err)
	}

	sampleCount := len(raw) / 2
	if sampleCount == 0 {
		return make([]float64, buckets), nil
	}

	peaks := make([]float64, buckets)
	perBucket := sampleCount / buckets
	if perBucket == 0 {
		perBucket = 1
	}
	for i := 0; i < sampleCount; i++ {
		bucket := i / perBucket
		if bucket >= buckets {
			bucket = buckets - 1
		}
		sample := int16(binary.LittleEndian.Uint16(raw[i*2 : i*2+2]))
		level := math.Abs(float64(sample)) / math.MaxInt16
		if level > peaks[bucket] {
			peaks[bucket] = level
		}
	}
	return peaks, nil
}

// WaveformJSON renders a waveform summary as a JSON array for storage on
// the audio row.
func WaveformJSON(path string, buckets int) (json.RawMessage, error) {
	peaks, err := WaveformSummary(path, buckets)
	if err != nil {
		return nil, err
	}
	// Round to three decimals to keep stored summaries small.
	rounded := make([]float64, len(peaks))
	for i, p := range peaks {
		rounded[i] = math.Round(p*1000) / 1000
	}
	return json.Marshal(rounded)
}
