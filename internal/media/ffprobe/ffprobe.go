package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"fadebatch/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "ffprobe", path, err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// AudioStream returns the first audio stream.
func (r Result) AudioStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			return stream, true
		}
	}
	return Stream{}, false
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, falling back to
// the first audio stream. It returns 0 when unavailable and NaN when the
// reported value cannot be parsed.
func (r Result) DurationSeconds() float64 {
	if strings.TrimSpace(r.Format.Duration) != "" {
		return parseFloat(r.Format.Duration)
	}
	if stream, ok := r.AudioStream(); ok {
		return parseFloat(stream.Duration)
	}
	return 0
}

// SampleRate returns the first audio stream's sample rate, or fallback when
// the file has no audio stream or reports none.
func (r Result) SampleRate(fallback int) int {
	stream, ok := r.AudioStream()
	if !ok {
		return fallback
	}
	rate := parseFloat(stream.SampleRate)
	if math.IsNaN(rate) || rate <= 0 {
		return fallback
	}
	return int(rate)
}

// LengthSamples converts the duration into samples at the file's rate.
func (r Result) LengthSamples(fallbackRate int) int64 {
	duration := r.DurationSeconds()
	if math.IsNaN(duration) || duration <= 0 {
		return 0
	}
	return int64(math.Round(duration * float64(r.SampleRate(fallbackRate))))
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
