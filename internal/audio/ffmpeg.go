package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// runFFmpeg transcodes inputPath to a PCM WAV at outPath.
// A rate or channel count of zero preserves the source value.
func runFFmpeg(ctx context.Context, ffmpegPath, inputPath, outPath string, rate, channels int) error {
	args := []string{"-y", "-i", inputPath}
	if channels > 0 {
		args = append(args, "-ac", strconv.Itoa(channels))
	}
	if rate > 0 {
		args = append(args, "-ar", strconv.Itoa(rate))
	}
	args = append(args, "-f", "wav", outPath)

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, bytes.TrimSpace(out))
	}
	return nil
}
