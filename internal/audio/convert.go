package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions are the input formats ffmpeg is expected to handle.
var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".ogg":  true,
	".flac": true,
	".m4a":  true,
	".wma":  true,
	".aac":  true,
}

// ConvertFile normalizes inputPath to a WAV at the pipeline's target rate.
// Inputs longer than the segment bound are written as numbered part files
// (<base>_part01.wav, ...); shorter inputs become a single <base>_16khz.wav.
// Returns the written paths in order.
func (p *Pipeline) ConvertFile(ctx context.Context, inputPath, outputBase string) ([]string, error) {
	buf, err := p.Codec.Decode(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	if err := p.Codec.Resample(ctx, buf, p.SampleRate()); err != nil {
		return nil, err
	}

	if outputBase == "" {
		outputBase = strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	}

	if buf.DurationMs() <= p.maxSegmentMs() {
		out := fmt.Sprintf("%s_%dkhz.wav", outputBase, p.SampleRate()/1000)
		if err := buf.Export(out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	}

	segments, err := Split(buf, p.maxSegmentMs())
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(segments))
	for _, seg := range segments {
		out := fmt.Sprintf("%s_part%02d.wav", outputBase, seg.Index+1)
		paths = append(paths, out)
		if err := seg.Export(out); err != nil {
			Cleanup(paths)
			return nil, err
		}
	}
	return paths, nil
}

// ConvertDir converts every supported audio file directly under inputDir,
// writing results to outputDir (default: inputDir/converted). Per-file
// failures are logged and skipped; the count of converted files is returned.
func (p *Pipeline) ConvertDir(ctx context.Context, inputDir, outputDir string) (int, error) {
	if outputDir == "" {
		outputDir = filepath.Join(inputDir, "converted")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return 0, fmt.Errorf("read input dir: %w", err)
	}

	converted := 0
	for _, entry := range entries {
		if entry.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		inputPath := filepath.Join(inputDir, entry.Name())
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		outputs, err := p.ConvertFile(ctx, inputPath, filepath.Join(outputDir, stem))
		if err != nil {
			slog.Error("conversion failed", "input", inputPath, "error", err)
			continue
		}
		slog.Info("converted", "input", inputPath, "outputs", len(outputs))
		converted++
	}
	return converted, nil
}
