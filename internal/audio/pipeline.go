package audio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultMaxSegmentSeconds bounds how much audio a single inference call sees.
const DefaultMaxSegmentSeconds = 30

// Pipeline normalizes an input file for inference: decode, resample to the
// target rate, split long audio into bounded segments, and materialize each
// piece as a temp WAV plus its waveform.
type Pipeline struct {
	Codec             Codec
	TargetSampleRate  int    // defaults to DefaultSampleRate
	MaxSegmentSeconds int    // defaults to DefaultMaxSegmentSeconds
	TempDir           string // defaults to os.TempDir()
}

func (p *Pipeline) SampleRate() int {
	if p.TargetSampleRate == 0 {
		return DefaultSampleRate
	}
	return p.TargetSampleRate
}

func (p *Pipeline) maxSegmentMs() int64 {
	if p.MaxSegmentSeconds == 0 {
		return DefaultMaxSegmentSeconds * 1000
	}
	return int64(p.MaxSegmentSeconds) * 1000
}

func (p *Pipeline) tempDir() string {
	if p.TempDir == "" {
		return os.TempDir()
	}
	return p.TempDir
}

// Preprocess prepares inputPath for inference and returns one waveform per
// segment together with the temp WAV backing it, both in segment order. Temp
// names carry a fresh UUID so concurrent invocations never collide. If any
// step fails after a temp file exists, every temp created by this invocation
// is removed before the error is returned; on success their release is the
// caller's job via Cleanup.
func (p *Pipeline) Preprocess(ctx context.Context, inputPath string) ([][]float32, []string, error) {
	buf, err := p.Codec.Decode(ctx, inputPath)
	if err != nil {
		return nil, nil, err
	}
	if err := p.Codec.Resample(ctx, buf, p.SampleRate()); err != nil {
		return nil, nil, err
	}

	id := uuid.NewString()
	var temps []string
	fail := func(err error) ([][]float32, []string, error) {
		Cleanup(temps)
		return nil, nil, err
	}

	if buf.DurationMs() <= p.maxSegmentMs() {
		path := filepath.Join(p.tempDir(), fmt.Sprintf("%s_processed.wav", id))
		// Track the path before exporting so a mid-write failure is still
		// covered by the cleanup below.
		temps = append(temps, path)
		if err := buf.Export(path); err != nil {
			return fail(err)
		}
	} else {
		segments, err := Split(buf, p.maxSegmentMs())
		if err != nil {
			return fail(err)
		}
		slog.Info("splitting long audio", "input", inputPath, "duration_ms", buf.DurationMs(), "segments", len(segments))
		for _, seg := range segments {
			path := filepath.Join(p.tempDir(), fmt.Sprintf("%s_segment_%02d.wav", id, seg.Index))
			temps = append(temps, path)
			if err := seg.Export(path); err != nil {
				return fail(err)
			}
		}
	}

	waves := make([][]float32, 0, len(temps))
	for _, path := range temps {
		w, err := p.LoadWaveform(ctx, path)
		if err != nil {
			return fail(err)
		}
		waves = append(waves, w)
	}
	return waves, temps, nil
}

// LoadWaveform reads path back as a mono float32 waveform at the target rate.
func (p *Pipeline) LoadWaveform(ctx context.Context, path string) ([]float32, error) {
	buf, err := p.Codec.Decode(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := p.Codec.Resample(ctx, buf, p.SampleRate()); err != nil {
		return nil, err
	}
	return buf.Waveform(), nil
}

// Cleanup removes every path that still exists. Missing paths are no-ops, so
// repeated calls on the same set are safe.
func Cleanup(paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to remove temp file", "path", path, "error", err)
		}
	}
}
