package transcribe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/audiocorpus/speechapi/internal/audio"
	"github.com/audiocorpus/speechapi/internal/cache"
	"github.com/audiocorpus/speechapi/internal/inference"
)

// Result is the response payload for one transcription request.
type Result struct {
	Transcription string `json:"transcription"`
	Filename      string `json:"filename"`
}

// Service runs the preprocess-then-infer flow for a single uploaded file.
// The inference provider is constructed once at startup and shared across
// requests; per-request state lives only in temp files.
type Service struct {
	pipeline *audio.Pipeline
	provider inference.Provider
	cache    *cache.Cache // nil disables caching
	cacheTTL time.Duration
}

func NewService(pipeline *audio.Pipeline, provider inference.Provider, c *cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		pipeline: pipeline,
		provider: provider,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

// Transcribe preprocesses the audio at audioPath, runs each segment through
// the inference provider in order, and joins the decoded texts. Temp files
// created by preprocessing are released on every exit path.
func (s *Service) Transcribe(ctx context.Context, audioPath, filename string) (*Result, error) {
	var key string
	if s.cache != nil {
		if sum, err := fileSHA256(audioPath); err == nil {
			key = cache.TranscriptKey(sum)
			var cached Result
			if err := s.cache.Get(ctx, key, &cached); err == nil {
				slog.Info("transcript served from cache", "filename", filename)
				return &cached, nil
			}
		}
	}

	waves, temps, err := s.pipeline.Preprocess(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer audio.Cleanup(temps)

	texts := make([]string, 0, len(temps))
	for i, path := range temps {
		res, err := s.provider.Transcribe(ctx, inference.Request{
			FilePath:   path,
			Waveform:   waves[i],
			SampleRate: s.pipeline.SampleRate(),
		})
		if err != nil {
			slog.Error("inference failed", "filename", filename, "segment", i, "error", err)
			return nil, err
		}
		if text := strings.TrimSpace(res.Text); text != "" {
			texts = append(texts, text)
		}
	}

	result := &Result{
		Transcription: strings.Join(texts, " "),
		Filename:      filename,
	}
	if s.cache != nil && key != "" {
		if err := s.cache.Set(ctx, key, result, s.cacheTTL); err != nil {
			slog.Warn("transcript cache write failed", "error", err)
		}
	}
	return result, nil
}

func fileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
