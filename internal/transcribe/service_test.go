package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/audiocorpus/speechapi/internal/audio"
	"github.com/audiocorpus/speechapi/internal/inference"
)

type fakeProvider struct {
	calls int
	err   error
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Transcribe(ctx context.Context, req inference.Request) (*inference.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.calls++
	return &inference.Result{Text: fmt.Sprintf("segment %d", p.calls)}, nil
}

// writeWAV generates a mono 16 kHz WAV of the given length.
func writeWAV(t *testing.T, dir string, seconds int) string {
	t.Helper()
	path := filepath.Join(dir, "input.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 16000, 16, 1, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: 16000},
		Data:           make([]int, 16000*seconds),
		SourceBitDepth: 16,
	}
	for i := range buf.Data {
		buf.Data[i] = int(int16(i%2000 - 1000))
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestService(t *testing.T, provider inference.Provider) (*Service, string) {
	t.Helper()
	tempDir := t.TempDir()
	pipeline := &audio.Pipeline{
		Codec:             audio.Codec{TempDir: tempDir},
		TargetSampleRate:  16000,
		MaxSegmentSeconds: 30,
		TempDir:           tempDir,
	}
	return NewService(pipeline, provider, nil, 0), tempDir
}

func assertEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected no leftover temp files, found %v", names)
	}
}

func TestTranscribeShortAudio(t *testing.T) {
	svc, tempDir := newTestService(t, &fakeProvider{})
	input := writeWAV(t, t.TempDir(), 10)

	result, err := svc.Transcribe(context.Background(), input, "meeting.wav")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if result.Transcription != "segment 1" {
		t.Errorf("expected %q, got %q", "segment 1", result.Transcription)
	}
	if result.Filename != "meeting.wav" {
		t.Errorf("expected filename meeting.wav, got %q", result.Filename)
	}
	assertEmpty(t, tempDir)
}

func TestTranscribeLongAudioJoinsSegments(t *testing.T) {
	provider := &fakeProvider{}
	svc, tempDir := newTestService(t, provider)
	input := writeWAV(t, t.TempDir(), 45)

	result, err := svc.Transcribe(context.Background(), input, "long.wav")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}

	if provider.calls != 2 {
		t.Errorf("expected 2 inference calls, got %d", provider.calls)
	}
	if result.Transcription != "segment 1 segment 2" {
		t.Errorf("expected segments joined in order, got %q", result.Transcription)
	}
	assertEmpty(t, tempDir)
}

func TestTranscribeInferenceFailureCleansTemps(t *testing.T) {
	wantErr := &inference.Error{Provider: "fake", Err: errors.New("model crashed")}
	svc, tempDir := newTestService(t, &fakeProvider{err: wantErr})
	input := writeWAV(t, t.TempDir(), 5)

	_, err := svc.Transcribe(context.Background(), input, "broken.wav")
	if err == nil {
		t.Fatal("expected inference failure to propagate")
	}
	var infErr *inference.Error
	if !errors.As(err, &infErr) {
		t.Fatalf("expected *inference.Error, got %T", err)
	}
	assertEmpty(t, tempDir)
}

func TestTranscribeDecodeFailure(t *testing.T) {
	svc, tempDir := newTestService(t, &fakeProvider{})
	input := filepath.Join(t.TempDir(), "corrupt.wav")
	if err := os.WriteFile(input, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Transcribe(context.Background(), input, "corrupt.wav")
	var decodeErr *audio.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *audio.DecodeError, got %v", err)
	}
	assertEmpty(t, tempDir)
}
