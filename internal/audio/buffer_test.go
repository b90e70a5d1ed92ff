package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
)

func TestExportDecodeRoundTrip(t *testing.T) {
	buf := makeBuffer(2000, 16000, 1)
	path := filepath.Join(t.TempDir(), "roundtrip.wav")

	if err := buf.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	reloaded, err := decodeWAV(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if reloaded.Frames() != buf.Frames() {
		t.Errorf("expected %d frames, got %d", buf.Frames(), reloaded.Frames())
	}
	if reloaded.SampleRate() != buf.SampleRate() {
		t.Errorf("expected %d Hz, got %d", buf.SampleRate(), reloaded.SampleRate())
	}
	for i, v := range buf.pcm.Data {
		if reloaded.pcm.Data[i] != v {
			t.Fatalf("sample %d changed: %d != %d", i, reloaded.pcm.Data[i], v)
		}
	}
}

func TestWaveformScaling(t *testing.T) {
	buf := &Buffer{
		pcm: &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: 1, SampleRate: 16000},
			Data:           []int{16384, -16384, 0, 32767},
			SourceBitDepth: 16,
		},
		bitDepth: 16,
	}

	wave := buf.Waveform()
	want := []float32{0.5, -0.5, 0, 32767.0 / 32768.0}
	for i, w := range want {
		if wave[i] != w {
			t.Errorf("sample %d: expected %f, got %f", i, w, wave[i])
		}
	}
}

func TestWaveformAveragesChannels(t *testing.T) {
	buf := &Buffer{
		pcm: &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: 2, SampleRate: 16000},
			Data:           []int{16384, 0, -16384, -16384},
			SourceBitDepth: 16,
		},
		bitDepth: 16,
	}

	wave := buf.Waveform()
	if len(wave) != 2 {
		t.Fatalf("expected 2 mono samples, got %d", len(wave))
	}
	if wave[0] != 0.25 {
		t.Errorf("expected first sample 0.25, got %f", wave[0])
	}
	if wave[1] != -0.5 {
		t.Errorf("expected second sample -0.5, got %f", wave[1])
	}
}

func TestExportFailureLeavesNoPartialFile(t *testing.T) {
	buf := makeBuffer(1000, 16000, 1)
	buf.bitDepth = 12 // the WAV encoder rejects this depth after the header is out
	path := filepath.Join(t.TempDir(), "partial.wav")

	if err := buf.Export(path); err == nil {
		t.Fatal("expected export to fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed export left a partial file behind")
	}
}

func TestResampleChangesRate(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not on PATH")
	}
	tempDir := t.TempDir()
	buf := makeBuffer(2000, 44100, 1)

	codec := Codec{TempDir: tempDir}
	if err := codec.Resample(context.Background(), buf, 16000); err != nil {
		t.Fatalf("Resample failed: %v", err)
	}

	if buf.SampleRate() != 16000 {
		t.Errorf("expected 16000 Hz, got %d", buf.SampleRate())
	}
	// 2 s of audio should still be 2 s at the new rate, give or take a
	// resampler window.
	want := 2 * 16000
	if got := buf.Frames(); got < want-160 || got > want+160 {
		t.Errorf("expected about %d frames after resampling, got %d", want, got)
	}
	if files := listFiles(t, tempDir); len(files) != 0 {
		t.Errorf("resample left temp files behind: %v", files)
	}
}

func TestResampleNoopWhenRateMatches(t *testing.T) {
	buf := makeBuffer(1000, 16000, 1)
	before := buf.Frames()

	// No ffmpeg available in this test; matching rates must short-circuit.
	codec := Codec{FFmpegPath: "/nonexistent/ffmpeg"}
	if err := codec.Resample(context.Background(), buf, 16000); err != nil {
		t.Fatalf("Resample should be a no-op for matching rates: %v", err)
	}
	if buf.Frames() != before {
		t.Errorf("no-op resample changed frame count: %d != %d", buf.Frames(), before)
	}
}

func TestDecodeInvalidWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	codec := Codec{}
	_, err := codec.Decode(context.Background(), path)
	if err == nil {
		t.Fatal("expected decode of garbage to fail")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if decodeErr.Path != path {
		t.Errorf("error should carry the input path, got %q", decodeErr.Path)
	}
}
