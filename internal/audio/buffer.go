package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const (
	// DefaultSampleRate is the rate the inference model expects.
	DefaultSampleRate = 16000

	defaultBitDepth = 16
)

// DecodeError reports an unreadable, corrupt, or unsupported input file.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode %s: %v", e.Path, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Buffer is a decoded audio stream held in memory as interleaved PCM.
type Buffer struct {
	pcm      *gaudio.IntBuffer
	bitDepth int
}

func (b *Buffer) SampleRate() int { return b.pcm.Format.SampleRate }
func (b *Buffer) Channels() int   { return b.pcm.Format.NumChannels }

// Frames returns the number of sample frames (one frame spans all channels).
func (b *Buffer) Frames() int {
	if b.Channels() == 0 {
		return 0
	}
	return len(b.pcm.Data) / b.Channels()
}

// DurationMs returns the buffer length in milliseconds.
func (b *Buffer) DurationMs() int64 {
	if b.SampleRate() == 0 {
		return 0
	}
	return int64(b.Frames()) * 1000 / int64(b.SampleRate())
}

func (b *Buffer) depth() int {
	if b.bitDepth == 0 {
		return defaultBitDepth
	}
	return b.bitDepth
}

// Export writes the buffer to path as a PCM WAV file. A failed write never
// leaves a partial file behind.
func (b *Buffer) Export(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, b.SampleRate(), b.depth(), b.Channels(), 1)
	err = enc.Write(b.pcm)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// The file was created by us, so it is safe to drop the partial write.
		_ = os.Remove(path)
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// Waveform converts the buffer to mono float32 samples scaled to [-1, 1],
// averaging across channels.
func (b *Buffer) Waveform() []float32 {
	ch := b.Channels()
	frames := b.Frames()
	scale := float32(int(1) << (b.depth() - 1))
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < ch; c++ {
			sum += float32(b.pcm.Data[i*ch+c])
		}
		out[i] = sum / float32(ch) / scale
	}
	return out
}

// sliceFrames materializes [start, end) frames as an independent buffer.
func (b *Buffer) sliceFrames(start, end int) *Buffer {
	ch := b.Channels()
	data := make([]int, (end-start)*ch)
	copy(data, b.pcm.Data[start*ch:end*ch])
	return &Buffer{
		pcm: &gaudio.IntBuffer{
			Format:         &gaudio.Format{NumChannels: ch, SampleRate: b.SampleRate()},
			Data:           data,
			SourceBitDepth: b.depth(),
		},
		bitDepth: b.depth(),
	}
}

// Codec loads audio files into Buffers. WAV input is parsed in process;
// every other format is transcoded through ffmpeg first.
type Codec struct {
	FFmpegPath string // defaults to "ffmpeg" on PATH
	TempDir    string // defaults to os.TempDir()
}

func (c Codec) ffmpeg() string {
	if c.FFmpegPath == "" {
		return "ffmpeg"
	}
	return c.FFmpegPath
}

func (c Codec) tempDir() string {
	if c.TempDir == "" {
		return os.TempDir()
	}
	return c.TempDir
}

// Decode loads path into a Buffer at its native sample rate and channel count.
func (c Codec) Decode(ctx context.Context, path string) (*Buffer, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		b, err := decodeWAV(path)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		return b, nil
	}

	tmp := filepath.Join(c.tempDir(), uuid.NewString()+"_decoded.wav")
	if err := runFFmpeg(ctx, c.ffmpeg(), path, tmp, 0, 0); err != nil {
		_ = os.Remove(tmp)
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer os.Remove(tmp)

	b, err := decodeWAV(tmp)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return b, nil
}

// Resample converts b to the given sample rate in place. Matching rates are a
// no-op; otherwise the conversion is delegated to ffmpeg.
func (c Codec) Resample(ctx context.Context, b *Buffer, rate int) error {
	if b.SampleRate() == rate {
		return nil
	}

	id := uuid.NewString()
	in := filepath.Join(c.tempDir(), id+"_resample_in.wav")
	out := filepath.Join(c.tempDir(), id+"_resample_out.wav")

	if err := b.Export(in); err != nil {
		return fmt.Errorf("resample to %d Hz: %w", rate, err)
	}
	defer os.Remove(in)

	if err := runFFmpeg(ctx, c.ffmpeg(), in, out, rate, 0); err != nil {
		_ = os.Remove(out)
		return fmt.Errorf("resample to %d Hz: %w", rate, err)
	}
	defer os.Remove(out)

	nb, err := decodeWAV(out)
	if err != nil {
		return fmt.Errorf("resample to %d Hz: %w", rate, err)
	}
	*b = *nb
	return nil
}

func decodeWAV(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}
	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	depth := int(dec.BitDepth)
	if depth == 0 {
		depth = pcm.SourceBitDepth
	}
	return &Buffer{pcm: pcm, bitDepth: depth}, nil
}
