package inference

import (
	"context"
	"fmt"
)

// Request carries one preprocessed audio segment ready for transcription.
type Request struct {
	// FilePath points at the segment's WAV file on disk. It is the contract
	// for HTTP backends, which upload the file as-is.
	FilePath string
	// Waveform is the same audio as mono samples scaled to [-1, 1]. Optional
	// for providers: in-process backends consume it directly, HTTP backends
	// may ignore it.
	Waveform []float32
	// SampleRate is the waveform's rate in Hz.
	SampleRate int
}

// Result holds the decoded text for one segment.
type Result struct {
	Text string `json:"text"`
}

// Provider is the interface for speech-to-text inference backends.
type Provider interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// Error wraps a failure reported by an inference backend.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string { return fmt.Sprintf("%s inference: %v", e.Provider, e.Err) }
func (e *Error) Unwrap() error { return e.Err }
