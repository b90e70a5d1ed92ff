package audio

import "fmt"

// SegmentExportError reports a failure writing one segment to disk. Files
// exported before the failing index remain on disk for the caller to clean.
type SegmentExportError struct {
	Index int
	Path  string
	Err   error
}

func (e *SegmentExportError) Error() string {
	return fmt.Sprintf("export segment %d to %s: %v", e.Index, e.Path, e.Err)
}
func (e *SegmentExportError) Unwrap() error { return e.Err }

// Segment is a bounded slice of a Buffer, materialized as its own PCM data so
// it can be exported independently of its parent.
type Segment struct {
	Index   int
	StartMs int64
	EndMs   int64
	buf     *Buffer
}

func (s *Segment) DurationMs() int64 { return s.EndMs - s.StartMs }

// Waveform returns the segment as mono float32 samples.
func (s *Segment) Waveform() []float32 { return s.buf.Waveform() }

// Export writes the segment to path as a WAV file. Ownership of the file
// passes to the caller immediately.
func (s *Segment) Export(path string) error {
	if err := s.buf.Export(path); err != nil {
		return &SegmentExportError{Index: s.Index, Path: path, Err: err}
	}
	return nil
}

// Split partitions b into non-overlapping windows of segmentLengthMs starting
// at offset zero. Segments are contiguous, ordered, and together cover the
// whole buffer; only the last one may be shorter. Empty audio yields no
// segments.
func Split(b *Buffer, segmentLengthMs int64) ([]*Segment, error) {
	if segmentLengthMs <= 0 {
		return nil, fmt.Errorf("segment length must be positive, got %dms", segmentLengthMs)
	}

	total := b.DurationMs()
	rate := int64(b.SampleRate())

	var segments []*Segment
	for start := int64(0); start < total; start += segmentLengthMs {
		end := start + segmentLengthMs
		if end > total {
			end = total
		}

		startFrame := int(start * rate / 1000)
		endFrame := int(end * rate / 1000)
		// The final window absorbs frames lost to millisecond truncation.
		if end >= total {
			endFrame = b.Frames()
		}

		segments = append(segments, &Segment{
			Index:   len(segments),
			StartMs: start,
			EndMs:   end,
			buf:     b.sliceFrames(startFrame, endFrame),
		})
	}
	return segments, nil
}
