package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/audiocorpus/speechapi/internal/audio"
)

func main() {
	var (
		in         = flag.String("in", "", "audio file or directory to convert (required)")
		out        = flag.String("out", "", "output path base or directory (default: next to input)")
		rate       = flag.Int("rate", audio.DefaultSampleRate, "target sample rate in Hz")
		maxSeconds = flag.Int("max-seconds", audio.DefaultMaxSegmentSeconds, "split audio longer than this into parts")
		ffmpegPath = flag.String("ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	pipeline := &audio.Pipeline{
		Codec:             audio.Codec{FFmpegPath: *ffmpegPath},
		TargetSampleRate:  *rate,
		MaxSegmentSeconds: *maxSeconds,
	}

	ctx := context.Background()

	info, err := os.Stat(*in)
	if err != nil {
		slog.Error("cannot read input", "path", *in, "error", err)
		os.Exit(1)
	}

	if info.IsDir() {
		converted, err := pipeline.ConvertDir(ctx, *in, *out)
		if err != nil {
			slog.Error("batch conversion failed", "dir", *in, "error", err)
			os.Exit(1)
		}
		slog.Info("batch conversion done", "dir", *in, "converted", converted)
		return
	}

	outputs, err := pipeline.ConvertFile(ctx, *in, *out)
	if err != nil {
		slog.Error("conversion failed", "input", *in, "error", err)
		os.Exit(1)
	}
	for _, path := range outputs {
		slog.Info("wrote", "path", path)
	}
}
