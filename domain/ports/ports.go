package ports

import (
	"context"
	"time"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	"github.com/Freedom18946/audio-analyzer/pkg/retry"
)

// AudioAnalyzer defines the main analysis interface
type AudioAnalyzer interface {
	// AnalyzeDirectory walks root, analyzes every supported file, and
	// returns the aggregated batch result
	AnalyzeDirectory(ctx context.Context, root string) (*model.BatchResult, error)

	// AnalyzeFiles analyzes an explicit file list
	AnalyzeFiles(ctx context.Context, paths []string) (*model.BatchResult, error)

	// AnalyzeFile analyzes a single file
	AnalyzeFile(ctx context.Context, path string) (*model.FileReport, error)
}

// Decoder is the abstraction for the external decoding tool. Implementations
// spawn at most one subprocess per Decode call and guarantee the process is
// gone when the call returns.
type Decoder interface {
	// Decode converts a file into interleaved float64 PCM at its native
	// sample rate
	Decode(ctx context.Context, path string) (*model.PCMBuffer, error)

	// Probe returns stream parameters without decoding the payload
	Probe(ctx context.Context, path string) (*model.StreamInfo, error)
}

// StorageProvider abstracts read-only filesystem access
type StorageProvider interface {
	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)

	// Size returns file size in bytes
	Size(ctx context.Context, path string) (int64, error)

	// Scan walks root recursively and returns the files whose extension is
	// in extensions (compared without dot, case-insensitive)
	Scan(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error)
}

// Option is the functional option type for per-call configuration
type Option func(*model.AnalyzerConfig)

// WithWorkers bounds the number of concurrently analyzed files
func WithWorkers(n int) Option {
	return func(c *model.AnalyzerConfig) {
		if n > 0 {
			c.Workers = n
		}
	}
}

// WithDecodeTimeout bounds each external decode invocation
func WithDecodeTimeout(d time.Duration) Option {
	return func(c *model.AnalyzerConfig) {
		if d > 0 {
			c.DecodeTimeout = d
		}
	}
}

// WithExtensions replaces the supported extension set
func WithExtensions(exts ...string) Option {
	return func(c *model.AnalyzerConfig) {
		if len(exts) > 0 {
			c.SupportedExtensions = exts
		}
	}
}

// WithThresholds replaces the quality threshold tables
func WithThresholds(t model.QualityThresholds) Option {
	return func(c *model.AnalyzerConfig) {
		c.Thresholds = t
	}
}

// WithBandCutoffs sets the three high-pass cutoffs for band-limited RMS
func WithBandCutoffs(low, mid, high int) Option {
	return func(c *model.AnalyzerConfig) {
		c.Cutoffs = model.BandCutoffs{Low: low, Mid: mid, High: high}
	}
}

// WithFFmpegPath overrides the ffmpeg binary location (looked up on PATH
// when empty)
func WithFFmpegPath(path string) Option {
	return func(c *model.AnalyzerConfig) {
		c.FFmpegPath = path
	}
}

// WithFFprobePath overrides the ffprobe binary location (looked up on PATH
// when empty)
func WithFFprobePath(path string) Option {
	return func(c *model.AnalyzerConfig) {
		c.FFprobePath = path
	}
}

// WithShowProgress toggles per-file progress reporting
func WithShowProgress(v bool) Option {
	return func(c *model.AnalyzerConfig) {
		c.ShowProgress = v
	}
}

// WithDecodeRetry retries transient decode failures
func WithDecodeRetry(cfg retry.Config) Option {
	return func(c *model.AnalyzerConfig) {
		c.DecodeRetry = &cfg
	}
}

// WithMinScore filters reports below the given composite score
func WithMinScore(score int) Option {
	return func(c *model.AnalyzerConfig) {
		c.Output.MinScore = &score
	}
}

// WithVerbose enables verbose batch logging
func WithVerbose(v bool) Option {
	return func(c *model.AnalyzerConfig) {
		c.Verbose = v
	}
}
