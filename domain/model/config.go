package model

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/Freedom18946/audio-analyzer/pkg/retry"
	"go.uber.org/multierr"
)

// DefaultSupportedExtensions lists the audio container/codec extensions the
// analyzer accepts by default
func DefaultSupportedExtensions() []string {
	return []string{"wav", "mp3", "m4a", "flac", "aac", "ogg", "opus", "wma", "aiff", "alac"}
}

// OutputOptions controls what the batch result carries for external
// serialization. Writing report files is the caller's concern.
type OutputOptions struct {
	// IncludeTiming keeps per-file processing durations in the result
	IncludeTiming bool

	// MinScore drops reports scoring below it from the ordered output.
	// Nil keeps everything.
	MinScore *int
}

// AnalyzerConfig holds everything a batch run needs. Validated once at
// construction and shared read-only across all workers.
type AnalyzerConfig struct {
	// SupportedExtensions filters discovered files (compared without dot,
	// case-insensitive)
	SupportedExtensions []string

	Thresholds QualityThresholds
	Cutoffs    BandCutoffs

	// Workers bounds the number of concurrently analyzed files. Zero means
	// one worker per logical CPU.
	Workers int

	// DecodeTimeout bounds each external decode invocation
	DecodeTimeout time.Duration

	// FFmpegPath and FFprobePath override binary lookup on PATH
	FFmpegPath  string
	FFprobePath string

	// DecodeRetry retries transient decode failures when set
	DecodeRetry *retry.Config

	Verbose      bool
	ShowProgress bool

	Output OutputOptions
}

// DefaultAnalyzerConfig returns a validated-by-construction default config
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SupportedExtensions: DefaultSupportedExtensions(),
		Thresholds:          DefaultQualityThresholds(),
		Cutoffs:             DefaultBandCutoffs(),
		Workers:             0,
		DecodeTimeout:       5 * time.Minute,
		ShowProgress:        true,
		Output:              OutputOptions{IncludeTiming: true},
	}
}

// EffectiveWorkers resolves the configured worker count
func (c *AnalyzerConfig) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// IsSupportedExtension reports whether ext (without dot) is accepted
func (c *AnalyzerConfig) IsSupportedExtension(ext string) bool {
	for _, e := range c.SupportedExtensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Validate checks the whole configuration eagerly and returns every
// violation it finds, each as a ConfigError.
func (c *AnalyzerConfig) Validate() error {
	var errs error

	if len(c.SupportedExtensions) == 0 {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"supportedExtensions", "extension list must not be empty"))
	}
	if c.Workers < 0 {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"workers", fmt.Sprintf("worker count must not be negative, got %d", c.Workers)))
	}
	if c.DecodeTimeout <= 0 {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"decodeTimeout", "decode timeout must be positive"))
	}
	if c.DecodeRetry != nil && c.DecodeRetry.MaxAttempts <= 0 {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"decodeRetry.maxAttempts", "retry attempts must be positive"))
	}

	if c.Cutoffs.Low <= 0 || c.Cutoffs.Mid <= 0 || c.Cutoffs.High <= 0 {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"cutoffs", "band cutoff frequencies must be positive"))
	} else if !(c.Cutoffs.Low < c.Cutoffs.Mid && c.Cutoffs.Mid < c.Cutoffs.High) {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"cutoffs", fmt.Sprintf("band cutoffs must be strictly ascending, got %d/%d/%d",
				c.Cutoffs.Low, c.Cutoffs.Mid, c.Cutoffs.High)))
	}

	t := &c.Thresholds
	if t.LRAPoorMax >= t.LRALowMax {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"thresholds.lra", "lraPoorMax must be below lraLowMax"))
	}
	if t.LRAExcellentMin >= t.LRAExcellentMax || t.LRAExcellentMax > t.LRAAcceptableMax {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"thresholds.lra", "excellent range must be ordered and within the acceptable maximum"))
	}
	if t.SpectrumFakeDB >= t.SpectrumProcessedDB || t.SpectrumProcessedDB >= t.SpectrumGoodDB {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"thresholds.spectrum", "spectrum thresholds must be ordered fake < processed < good"))
	}
	if t.PeakGoodDB >= t.PeakMediumDB || t.PeakMediumDB >= t.PeakClippingDB {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"thresholds.peak", "peak thresholds must be ordered good < medium < clipping"))
	}
	if t.Weights.Integrity < 0 || t.Weights.Dynamics < 0 || t.Weights.Spectrum < 0 {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"thresholds.weights", "score weights must not be negative"))
	}

	if c.Output.MinScore != nil && (*c.Output.MinScore < 0 || *c.Output.MinScore > 100) {
		errs = multierr.Append(errs, pkgerrors.NewConfigError(
			"output.minScore", "minimum score must be within [0,100]"))
	}

	return errs
}
