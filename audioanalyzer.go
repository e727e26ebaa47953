// Package audioanalyzer flags quality defects in audio collections:
// over-compression, spectral tampering (fake or upsampled lossless), and
// clipping. Decoding is delegated to an external ffmpeg binary; metrics,
// classification, and batch scheduling happen here.
package audioanalyzer

import (
	"context"

	"github.com/Freedom18946/audio-analyzer/application/usecase"
	"github.com/Freedom18946/audio-analyzer/domain/model"
	"github.com/Freedom18946/audio-analyzer/domain/ports"
	"github.com/Freedom18946/audio-analyzer/infrastructure/ffmpeg"
	"github.com/Freedom18946/audio-analyzer/infrastructure/storage"
	"github.com/Freedom18946/audio-analyzer/pkg/logger"
	"github.com/Freedom18946/audio-analyzer/pkg/progress"
	"go.uber.org/zap"
)

// Re-export types for convenient use by callers
type (
	AudioMetrics      = model.AudioMetrics
	QualityThresholds = model.QualityThresholds
	ScoreWeights      = model.ScoreWeights
	AnalyzerConfig    = model.AnalyzerConfig
	BandCutoffs       = model.BandCutoffs
	BatchResult       = model.BatchResult
	FileReport        = model.FileReport
	Assessment        = model.Assessment
	Failure           = model.Failure
	FailureKind       = model.FailureKind
	Status            = model.Status
	Category          = model.Category
	ProgressUpdate    = progress.Update
	ProgressStage     = progress.Stage
)

// Re-export status and stage constants
const (
	StatusGood                = model.StatusGood
	StatusIncompleteData      = model.StatusIncompleteData
	StatusSuspectedFake       = model.StatusSuspectedFake
	StatusSuspectProcessing   = model.StatusSuspectProcessing
	StatusClipped             = model.StatusClipped
	StatusCriticalCompression = model.StatusCriticalCompression
	StatusLowDynamics         = model.StatusLowDynamics

	StageScan     = progress.StageScan
	StageDecode   = progress.StageDecode
	StageMeasure  = progress.StageMeasure
	StageClassify = progress.StageClassify
	StageDone     = progress.StageDone
)

// Re-export option functions
var (
	WithWorkers       = ports.WithWorkers
	WithDecodeTimeout = ports.WithDecodeTimeout
	WithExtensions    = ports.WithExtensions
	WithThresholds    = ports.WithThresholds
	WithBandCutoffs   = ports.WithBandCutoffs
	WithFFmpegPath    = ports.WithFFmpegPath
	WithFFprobePath   = ports.WithFFprobePath
	WithShowProgress  = ports.WithShowProgress
	WithDecodeRetry   = ports.WithDecodeRetry
	WithMinScore      = ports.WithMinScore
	WithVerbose       = ports.WithVerbose
)

// Config holds top-level configuration for the analyzer
type Config struct {
	// FFmpegPath is the path to the ffmpeg binary (looked up on PATH if empty)
	FFmpegPath string

	// FFprobePath is the path to the ffprobe binary (looked up on PATH if empty)
	FFprobePath string

	// Logger is an optional custom logger. Uses production zap if nil.
	Logger *logger.Logger

	// ZapLogger allows passing a *zap.Logger directly
	ZapLogger *zap.Logger

	// ProgressCh is an optional channel for receiving progress updates
	ProgressCh chan<- ProgressUpdate
}

// Analyzer is the main entry point
type Analyzer struct {
	service *usecase.AnalyzerService
	log     *logger.Logger
}

// New creates an Analyzer. The analyzer configuration starts from defaults
// and is adjusted by the options; it is validated here, and an invalid
// configuration or a missing decoder binary fails before any analysis can
// start.
func New(cfg Config, opts ...ports.Option) (*Analyzer, error) {
	log := cfg.Logger
	if log == nil && cfg.ZapLogger != nil {
		log = logger.FromZap(cfg.ZapLogger)
	}
	if log == nil {
		var err error
		log, err = logger.New(false)
		if err != nil {
			return nil, err
		}
	}

	analyzerCfg := model.DefaultAnalyzerConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&analyzerCfg)
		}
	}
	ffmpegPath, ffprobePath := binaryPaths(cfg, &analyzerCfg)

	decoder, err := ffmpeg.NewDecoder(ffmpeg.DecoderConfig{
		FFmpegPath:  ffmpegPath,
		FFprobePath: ffprobePath,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	var reporter progress.Reporter = progress.NoopReporter{}
	if cfg.ProgressCh != nil {
		reporter = progress.NewChannelReporter(cfg.ProgressCh)
	}

	svc, err := usecase.NewAnalyzerService(usecase.Config{
		Decoder:  decoder,
		Storage:  storage.NewLocalStorage(),
		Reporter: reporter,
		Logger:   log,
		Analyzer: analyzerCfg,
	})
	if err != nil {
		return nil, err
	}

	return &Analyzer{service: svc, log: log}, nil
}

// binaryPaths resolves the decoder binaries: explicit facade fields win over
// the analyzer configuration, and an empty result falls back to PATH lookup
// inside the decoder. The winning paths are written back so the running
// configuration reflects what is actually invoked.
func binaryPaths(cfg Config, analyzerCfg *model.AnalyzerConfig) (ffmpegPath, ffprobePath string) {
	if cfg.FFmpegPath != "" {
		analyzerCfg.FFmpegPath = cfg.FFmpegPath
	}
	if cfg.FFprobePath != "" {
		analyzerCfg.FFprobePath = cfg.FFprobePath
	}
	return analyzerCfg.FFmpegPath, analyzerCfg.FFprobePath
}

// AnalyzeDirectory walks root recursively and analyzes every supported file
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, root string) (*BatchResult, error) {
	return a.service.AnalyzeDirectory(ctx, root)
}

// AnalyzeFiles analyzes an explicit list of files
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string) (*BatchResult, error) {
	return a.service.AnalyzeFiles(ctx, paths)
}

// AnalyzeFile analyzes a single file
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileReport, error) {
	return a.service.AnalyzeFile(ctx, path)
}

// Close flushes the logger and releases resources
func (a *Analyzer) Close() {
	_ = a.log.Sync()
}
