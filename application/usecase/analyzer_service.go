package usecase

import (
	"context"
	"time"

	"github.com/Freedom18946/audio-analyzer/application/pipeline"
	"github.com/Freedom18946/audio-analyzer/domain/model"
	"github.com/Freedom18946/audio-analyzer/domain/ports"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/Freedom18946/audio-analyzer/pkg/logger"
	"github.com/Freedom18946/audio-analyzer/pkg/progress"
	"go.uber.org/zap"
)

// AnalyzerService orchestrates discovery, scheduling, and aggregation for
// batch quality analysis
type AnalyzerService struct {
	decoder  ports.Decoder
	storage  ports.StorageProvider
	reporter progress.Reporter
	cfg      model.AnalyzerConfig
	log      *logger.Logger

	pool       *pipeline.WorkerPool
	aggregator *pipeline.Aggregator
}

// Config wires the service's collaborators
type Config struct {
	Decoder  ports.Decoder
	Storage  ports.StorageProvider
	Reporter progress.Reporter
	Logger   *logger.Logger
	Analyzer model.AnalyzerConfig
}

// NewAnalyzerService validates the analyzer configuration and builds the
// scheduling machinery. A validation failure here is fatal: no task is ever
// dispatched on an invalid configuration.
func NewAnalyzerService(cfg Config) (*AnalyzerService, error) {
	if cfg.Decoder == nil {
		return nil, pkgerrors.NewConfigError("decoder", "decoder must not be nil")
	}
	if cfg.Storage == nil {
		return nil, pkgerrors.NewConfigError("storage", "storage provider must not be nil")
	}
	if err := cfg.Analyzer.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		var err error
		log, err = logger.New(false)
		if err != nil {
			return nil, err
		}
	}

	reporter := cfg.Reporter
	if reporter == nil || !cfg.Analyzer.ShowProgress {
		reporter = progress.NoopReporter{}
	}

	p := pipeline.NewPipeline(cfg.Decoder, &cfg.Analyzer, log)

	return &AnalyzerService{
		decoder:    cfg.Decoder,
		storage:    cfg.Storage,
		reporter:   reporter,
		cfg:        cfg.Analyzer,
		log:        log,
		pool:       pipeline.NewWorkerPool(p, cfg.Analyzer.EffectiveWorkers(), log),
		aggregator: pipeline.NewAggregator(cfg.Analyzer.Output),
	}, nil
}

// AnalyzeDirectory walks root and analyzes every supported file found
func (s *AnalyzerService) AnalyzeDirectory(ctx context.Context, root string) (*model.BatchResult, error) {
	s.reporter.Report(progress.Update{
		Path:      root,
		Stage:     progress.StageScan,
		Message:   "scanning directory",
		Timestamp: time.Now(),
	})

	files, err := s.storage.Scan(ctx, root, s.cfg.SupportedExtensions)
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		s.log.Warn("no supported audio files found", zap.String("root", root))
		return &model.BatchResult{FailureCounts: map[model.FailureKind]int{}}, nil
	}

	s.log.Info("scan complete",
		zap.String("root", root),
		zap.Int("files", len(files)),
	)

	return s.run(ctx, files), nil
}

// AnalyzeFiles analyzes an explicit file list. Files that cannot be stated
// are still dispatched; the decoder reports the precise I/O failure.
func (s *AnalyzerService) AnalyzeFiles(ctx context.Context, paths []string) (*model.BatchResult, error) {
	if len(paths) == 0 {
		return &model.BatchResult{FailureCounts: map[model.FailureKind]int{}}, nil
	}

	files := make([]model.FileInfo, 0, len(paths))
	for _, p := range paths {
		size, err := s.storage.Size(ctx, p)
		if err != nil {
			// Size unknown; negative keeps the zero-byte fast path from firing
			size = -1
		}
		files = append(files, model.FileInfo{Path: p, SizeBytes: size})
	}

	return s.run(ctx, files), nil
}

// AnalyzeFile analyzes a single file and returns its report. Per-file
// failures are returned as the error alongside whatever partial report was
// produced.
func (s *AnalyzerService) AnalyzeFile(ctx context.Context, path string) (*model.FileReport, error) {
	result, err := s.AnalyzeFiles(ctx, []string{path})
	if err != nil {
		return nil, err
	}

	var report *model.FileReport
	if len(result.Reports) > 0 {
		report = &result.Reports[0]
	}
	if len(result.Failures) > 0 {
		return report, result.Failures[0].Err
	}
	return report, nil
}

func (s *AnalyzerService) run(ctx context.Context, files []model.FileInfo) *model.BatchResult {
	start := time.Now()

	s.log.Info("batch started",
		zap.Int("files", len(files)),
		zap.Int("workers", s.cfg.EffectiveWorkers()),
	)

	outcomes := s.pool.Run(ctx, files, s.reporter)
	result := s.aggregator.Collect(outcomes)
	result.Elapsed = time.Since(start)

	fields := []zap.Field{
		zap.Int("attempted", result.Attempted),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("elapsed", result.Elapsed),
	}
	if s.cfg.Verbose {
		for kind, count := range result.FailureCounts {
			fields = append(fields, zap.Int("failures."+string(kind), count))
		}
	}
	s.log.Info("batch finished", fields...)

	return result
}
