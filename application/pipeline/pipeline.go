package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/Freedom18946/audio-analyzer/application/classify"
	"github.com/Freedom18946/audio-analyzer/application/metrics"
	"github.com/Freedom18946/audio-analyzer/domain/model"
	"github.com/Freedom18946/audio-analyzer/domain/ports"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/Freedom18946/audio-analyzer/pkg/logger"
	"github.com/Freedom18946/audio-analyzer/pkg/progress"
	"github.com/Freedom18946/audio-analyzer/pkg/retry"
	"go.uber.org/zap"
)

// Pipeline runs one file end-to-end: decode, measure, classify. Failures
// are recovered into the task outcome; Run never aborts the batch.
type Pipeline struct {
	decoder    ports.Decoder
	engine     *metrics.Engine
	classifier *classify.Classifier
	cfg        *model.AnalyzerConfig
	log        *logger.Logger
}

// Task binds one discovered file to one execution. Owned exclusively by the
// scheduler; discarded after its outcome is recorded.
type Task struct {
	File     model.FileInfo
	Index    int // 1-based position in the batch
	Total    int
	Reporter progress.Reporter
}

// NewPipeline creates an analysis pipeline over a validated configuration
func NewPipeline(decoder ports.Decoder, cfg *model.AnalyzerConfig, log *logger.Logger) *Pipeline {
	return &Pipeline{
		decoder:    decoder,
		engine:     metrics.NewEngine(cfg.Cutoffs),
		classifier: classify.NewClassifier(cfg.Thresholds),
		cfg:        cfg,
		log:        log,
	}
}

// Run executes the full pipeline for one task. The outcome always carries a
// metrics record for the file; the assessment is present only when the file
// decoded, and every recoverable failure lands in the outcome's failure list.
func (p *Pipeline) Run(ctx context.Context, task *Task) model.TaskOutcome {
	start := time.Now()
	file := task.File

	m := model.NewAudioMetrics(file.Path, file.SizeBytes)
	outcome := model.TaskOutcome{
		Path:   file.Path,
		Report: &model.FileReport{Metrics: m},
	}

	fail := func(err error) model.TaskOutcome {
		m.ProcessingTime = time.Since(start)
		outcome.Failures = append(outcome.Failures, model.Failure{
			Path:   file.Path,
			Kind:   model.FailureKindOf(err),
			Err:    err,
			Reason: err.Error(),
		})
		return outcome
	}

	ext := strings.TrimPrefix(filepath.Ext(file.Path), ".")
	if !p.cfg.IsSupportedExtension(ext) {
		return fail(pkgerrors.NewUnsupportedFormatError(file.Path, ext))
	}
	if file.SizeBytes == 0 {
		// Fail fast: never spawn a decoder for an empty file
		return fail(pkgerrors.NewIOError(file.Path, "zero-byte input file", nil))
	}

	task.report(progress.StageDecode, "decoding")

	buf, err := p.decode(ctx, file.Path)
	if err != nil {
		p.log.Error("decode failed",
			zap.String("path", file.Path),
			zap.Error(err),
		)
		return fail(err)
	}

	task.report(progress.StageMeasure, "computing metrics")

	for _, cerr := range p.engine.Measure(m, buf) {
		p.log.Warn("metric computation failed",
			zap.String("path", file.Path),
			zap.Error(cerr),
		)
		outcome.Failures = append(outcome.Failures, model.Failure{
			Path:   file.Path,
			Kind:   model.FailureKindOf(cerr),
			Err:    cerr,
			Reason: cerr.Error(),
		})
	}

	task.report(progress.StageClassify, "classifying")

	assessment := p.classifier.Classify(m)
	outcome.Report.Assessment = &assessment

	m.ProcessingTime = time.Since(start)
	task.report(progress.StageDone, "done")

	p.log.Debug("file analyzed",
		zap.String("path", file.Path),
		zap.Bool("complete", m.IsComplete()),
		zap.Int("score", assessment.Score),
		zap.Duration("took", m.ProcessingTime),
	)

	return outcome
}

// decode invokes the external decoder under the configured timeout,
// retrying transient decode failures when retry is enabled.
func (p *Pipeline) decode(ctx context.Context, path string) (*model.PCMBuffer, error) {
	doDecode := func() (*model.PCMBuffer, error) {
		decodeCtx, cancel := context.WithTimeout(ctx, p.cfg.DecodeTimeout)
		defer cancel()
		return p.decoder.Decode(decodeCtx, path)
	}

	if p.cfg.DecodeRetry == nil {
		return doDecode()
	}

	retryCfg := *p.cfg.DecodeRetry
	if retryCfg.Retryable == nil {
		// Timeouts and unsupported formats will not improve on retry
		retryCfg.Retryable = func(err error) bool {
			return pkgerrors.CodeOf(err) == pkgerrors.ErrCodeDecode
		}
	}

	var buf *model.PCMBuffer
	err := retry.Do(ctx, retryCfg, func() error {
		var derr error
		buf, derr = doDecode()
		return derr
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

func (t *Task) report(stage progress.Stage, msg string) {
	if t.Reporter == nil {
		return
	}
	t.Reporter.Report(progress.Update{
		Path:      t.File.Path,
		Stage:     stage,
		Index:     t.Index,
		Total:     t.Total,
		Message:   msg,
		Timestamp: time.Now(),
	})
}
