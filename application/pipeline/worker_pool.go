package pipeline

import (
	"context"
	"sync"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/Freedom18946/audio-analyzer/pkg/logger"
	"github.com/Freedom18946/audio-analyzer/pkg/progress"
	"go.uber.org/zap"
)

// WorkerPool fans analysis tasks out over a bounded set of workers. Each
// worker processes one file end-to-end at a time, so the number of live
// decoder subprocesses never exceeds the worker count.
type WorkerPool struct {
	pipeline *Pipeline
	workers  int
	log      *logger.Logger
}

// NewWorkerPool creates a pool with the given concurrency bound
func NewWorkerPool(p *Pipeline, workers int, log *logger.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	return &WorkerPool{
		pipeline: p,
		workers:  workers,
		log:      log,
	}
}

// Run dispatches one task per file and sends every outcome to the returned
// channel, which closes once all tasks are accounted for. Completion order
// is unspecified. Canceling ctx stops new dispatches and asks in-flight
// tasks to terminate; outcomes already produced are preserved, and files
// never dispatched are recorded as canceled so each file has exactly one
// outcome.
func (wp *WorkerPool) Run(ctx context.Context, files []model.FileInfo, reporter progress.Reporter) <-chan model.TaskOutcome {
	results := make(chan model.TaskOutcome, len(files))

	go func() {
		defer close(results)

		var wg sync.WaitGroup
		semaphore := make(chan struct{}, wp.workers)

		for i, file := range files {
			select {
			case <-ctx.Done():
				results <- canceledOutcome(file, ctx.Err())
				continue
			case semaphore <- struct{}{}:
			}

			wg.Add(1)
			go func(idx int, f model.FileInfo) {
				defer wg.Done()
				defer func() { <-semaphore }()

				wp.log.Debug("dispatching task",
					zap.String("path", f.Path),
					zap.Int("index", idx+1),
					zap.Int("total", len(files)),
				)

				results <- wp.pipeline.Run(ctx, &Task{
					File:     f,
					Index:    idx + 1,
					Total:    len(files),
					Reporter: reporter,
				})
			}(i, file)
		}

		wg.Wait()
	}()

	return results
}

func canceledOutcome(file model.FileInfo, cause error) model.TaskOutcome {
	err := &pkgerrors.AnalyzerError{
		Code:    pkgerrors.ErrCodeCanceled,
		Message: "batch canceled before dispatch",
		Cause:   cause,
	}
	return model.TaskOutcome{
		Path:   file.Path,
		Report: &model.FileReport{Metrics: model.NewAudioMetrics(file.Path, file.SizeBytes)},
		Failures: []model.Failure{{
			Path:   file.Path,
			Kind:   model.FailureCanceled,
			Err:    err,
			Reason: err.Error(),
		}},
	}
}
