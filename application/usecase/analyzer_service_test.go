package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	"github.com/Freedom18946/audio-analyzer/internal/mocks"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/Freedom18946/audio-analyzer/pkg/logger"
	"github.com/Freedom18946/audio-analyzer/pkg/progress"
)

// longPCM returns four seconds of mono silence, long enough for every metric
func longPCM() *model.PCMBuffer {
	return &model.PCMBuffer{
		Samples:    make([]float64, 4*8000),
		SampleRate: 8000,
		Channels:   1,
	}
}

func newTestService(t *testing.T, decoder *mocks.MockDecoder, storage *mocks.MockStorage) *AnalyzerService {
	t.Helper()

	cfg := model.DefaultAnalyzerConfig()
	cfg.Workers = 2

	svc, err := NewAnalyzerService(Config{
		Decoder:  decoder,
		Storage:  storage,
		Logger:   logger.Nop(),
		Analyzer: cfg,
	})
	if err != nil {
		t.Fatalf("NewAnalyzerService() error = %v", err)
	}
	return svc
}

func TestNewAnalyzerServiceRejectsNilCollaborators(t *testing.T) {
	_, err := NewAnalyzerService(Config{Storage: &mocks.MockStorage{}, Analyzer: model.DefaultAnalyzerConfig()})
	if pkgerrors.CodeOf(err) != pkgerrors.ErrCodeConfig {
		t.Errorf("nil decoder error = %v, want config error", err)
	}

	_, err = NewAnalyzerService(Config{Decoder: &mocks.MockDecoder{}, Analyzer: model.DefaultAnalyzerConfig()})
	if pkgerrors.CodeOf(err) != pkgerrors.ErrCodeConfig {
		t.Errorf("nil storage error = %v, want config error", err)
	}
}

func TestNewAnalyzerServiceRejectsInvalidConfig(t *testing.T) {
	cfg := model.DefaultAnalyzerConfig()
	cfg.Workers = -1

	_, err := NewAnalyzerService(Config{
		Decoder:  &mocks.MockDecoder{},
		Storage:  &mocks.MockStorage{},
		Analyzer: cfg,
	})
	if err == nil {
		t.Fatal("expected validation failure, got nil")
	}
	if pkgerrors.CodeOf(err) != pkgerrors.ErrCodeConfig {
		t.Errorf("error code = %q, want %q", pkgerrors.CodeOf(err), pkgerrors.ErrCodeConfig)
	}
}

func TestAnalyzeDirectoryEmpty(t *testing.T) {
	storage := &mocks.MockStorage{
		ScanFunc: func(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error) {
			return nil, nil
		},
	}
	svc := newTestService(t, &mocks.MockDecoder{}, storage)

	result, err := svc.AnalyzeDirectory(context.Background(), "/music")
	if err != nil {
		t.Fatalf("AnalyzeDirectory() error = %v", err)
	}
	if result.Attempted != 0 || len(result.Reports) != 0 {
		t.Errorf("empty directory produced a non-empty result: %+v", result)
	}
}

func TestAnalyzeDirectoryScanFailure(t *testing.T) {
	storage := &mocks.MockStorage{
		ScanFunc: func(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error) {
			return nil, pkgerrors.NewIOError(root, "permission denied", nil)
		},
	}
	svc := newTestService(t, &mocks.MockDecoder{}, storage)

	_, err := svc.AnalyzeDirectory(context.Background(), "/music")
	if pkgerrors.CodeOf(err) != pkgerrors.ErrCodeIO {
		t.Errorf("error = %v, want io error", err)
	}
}

func TestAnalyzeDirectoryMixedBatch(t *testing.T) {
	storage := &mocks.MockStorage{
		ScanFunc: func(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error) {
			return []model.FileInfo{
				{Path: "/music/good.flac", SizeBytes: 4096},
				{Path: "/music/empty.wav", SizeBytes: 0},
				{Path: "/music/notes.txt", SizeBytes: 64},
			}, nil
		},
	}
	decoder := &mocks.MockDecoder{
		DecodeFunc: func(ctx context.Context, path string) (*model.PCMBuffer, error) {
			return longPCM(), nil
		},
	}
	svc := newTestService(t, decoder, storage)

	result, err := svc.AnalyzeDirectory(context.Background(), "/music")
	if err != nil {
		t.Fatalf("AnalyzeDirectory() error = %v", err)
	}

	if result.Attempted != 3 {
		t.Errorf("attempted = %d, want 3", result.Attempted)
	}
	if result.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", result.Succeeded)
	}
	if got := result.FailureCounts[model.FailureIO]; got != 1 {
		t.Errorf("io failures = %d, want 1", got)
	}
	if got := result.FailureCounts[model.FailureUnsupportedFormat]; got != 1 {
		t.Errorf("unsupported-format failures = %d, want 1", got)
	}
	if decoder.DecodeCalls() != 1 {
		t.Errorf("decode calls = %d, want 1 (only the good file decodes)", decoder.DecodeCalls())
	}
	if len(result.Reports) != 3 {
		t.Errorf("reports = %d, want one per file", len(result.Reports))
	}
}

func TestAnalyzeFilesStatFailureStillDispatches(t *testing.T) {
	storage := &mocks.MockStorage{
		SizeFunc: func(ctx context.Context, path string) (int64, error) {
			return 0, pkgerrors.NewIOError(path, "cannot stat file", nil)
		},
	}
	decoder := &mocks.MockDecoder{
		DecodeFunc: func(ctx context.Context, path string) (*model.PCMBuffer, error) {
			return longPCM(), nil
		},
	}
	svc := newTestService(t, decoder, storage)

	result, err := svc.AnalyzeFiles(context.Background(), []string{"/music/ghost.flac"})
	if err != nil {
		t.Fatalf("AnalyzeFiles() error = %v", err)
	}
	if decoder.DecodeCalls() != 1 {
		t.Errorf("decode calls = %d, want 1 (unknown size must not be treated as empty)", decoder.DecodeCalls())
	}
	if result.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", result.Succeeded)
	}
}

func TestAnalyzeFileReturnsFirstFailure(t *testing.T) {
	decoder := &mocks.MockDecoder{
		DecodeFunc: func(ctx context.Context, path string) (*model.PCMBuffer, error) {
			return nil, pkgerrors.NewDecodeError(path, "corrupt", 1, "", nil)
		},
	}
	svc := newTestService(t, decoder, &mocks.MockStorage{})

	report, err := svc.AnalyzeFile(context.Background(), "/music/bad.mp3")
	if err == nil {
		t.Fatal("expected the per-file failure to surface as error")
	}
	if pkgerrors.CodeOf(err) != pkgerrors.ErrCodeDecode {
		t.Errorf("error code = %q, want %q", pkgerrors.CodeOf(err), pkgerrors.ErrCodeDecode)
	}
	if report == nil || report.Metrics == nil {
		t.Error("partial report should accompany the failure")
	}
}

type recordingReporter struct {
	mu      sync.Mutex
	updates []progress.Update
}

func (r *recordingReporter) Report(u progress.Update) {
	r.mu.Lock()
	r.updates = append(r.updates, u)
	r.mu.Unlock()
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func TestShowProgressGatesReporting(t *testing.T) {
	scan := func(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error) {
		return []model.FileInfo{{Path: "/music/track.flac", SizeBytes: 1024}}, nil
	}
	decode := func(ctx context.Context, path string) (*model.PCMBuffer, error) {
		return longPCM(), nil
	}

	run := func(t *testing.T, showProgress bool) int {
		t.Helper()

		reporter := &recordingReporter{}
		cfg := model.DefaultAnalyzerConfig()
		cfg.Workers = 1
		cfg.ShowProgress = showProgress

		svc, err := NewAnalyzerService(Config{
			Decoder:  &mocks.MockDecoder{DecodeFunc: decode},
			Storage:  &mocks.MockStorage{ScanFunc: scan},
			Reporter: reporter,
			Logger:   logger.Nop(),
			Analyzer: cfg,
		})
		if err != nil {
			t.Fatalf("NewAnalyzerService() error = %v", err)
		}
		if _, err := svc.AnalyzeDirectory(context.Background(), "/music"); err != nil {
			t.Fatalf("AnalyzeDirectory() error = %v", err)
		}
		return reporter.count()
	}

	if got := run(t, false); got != 0 {
		t.Errorf("disabled progress delivered %d updates, want 0", got)
	}
	if got := run(t, true); got == 0 {
		t.Error("enabled progress delivered no updates")
	}
}

func TestAnalyzeFileSuccess(t *testing.T) {
	decoder := &mocks.MockDecoder{
		DecodeFunc: func(ctx context.Context, path string) (*model.PCMBuffer, error) {
			return longPCM(), nil
		},
	}
	svc := newTestService(t, decoder, &mocks.MockStorage{})

	report, err := svc.AnalyzeFile(context.Background(), "/music/track.flac")
	if err != nil {
		t.Fatalf("AnalyzeFile() error = %v", err)
	}
	if report == nil || report.Assessment == nil {
		t.Fatal("expected a report with an assessment")
	}
	if !report.Metrics.IsComplete() {
		t.Errorf("metrics not complete: %+v", report.Metrics)
	}
}
