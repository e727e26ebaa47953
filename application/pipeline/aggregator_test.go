package pipeline

import (
	"testing"
	"time"

	"github.com/Freedom18946/audio-analyzer/domain/model"
)

func reportOutcome(path string, score int, complete bool) model.TaskOutcome {
	m := model.NewAudioMetrics(path, 1024)
	m.ProcessingTime = 42 * time.Millisecond
	if complete {
		m.LRA = model.Float64(10)
		m.PeakDB = model.Float64(-12)
		m.OverallRMSDB = model.Float64(-18)
		m.RMSDBLowCut = model.Float64(-60)
		m.RMSDBMidCut = model.Float64(-65)
		m.RMSDBHighCut = model.Float64(-70)
	}
	return model.TaskOutcome{
		Path: path,
		Report: &model.FileReport{
			Metrics:    m,
			Assessment: &model.Assessment{Score: score, Status: model.StatusGood},
		},
	}
}

func failureOutcome(path string, kind model.FailureKind) model.TaskOutcome {
	return model.TaskOutcome{
		Path:   path,
		Report: &model.FileReport{Metrics: model.NewAudioMetrics(path, 0)},
		Failures: []model.Failure{
			{Path: path, Kind: kind, Reason: string(kind)},
		},
	}
}

func collect(a *Aggregator, outcomes ...model.TaskOutcome) *model.BatchResult {
	ch := make(chan model.TaskOutcome, len(outcomes))
	for _, o := range outcomes {
		ch <- o
	}
	close(ch)
	return a.Collect(ch)
}

func TestAggregatorOrdersReportsByPath(t *testing.T) {
	a := NewAggregator(model.OutputOptions{IncludeTiming: true})

	result := collect(a,
		reportOutcome("/music/c.flac", 80, true),
		reportOutcome("/music/a.flac", 90, true),
		reportOutcome("/music/b.flac", 70, true),
	)

	if result.Attempted != 3 || result.Succeeded != 3 {
		t.Errorf("attempted=%d succeeded=%d, want 3/3", result.Attempted, result.Succeeded)
	}

	want := []string{"/music/a.flac", "/music/b.flac", "/music/c.flac"}
	if len(result.Reports) != len(want) {
		t.Fatalf("reports = %d, want %d", len(result.Reports), len(want))
	}
	for i, path := range want {
		if result.Reports[i].Metrics.Path != path {
			t.Errorf("report[%d].Path = %s, want %s", i, result.Reports[i].Metrics.Path, path)
		}
	}
}

func TestAggregatorTalliesFailures(t *testing.T) {
	a := NewAggregator(model.OutputOptions{})

	result := collect(a,
		failureOutcome("/music/x.txt", model.FailureUnsupportedFormat),
		failureOutcome("/music/y.mp3", model.FailureDecode),
		failureOutcome("/music/z.mp3", model.FailureDecode),
		reportOutcome("/music/a.flac", 95, true),
	)

	if result.Attempted != 4 {
		t.Errorf("attempted = %d, want 4", result.Attempted)
	}
	if result.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", result.Succeeded)
	}
	if got := result.FailureCounts[model.FailureDecode]; got != 2 {
		t.Errorf("decode failures = %d, want 2", got)
	}
	if got := result.FailureCounts[model.FailureUnsupportedFormat]; got != 1 {
		t.Errorf("unsupported-format failures = %d, want 1", got)
	}
	if len(result.Failures) != 3 {
		t.Errorf("failure ledger entries = %d, want 3", len(result.Failures))
	}
}

func TestAggregatorMinScoreFilter(t *testing.T) {
	minScore := 50
	a := NewAggregator(model.OutputOptions{MinScore: &minScore})

	result := collect(a,
		reportOutcome("/music/low.flac", 20, true),
		reportOutcome("/music/high.flac", 80, true),
		failureOutcome("/music/broken.mp3", model.FailureDecode),
	)

	// The low scorer is dropped; the failed file has no assessment and is
	// always kept.
	if len(result.Reports) != 2 {
		t.Fatalf("reports = %d, want 2", len(result.Reports))
	}
	for _, rep := range result.Reports {
		if rep.Assessment != nil && rep.Assessment.Score < minScore {
			t.Errorf("report %s scored %d, below the configured minimum", rep.Metrics.Path, rep.Assessment.Score)
		}
	}

	// Filtering changes the output, not the accounting
	if result.Attempted != 3 || result.Succeeded != 2 {
		t.Errorf("attempted=%d succeeded=%d, want 3/2", result.Attempted, result.Succeeded)
	}
}

func TestAggregatorTimingStripped(t *testing.T) {
	a := NewAggregator(model.OutputOptions{IncludeTiming: false})

	result := collect(a, reportOutcome("/music/a.flac", 90, true))

	if got := result.Reports[0].Metrics.ProcessingTime; got != 0 {
		t.Errorf("processing time = %v, want stripped to 0", got)
	}
}

func TestAggregatorSortsFailureLedger(t *testing.T) {
	a := NewAggregator(model.OutputOptions{})

	result := collect(a,
		failureOutcome("/music/b.mp3", model.FailureDecode),
		failureOutcome("/music/a.mp3", model.FailureIO),
	)

	if result.Failures[0].Path != "/music/a.mp3" || result.Failures[1].Path != "/music/b.mp3" {
		t.Errorf("ledger not sorted by path: %+v", result.Failures)
	}
}
