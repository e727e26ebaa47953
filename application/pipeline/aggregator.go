package pipeline

import (
	"sort"
	"time"

	"github.com/Freedom18946/audio-analyzer/domain/model"
)

// Aggregator compiles the unordered task outcome stream into the final
// batch result: reports ordered by file path, failures tallied by kind.
// It performs no I/O.
type Aggregator struct {
	output model.OutputOptions
}

// NewAggregator creates an aggregator honoring the configured output options
func NewAggregator(output model.OutputOptions) *Aggregator {
	return &Aggregator{output: output}
}

// Collect drains outcomes and builds the batch result. It returns once the
// channel closes.
func (a *Aggregator) Collect(outcomes <-chan model.TaskOutcome) *model.BatchResult {
	start := time.Now()

	result := &model.BatchResult{
		FailureCounts: make(map[model.FailureKind]int),
	}

	for outcome := range outcomes {
		result.Attempted++

		for _, f := range outcome.Failures {
			result.Failures = append(result.Failures, f)
			result.FailureCounts[f.Kind]++
		}

		if outcome.Report == nil {
			continue
		}
		if outcome.Report.Metrics != nil && outcome.Report.Metrics.IsComplete() {
			result.Succeeded++
		}
		if a.keep(outcome.Report) {
			if !a.output.IncludeTiming && outcome.Report.Metrics != nil {
				outcome.Report.Metrics.ProcessingTime = 0
			}
			result.Reports = append(result.Reports, *outcome.Report)
		}
	}

	sort.Slice(result.Reports, func(i, j int) bool {
		return result.Reports[i].Metrics.Path < result.Reports[j].Metrics.Path
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		if result.Failures[i].Path != result.Failures[j].Path {
			return result.Failures[i].Path < result.Failures[j].Path
		}
		return result.Failures[i].Kind < result.Failures[j].Kind
	})

	result.Elapsed = time.Since(start)
	return result
}

// keep applies the minimum-score filter. Reports without an assessment are
// always kept so failed files stay visible in the output.
func (a *Aggregator) keep(report *model.FileReport) bool {
	if a.output.MinScore == nil || report.Assessment == nil {
		return true
	}
	return report.Assessment.Score >= *a.output.MinScore
}
