package metrics

import (
	"github.com/Freedom18946/audio-analyzer/domain/model"
)

// Engine turns decoded signal buffers into AudioMetrics. It is stateless
// and safe for concurrent use; every method is a pure function of its
// arguments.
type Engine struct {
	cutoffs model.BandCutoffs
}

// NewEngine creates an engine measuring band-limited RMS at the given cutoffs
func NewEngine(cutoffs model.BandCutoffs) *Engine {
	return &Engine{cutoffs: cutoffs}
}

// Measure fills metrics from the decoded buffer. Each metric is computed
// independently: a failure in one never blocks the others. The returned
// errors are the individual computation failures, one per metric that could
// not be derived.
func (e *Engine) Measure(m *model.AudioMetrics, buf *model.PCMBuffer) []error {
	var errs []error

	m.Cutoffs = e.cutoffs

	if lra, err := LoudnessRange(m.Path, buf); err != nil {
		errs = append(errs, err)
	} else {
		m.LRA = model.Float64(lra)
	}

	if peak, err := Peak(m.Path, buf); err != nil {
		errs = append(errs, err)
	} else {
		m.PeakDB = model.Float64(peak)
	}

	if rms, err := OverallRMS(m.Path, buf); err != nil {
		errs = append(errs, err)
	} else {
		m.OverallRMSDB = model.Float64(rms)
	}

	if rms, err := BandRMS(m.Path, buf, e.cutoffs.Low); err != nil {
		errs = append(errs, err)
	} else {
		m.RMSDBLowCut = model.Float64(rms)
	}

	if rms, err := BandRMS(m.Path, buf, e.cutoffs.Mid); err != nil {
		errs = append(errs, err)
	} else {
		m.RMSDBMidCut = model.Float64(rms)
	}

	if rms, err := BandRMS(m.Path, buf, e.cutoffs.High); err != nil {
		errs = append(errs, err)
	} else {
		m.RMSDBHighCut = model.Float64(rms)
	}

	return errs
}
