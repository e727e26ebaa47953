package classify

import (
	"math"

	"github.com/Freedom18946/audio-analyzer/domain/model"
)

// mapToScore maps v from [inMin,inMax] onto [outMin,outMax] with clamping.
// outMin may exceed outMax for descending ramps.
func mapToScore(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	if v < inMin {
		v = inMin
	}
	if v > inMax {
		v = inMax
	}
	return outMin + (v-inMin)*(outMax-outMin)/(inMax-inMin)
}

// score computes the composite 0-100 quality score. The shape of each
// dimension's ramp is fixed; ScoreWeights scales the maximum contribution
// of each dimension and sets the penalties and ceilings.
func (c *Classifier) score(m *model.AudioMetrics, missingCount int, incomplete bool, status model.Status) int {
	t := &c.thresholds
	w := t.Weights

	// The ramps below are expressed against the default 40/30/30 split and
	// rescaled to the configured weights.
	integrityScale := w.Integrity / 40.0
	dynamicsScale := w.Dynamics / 30.0
	spectrumScale := w.Spectrum / 30.0

	var integrity float64
	if m.RMSDBMidCut != nil {
		v := *m.RMSDBMidCut
		switch {
		case v >= t.SpectrumGoodDB:
			integrity += 25
		case v >= t.SpectrumProcessedDB:
			integrity += mapToScore(v, t.SpectrumProcessedDB, t.SpectrumGoodDB, 15, 25)
		case v >= t.SpectrumFakeDB:
			integrity += mapToScore(v, t.SpectrumFakeDB, t.SpectrumProcessedDB, 5, 15)
		}
	}
	if m.PeakDB != nil {
		v := *m.PeakDB
		switch {
		case v <= t.PeakGoodDB:
			integrity += 15
		case v <= t.PeakMediumDB:
			integrity += mapToScore(v, t.PeakGoodDB, t.PeakMediumDB, 15, 10)
		case v <= t.PeakClippingDB:
			integrity += mapToScore(v, t.PeakMediumDB, t.PeakClippingDB, 10, 3)
		}
	}

	var dynamics float64
	if m.LRA != nil && *m.LRA > 0 {
		v := *m.LRA
		switch {
		case v >= t.LRAExcellentMin && v <= t.LRAExcellentMax:
			dynamics = 30
		case v >= t.LRALowMax && v < t.LRAExcellentMin:
			dynamics = mapToScore(v, t.LRALowMax, t.LRAExcellentMin, 20, 28)
		case v > t.LRAExcellentMax && v <= t.LRAAcceptableMax:
			dynamics = mapToScore(v, t.LRAExcellentMax, t.LRAAcceptableMax, 28, 22)
		case v >= t.LRAPoorMax && v < t.LRALowMax:
			dynamics = mapToScore(v, t.LRAPoorMax, t.LRALowMax, 10, 20)
		case v < t.LRAPoorMax:
			dynamics = mapToScore(v, 0, t.LRAPoorMax, 0, 10)
		default: // above the acceptable maximum
			dynamics = 18
		}
	}

	var spectrum float64
	if m.RMSDBLowCut != nil {
		spectrum = mapToScore(*m.RMSDBLowCut, -90, -55, 0, 30)
	}

	total := integrity*integrityScale + dynamics*dynamicsScale + spectrum*spectrumScale
	total -= float64(missingCount) * w.MissingFieldPenalty

	if status == model.StatusSuspectedFake && total > w.SuspectedFakeCap {
		total = w.SuspectedFakeCap
	}
	if incomplete && total > w.IncompleteCap {
		total = w.IncompleteCap
	}

	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
