package classify

import (
	"fmt"
	"strings"

	"github.com/Freedom18946/audio-analyzer/domain/model"
)

// Classifier maps measured metrics to per-dimension categories, an overall
// status with remark, and a composite 0-100 score. It is a pure function of
// (metrics, thresholds): identical inputs always produce identical output.
type Classifier struct {
	thresholds model.QualityThresholds
}

// NewClassifier creates a classifier over validated thresholds
func NewClassifier(t model.QualityThresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify assesses one file's metrics
func (c *Classifier) Classify(m *model.AudioMetrics) model.Assessment {
	a := model.Assessment{
		LRACategory:      c.lraCategory(m.LRA),
		SpectrumCategory: c.spectrumCategory(m.RMSDBMidCut),
		PeakCategory:     c.peakCategory(m.PeakDB),
	}

	missing := missingCritical(m)
	incomplete := len(missing) >= 2

	a.Status, a.Remark = c.statusAndRemark(m, missing, incomplete)
	a.Score = c.score(m, len(missing), incomplete, a.Status)
	return a
}

// missingCritical names the absent metrics the verdict depends on: the
// mid-cutoff band RMS, the loudness range, and the peak.
func missingCritical(m *model.AudioMetrics) []string {
	var missing []string
	if m.RMSDBMidCut == nil {
		missing = append(missing, "band-limited RMS")
	}
	if m.LRA == nil {
		missing = append(missing, "loudness range")
	}
	if m.PeakDB == nil {
		missing = append(missing, "peak amplitude")
	}
	return missing
}

func (c *Classifier) lraCategory(v *float64) model.Category {
	if v == nil {
		return model.CategoryUnknown
	}
	t := &c.thresholds
	switch {
	case *v < t.LRAPoorMax:
		return model.CategoryCriticalCompression
	case *v < t.LRALowMax:
		return model.CategoryLowDynamics
	case *v < t.LRAExcellentMin:
		return model.CategoryBorderline
	case *v < t.LRAExcellentMax:
		return model.CategoryExcellent
	case *v < t.LRAAcceptableMax:
		return model.CategoryHigh
	default:
		return model.CategoryExcessive
	}
}

func (c *Classifier) spectrumCategory(v *float64) model.Category {
	if v == nil {
		return model.CategoryUnknown
	}
	t := &c.thresholds
	switch {
	case *v >= t.SpectrumGoodDB:
		return model.CategoryIntact
	case *v >= t.SpectrumFakeDB:
		return model.CategorySuspectProcessing
	default:
		return model.CategorySuspectedFake
	}
}

func (c *Classifier) peakCategory(v *float64) model.Category {
	if v == nil {
		return model.CategoryUnknown
	}
	t := &c.thresholds
	switch {
	case *v < t.PeakGoodDB:
		return model.CategorySafe
	case *v >= t.PeakClippingDB:
		return model.CategoryClippingRisk
	default:
		return model.CategoryCaution
	}
}

// statusAndRemark derives the overall label and explanation. Precedence
// follows the reporting tool this replaces: incomplete data beats spectral
// findings, spectral fakery beats clipping, clipping beats compression.
func (c *Classifier) statusAndRemark(m *model.AudioMetrics, missing []string, incomplete bool) (model.Status, string) {
	t := &c.thresholds
	status := model.StatusGood
	var notes []string

	if incomplete {
		status = model.StatusIncompleteData
		notes = append(notes, "critical metrics missing, assessment may be inaccurate")
	} else if len(missing) > 0 {
		notes = append(notes, fmt.Sprintf("%s not measured, dimension excluded from scoring",
			strings.Join(missing, ", ")))
	}

	if !incomplete && m.RMSDBMidCut != nil {
		switch {
		case *m.RMSDBMidCut < t.SpectrumFakeDB:
			status = model.StatusSuspectedFake
			notes = append(notes, fmt.Sprintf(
				"hard spectral cutoff around %d Hz, highly likely fake or upsampled", m.Cutoffs.Mid))
		case *m.RMSDBMidCut < t.SpectrumProcessedDB:
			status = model.StatusSuspectProcessing
			notes = append(notes, fmt.Sprintf(
				"low energy above %d Hz, possible soft cutoff from prior processing", m.Cutoffs.Mid))
		}
	}

	if !incomplete && status != model.StatusSuspectedFake && m.PeakDB != nil &&
		*m.PeakDB >= t.PeakClippingDB {
		status = model.StatusClipped
		notes = append(notes, "severe digital clipping risk, peak close to 0 dBFS")
	}

	if !incomplete && status != model.StatusSuspectedFake && m.LRA != nil && *m.LRA > 0 {
		switch {
		case *m.LRA < t.LRAPoorMax:
			status = model.StatusCriticalCompression
			notes = append(notes, fmt.Sprintf(
				"extremely low dynamic range (LRA %.1f LU), heavily over-compressed", *m.LRA))
		case *m.LRA < t.LRALowMax && status == model.StatusGood:
			status = model.StatusLowDynamics
			notes = append(notes, fmt.Sprintf(
				"low dynamic range (LRA %.1f LU), possibly over-compressed", *m.LRA))
		case *m.LRA > t.LRATooHigh:
			notes = append(notes, fmt.Sprintf(
				"very high dynamic range (LRA %.1f LU), may need compression", *m.LRA))
		}
	}

	if len(notes) == 0 {
		notes = append(notes, "no obvious technical issues detected")
	}
	return status, strings.Join(notes, " | ")
}
