package model

// ScoreWeights makes the composite scoring rule explicit: the maximum
// contribution of each dimension to the 0-100 score. Integrity covers
// spectral completeness at the mid cutoff plus peak headroom, Dynamics
// covers loudness range, Spectrum covers energy above the low cutoff.
type ScoreWeights struct {
	Integrity float64 `json:"integrity"`
	Dynamics  float64 `json:"dynamics"`
	Spectrum  float64 `json:"spectrum"`

	// MissingFieldPenalty is subtracted per absent critical metric
	MissingFieldPenalty float64 `json:"missingFieldPenalty"`

	// Score ceilings applied after summation
	SuspectedFakeCap float64 `json:"suspectedFakeCap"`
	IncompleteCap    float64 `json:"incompleteCap"`
}

// DefaultScoreWeights returns the scoring rule the reports are built around
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Integrity:           40,
		Dynamics:            30,
		Spectrum:            30,
		MissingFieldPenalty: 10,
		SuspectedFakeCap:    20,
		IncompleteCap:       40,
	}
}

// QualityThresholds holds the range-to-label tables per metric dimension.
// Immutable once validated; shared read-only across all tasks in a batch.
type QualityThresholds struct {
	// Band-limited RMS thresholds in dBFS, measured at the mid cutoff.
	// Below Fake the band is considered synthetically cut (upsampled or
	// re-encoded lossless); below Processed a soft cut is suspected;
	// at or above Good the spectrum is considered intact.
	SpectrumFakeDB      float64 `json:"spectrumFakeThreshold"`
	SpectrumProcessedDB float64 `json:"spectrumProcessedThreshold"`
	SpectrumGoodDB      float64 `json:"spectrumGoodThreshold"`

	// Loudness range bands in LU. Lower bounds are inclusive.
	LRAPoorMax       float64 `json:"lraPoorMax"`
	LRALowMax        float64 `json:"lraLowMax"`
	LRAExcellentMin  float64 `json:"lraExcellentMin"`
	LRAExcellentMax  float64 `json:"lraExcellentMax"`
	LRAAcceptableMax float64 `json:"lraAcceptableMax"`
	LRATooHigh       float64 `json:"lraTooHigh"`

	// Peak amplitude thresholds in dBFS
	PeakClippingDB float64 `json:"peakClippingDb"`
	PeakGoodDB     float64 `json:"peakGoodDb"`
	PeakMediumDB   float64 `json:"peakMediumDb"`

	Weights ScoreWeights `json:"weights"`
}

// DefaultQualityThresholds returns the threshold tables used when the
// caller supplies none
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		SpectrumFakeDB:      -85.0,
		SpectrumProcessedDB: -80.0,
		SpectrumGoodDB:      -70.0,
		LRAPoorMax:          3.0,
		LRALowMax:           6.0,
		LRAExcellentMin:     8.0,
		LRAExcellentMax:     12.0,
		LRAAcceptableMax:    15.0,
		LRATooHigh:          20.0,
		PeakClippingDB:      -0.1,
		PeakGoodDB:          -6.0,
		PeakMediumDB:        -3.0,
		Weights:             DefaultScoreWeights(),
	}
}
