package model

import (
	"path/filepath"
	"time"
)

// PCMBuffer holds a decoded signal as interleaved float64 samples.
// Each buffer is owned by exactly one analysis task.
type PCMBuffer struct {
	Samples    []float64
	SampleRate int
	Channels   int
}

// Frames returns the number of per-channel sample frames
func (b *PCMBuffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// Duration returns the signal duration
func (b *PCMBuffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// StreamInfo holds stream parameters read by the decoder's probe
type StreamInfo struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
	Codec      string
	Format     string
	BitRate    int
	SizeBytes  int64
}

// BandCutoffs holds the three high-pass cutoff frequencies in Hz used for
// band-limited RMS measurement
type BandCutoffs struct {
	Low  int `json:"low"`
	Mid  int `json:"mid"`
	High int `json:"high"`
}

// DefaultBandCutoffs returns the cutoffs used for spectral integrity checks
func DefaultBandCutoffs() BandCutoffs {
	return BandCutoffs{Low: 16000, Mid: 18000, High: 20000}
}

// AudioMetrics holds the measured descriptors for one file. Path and file
// size are known at creation; every other field stays nil until its
// computation step succeeds.
type AudioMetrics struct {
	Path          string `json:"filePath"`
	FileSizeBytes int64  `json:"fileSizeBytes"`

	// Loudness range in LU (EBU R128 / Tech 3342)
	LRA *float64 `json:"lra,omitempty"`

	// Peak amplitude in dB relative to full scale
	PeakDB *float64 `json:"peakAmplitudeDb,omitempty"`

	// Overall RMS level in dBFS
	OverallRMSDB *float64 `json:"overallRmsDb,omitempty"`

	// RMS level in dBFS after high-pass filtering at each configured cutoff
	Cutoffs      BandCutoffs `json:"bandCutoffsHz"`
	RMSDBLowCut  *float64    `json:"rmsDbAboveLowCut,omitempty"`
	RMSDBMidCut  *float64    `json:"rmsDbAboveMidCut,omitempty"`
	RMSDBHighCut *float64    `json:"rmsDbAboveHighCut,omitempty"`

	ProcessingTime time.Duration `json:"processingTimeMs"`
}

// NewAudioMetrics creates a metrics record for a discovered file
func NewAudioMetrics(path string, sizeBytes int64) *AudioMetrics {
	return &AudioMetrics{Path: path, FileSizeBytes: sizeBytes}
}

// IsComplete reports whether every metric was measured: loudness range,
// peak, overall RMS, and the band-limited RMS at all three cutoffs.
func (m *AudioMetrics) IsComplete() bool {
	return m.LRA != nil &&
		m.PeakDB != nil &&
		m.OverallRMSDB != nil &&
		m.RMSDBLowCut != nil &&
		m.RMSDBMidCut != nil &&
		m.RMSDBHighCut != nil
}

// Filename returns the base name of the analyzed file
func (m *AudioMetrics) Filename() string {
	return filepath.Base(m.Path)
}

// Float64 returns a pointer to v. Helper for building metric fields.
func Float64(v float64) *float64 { return &v }
