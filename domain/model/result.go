package model

import (
	"time"

	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
)

// FileInfo identifies one discovered file
type FileInfo struct {
	Path      string
	SizeBytes int64
}

// FailureKind buckets per-file failures for the ledger
type FailureKind string

const (
	FailureUnsupportedFormat FailureKind = "unsupported-format"
	FailureDecode            FailureKind = "decode-error"
	FailureDecodeTimeout     FailureKind = "decode-timeout"
	FailureComputation       FailureKind = "computation-error"
	FailureIO                FailureKind = "io-error"
	FailureCanceled          FailureKind = "canceled"
	FailureUnknown           FailureKind = "unknown"
)

// FailureKindOf maps an error to its ledger bucket
func FailureKindOf(err error) FailureKind {
	switch pkgerrors.CodeOf(err) {
	case pkgerrors.ErrCodeUnsupportedFormat:
		return FailureUnsupportedFormat
	case pkgerrors.ErrCodeDecode:
		return FailureDecode
	case pkgerrors.ErrCodeDecodeTimeout:
		return FailureDecodeTimeout
	case pkgerrors.ErrCodeComputation:
		return FailureComputation
	case pkgerrors.ErrCodeIO:
		return FailureIO
	case pkgerrors.ErrCodeCanceled:
		return FailureCanceled
	default:
		return FailureUnknown
	}
}

// Failure is one ledger entry: a path, the kind of failure, and the error
type Failure struct {
	Path string      `json:"filePath"`
	Kind FailureKind `json:"kind"`
	Err  error       `json:"-"`

	// Reason carries the error text for serialization
	Reason string `json:"reason"`
}

// Category is a per-dimension classification label
type Category string

const (
	// Loudness range dimension
	CategoryCriticalCompression Category = "critical-compression"
	CategoryLowDynamics         Category = "low-dynamics"
	CategoryBorderline          Category = "borderline"
	CategoryExcellent           Category = "excellent"
	CategoryHigh                Category = "high"
	CategoryExcessive           Category = "excessive"

	// Spectral integrity dimension
	CategoryIntact            Category = "intact"
	CategorySuspectProcessing Category = "suspect-processing"
	CategorySuspectedFake     Category = "suspected-fake"

	// Peak dimension
	CategorySafe         Category = "safe"
	CategoryCaution      Category = "caution"
	CategoryClippingRisk Category = "clipping-risk"

	// CategoryUnknown marks a dimension whose metric is missing
	CategoryUnknown Category = "unknown"
)

// Status is the overall quality label for one file
type Status string

const (
	StatusGood                Status = "good"
	StatusIncompleteData      Status = "incomplete-data"
	StatusSuspectedFake       Status = "suspected-fake"
	StatusSuspectProcessing   Status = "suspect-processing"
	StatusClipped             Status = "clipped"
	StatusCriticalCompression Status = "critical-compression"
	StatusLowDynamics         Status = "low-dynamics"
)

// Assessment is the classifier verdict for one file
type Assessment struct {
	Score  int    `json:"score"`
	Status Status `json:"status"`
	Remark string `json:"remark"`

	LRACategory      Category `json:"lraCategory"`
	SpectrumCategory Category `json:"spectrumCategory"`
	PeakCategory     Category `json:"peakCategory"`
}

// FileReport pairs the measured metrics of one file with its assessment.
// Assessment is nil when the file never decoded.
type FileReport struct {
	Metrics    *AudioMetrics `json:"metrics"`
	Assessment *Assessment   `json:"assessment,omitempty"`
}

// TaskOutcome is what one scheduled task produces: a report, zero or more
// recoverable failures, or both (a decoded file whose metrics are partial).
type TaskOutcome struct {
	Path     string
	Report   *FileReport
	Failures []Failure
}

// BatchResult is the aggregate of one batch invocation. Reports are ordered
// by file path; the failure ledger is tallied by kind.
type BatchResult struct {
	Reports       []FileReport        `json:"reports"`
	Failures      []Failure           `json:"failures"`
	FailureCounts map[FailureKind]int `json:"failureCounts"`

	Attempted int           `json:"attempted"`
	Succeeded int           `json:"succeeded"`
	Elapsed   time.Duration `json:"elapsedMs"`
}

// CompleteReports returns the reports whose metrics reached completeness
func (r *BatchResult) CompleteReports() []FileReport {
	out := make([]FileReport, 0, len(r.Reports))
	for _, rep := range r.Reports {
		if rep.Metrics != nil && rep.Metrics.IsComplete() {
			out = append(out, rep)
		}
	}
	return out
}
