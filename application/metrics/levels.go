package metrics

import (
	"math"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
)

// FloorDB is the level reported for silent or near-silent signals instead
// of -Inf
const FloorDB = -144.0

// amplitudeDB converts a linear amplitude to dBFS, clamped at the floor
func amplitudeDB(a float64) float64 {
	if a <= 0 {
		return FloorDB
	}
	db := 20.0 * math.Log10(a)
	if db < FloorDB {
		return FloorDB
	}
	return db
}

// powerDB converts a mean-square power to dBFS, clamped at the floor
func powerDB(p float64) float64 {
	if p <= 0 {
		return FloorDB
	}
	db := 10.0 * math.Log10(p)
	if db < FloorDB {
		return FloorDB
	}
	return db
}

func validateBuffer(path string, buf *model.PCMBuffer, metric string) error {
	switch {
	case buf == nil || len(buf.Samples) == 0:
		return pkgerrors.NewComputationError(path, metric, "empty signal buffer", nil)
	case buf.SampleRate <= 0:
		return pkgerrors.NewComputationError(path, metric, "invalid sample rate", nil)
	case buf.Channels <= 0:
		return pkgerrors.NewComputationError(path, metric, "invalid channel count", nil)
	case len(buf.Samples)%buf.Channels != 0:
		return pkgerrors.NewComputationError(path, metric, "sample count not divisible by channel count", nil)
	}
	for _, s := range buf.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return pkgerrors.NewComputationError(path, metric, "signal contains non-finite samples", nil)
		}
	}
	return nil
}

// Peak returns the maximum absolute sample magnitude in dBFS
func Peak(path string, buf *model.PCMBuffer) (float64, error) {
	if err := validateBuffer(path, buf, "peak"); err != nil {
		return 0, err
	}
	maxAbs := 0.0
	for _, s := range buf.Samples {
		if a := math.Abs(s); a > maxAbs {
			maxAbs = a
		}
	}
	return amplitudeDB(maxAbs), nil
}

// OverallRMS returns the root-mean-square level of the whole signal in dBFS
func OverallRMS(path string, buf *model.PCMBuffer) (float64, error) {
	if err := validateBuffer(path, buf, "overall-rms"); err != nil {
		return 0, err
	}
	var sum float64
	for _, s := range buf.Samples {
		sum += s * s
	}
	return powerDB(sum / float64(len(buf.Samples))), nil
}
