package metrics

import (
	"fmt"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// highpassOrder is the Butterworth order used for band isolation. Two
// cascaded biquad sections, 24 dB/octave.
const highpassOrder = 4

// BandRMS returns the RMS level in dBFS of the signal after removing
// energy below cutoffHz. A cutoff at or above Nyquist leaves no band to
// measure and reports the floor; a silent band reports the floor rather
// than -Inf.
func BandRMS(path string, buf *model.PCMBuffer, cutoffHz int) (float64, error) {
	metric := fmt.Sprintf("band-rms-%dhz", cutoffHz)
	if err := validateBuffer(path, buf, metric); err != nil {
		return 0, err
	}
	if cutoffHz <= 0 {
		return 0, pkgerrors.NewComputationError(path, metric, "cutoff frequency must be positive", nil)
	}

	nyquist := float64(buf.SampleRate) / 2.0
	if float64(cutoffHz) >= nyquist {
		return FloorDB, nil
	}

	coeffs := design.ButterworthHP(float64(cutoffHz), highpassOrder, float64(buf.SampleRate))
	if len(coeffs) == 0 {
		return 0, pkgerrors.NewComputationError(path, metric, "filter design produced no sections", nil)
	}

	frames := buf.Frames()
	var sum float64
	scratch := make([]float64, frames)

	for ch := 0; ch < buf.Channels; ch++ {
		for i := 0; i < frames; i++ {
			scratch[i] = buf.Samples[i*buf.Channels+ch]
		}
		chain := biquad.NewChain(coeffs)
		chain.ProcessBlock(scratch)
		for _, s := range scratch {
			sum += s * s
		}
	}

	return powerDB(sum / float64(len(buf.Samples))), nil
}
