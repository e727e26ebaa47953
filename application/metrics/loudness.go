package metrics

import (
	"math"
	"sort"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

// Loudness range per EBU Tech 3342 on top of the ITU-R BS.1770 short-term
// loudness distribution: K-weight each channel, slide a 3 s mean-square
// window at a 100 ms hop, gate the resulting loudness values absolutely at
// -70 LUFS and relatively 20 LU below the power-mean of the surviving
// blocks, then report the spread between the 10th and 95th percentiles.

const (
	// K-weighting filter parameters from BS.1770
	kWeightingShelfFreq = 1500.0
	kWeightingShelfGain = 4.0
	kWeightingHpfFreq   = 38.0

	shortTermWindowSec = 3.0
	shortTermHopSec    = 0.1

	lraAbsThresholdLUFS = -70.0
	lraRelThresholdLU   = -20.0

	lraLowPercentile  = 0.10
	lraHighPercentile = 0.95
)

func toLUFS(meanSquare float64) float64 {
	if meanSquare <= 0 {
		return math.Inf(-1)
	}
	return -0.691 + 10.0*math.Log10(meanSquare)
}

// LoudnessRange computes the loudness range of the signal in LU
func LoudnessRange(path string, buf *model.PCMBuffer) (float64, error) {
	const metric = "loudness-range"
	if err := validateBuffer(path, buf, metric); err != nil {
		return 0, err
	}

	frames := buf.Frames()
	windowFrames := int(math.Round(shortTermWindowSec * float64(buf.SampleRate)))
	if frames < windowFrames {
		return 0, pkgerrors.NewComputationError(path, metric,
			"signal shorter than the short-term loudness window", nil)
	}
	hopFrames := int(math.Round(shortTermHopSec * float64(buf.SampleRate)))
	if hopFrames < 1 {
		hopFrames = 1
	}

	// K-weight each channel and accumulate prefix sums of squared samples
	// so every window is a pair of subtractions.
	q := 1.0 / math.Sqrt(2)
	shelfCoeffs := design.HighShelf(kWeightingShelfFreq, kWeightingShelfGain, q, float64(buf.SampleRate))
	hpfCoeffs := design.Highpass(kWeightingHpfFreq, q, float64(buf.SampleRate))

	prefix := make([][]float64, buf.Channels)
	scratch := make([]float64, frames)
	for ch := 0; ch < buf.Channels; ch++ {
		for i := 0; i < frames; i++ {
			scratch[i] = buf.Samples[i*buf.Channels+ch]
		}
		shelf := biquad.NewSection(shelfCoeffs)
		hpf := biquad.NewSection(hpfCoeffs)
		shelf.ProcessBlock(scratch)
		hpf.ProcessBlock(scratch)

		prefix[ch] = make([]float64, frames+1)
		for i, s := range scratch {
			prefix[ch][i+1] = prefix[ch][i] + s*s
		}
	}

	// Short-term block powers (sum of per-channel mean squares)
	var blockPowers []float64
	for start := 0; start+windowFrames <= frames; start += hopFrames {
		power := 0.0
		for ch := 0; ch < buf.Channels; ch++ {
			power += (prefix[ch][start+windowFrames] - prefix[ch][start]) / float64(windowFrames)
		}
		blockPowers = append(blockPowers, power)
	}

	// Absolute gating
	var absGated []float64
	absGatedSum := 0.0
	for _, p := range blockPowers {
		if toLUFS(p) > lraAbsThresholdLUFS {
			absGated = append(absGated, p)
			absGatedSum += p
		}
	}
	if len(absGated) == 0 {
		// Nothing above the absolute gate: effectively silence, no range
		return 0, nil
	}

	// Relative gating against the power-mean of the surviving blocks
	gamma := toLUFS(absGatedSum/float64(len(absGated))) + lraRelThresholdLU

	var gated []float64
	for _, p := range absGated {
		if l := toLUFS(p); l > gamma {
			gated = append(gated, l)
		}
	}
	if len(gated) < 2 {
		return 0, nil
	}

	sort.Float64s(gated)
	lra := percentile(gated, lraHighPercentile) - percentile(gated, lraLowPercentile)
	if lra < 0 {
		lra = 0
	}
	return lra, nil
}

// percentile interpolates linearly between closest ranks of a sorted slice
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
