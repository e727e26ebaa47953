package metrics

import (
	"math"
	"testing"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestPeak(t *testing.T) {
	tests := []struct {
		name    string
		samples []float64
		want    float64
	}{
		{
			name:    "max magnitude on negative sample",
			samples: []float64{0.1, -0.5, 0.25, 0.0},
			want:    20.0 * math.Log10(0.5),
		},
		{
			name:    "full scale",
			samples: []float64{0.0, 1.0, -0.3},
			want:    0.0,
		},
		{
			name:    "silence reports the floor",
			samples: []float64{0.0, 0.0, 0.0, 0.0},
			want:    FloorDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &model.PCMBuffer{Samples: tt.samples, SampleRate: 44100, Channels: 1}
			got, err := Peak("test.wav", buf)
			if err != nil {
				t.Fatalf("Peak() error = %v", err)
			}
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Peak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverallRMS(t *testing.T) {
	// Constant magnitude 0.5: mean square 0.25, -6.02 dBFS
	buf := &model.PCMBuffer{
		Samples:    []float64{0.5, -0.5, 0.5, -0.5},
		SampleRate: 44100,
		Channels:   2,
	}
	got, err := OverallRMS("test.wav", buf)
	if err != nil {
		t.Fatalf("OverallRMS() error = %v", err)
	}
	want := 10.0 * math.Log10(0.25)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("OverallRMS() = %v, want %v", got, want)
	}
}

func TestOverallRMSSilenceFloor(t *testing.T) {
	buf := &model.PCMBuffer{Samples: make([]float64, 1000), SampleRate: 8000, Channels: 1}
	got, err := OverallRMS("quiet.wav", buf)
	if err != nil {
		t.Fatalf("OverallRMS() error = %v", err)
	}
	if got != FloorDB {
		t.Errorf("OverallRMS() of silence = %v, want floor %v", got, FloorDB)
	}
}

func TestValidateBufferRejections(t *testing.T) {
	tests := []struct {
		name string
		buf  *model.PCMBuffer
	}{
		{"nil buffer", nil},
		{"empty samples", &model.PCMBuffer{SampleRate: 44100, Channels: 1}},
		{"zero sample rate", &model.PCMBuffer{Samples: []float64{0.1}, Channels: 1}},
		{"zero channels", &model.PCMBuffer{Samples: []float64{0.1}, SampleRate: 44100}},
		{"uneven interleave", &model.PCMBuffer{Samples: []float64{0.1, 0.2, 0.3}, SampleRate: 44100, Channels: 2}},
		{"NaN sample", &model.PCMBuffer{Samples: []float64{0.1, math.NaN()}, SampleRate: 44100, Channels: 1}},
		{"Inf sample", &model.PCMBuffer{Samples: []float64{math.Inf(1)}, SampleRate: 44100, Channels: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Peak("bad.wav", tt.buf)
			if err == nil {
				t.Fatal("Peak() expected error, got nil")
			}
			if code := pkgerrors.CodeOf(err); code != pkgerrors.ErrCodeComputation {
				t.Errorf("error code = %q, want %q", code, pkgerrors.ErrCodeComputation)
			}
		})
	}
}
