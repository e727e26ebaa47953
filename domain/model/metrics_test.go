package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
)

func completeMetrics() *AudioMetrics {
	m := NewAudioMetrics("/music/track.flac", 4096)
	m.LRA = Float64(9.5)
	m.PeakDB = Float64(-11.2)
	m.OverallRMSDB = Float64(-18.0)
	m.RMSDBLowCut = Float64(-62.0)
	m.RMSDBMidCut = Float64(-66.0)
	m.RMSDBHighCut = Float64(-71.0)
	return m
}

func TestIsComplete(t *testing.T) {
	m := completeMetrics()
	if !m.IsComplete() {
		t.Error("metrics with every field set should be complete")
	}

	clear := []func(*AudioMetrics){
		func(m *AudioMetrics) { m.LRA = nil },
		func(m *AudioMetrics) { m.PeakDB = nil },
		func(m *AudioMetrics) { m.OverallRMSDB = nil },
		func(m *AudioMetrics) { m.RMSDBLowCut = nil },
		func(m *AudioMetrics) { m.RMSDBMidCut = nil },
		func(m *AudioMetrics) { m.RMSDBHighCut = nil },
	}
	for i, f := range clear {
		m := completeMetrics()
		f(m)
		if m.IsComplete() {
			t.Errorf("metrics missing field %d should not be complete", i)
		}
	}
}

func TestAudioMetricsJSONOmitsMissing(t *testing.T) {
	m := NewAudioMetrics("/music/broken.mp3", 512)
	m.PeakDB = Float64(-3.5)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	if _, ok := decoded["lra"]; ok {
		t.Error("unmeasured lra should be omitted from JSON")
	}
	if v, ok := decoded["peakAmplitudeDb"]; !ok || v.(float64) != -3.5 {
		t.Errorf("peakAmplitudeDb = %v, want -3.5", v)
	}
	if decoded["filePath"] != "/music/broken.mp3" {
		t.Errorf("filePath = %v", decoded["filePath"])
	}
}

func TestPCMBufferFramesAndDuration(t *testing.T) {
	buf := &PCMBuffer{Samples: make([]float64, 88200), SampleRate: 44100, Channels: 2}

	if got := buf.Frames(); got != 44100 {
		t.Errorf("Frames() = %d, want 44100", got)
	}
	if got := buf.Duration(); got != time.Second {
		t.Errorf("Duration() = %v, want 1s", got)
	}

	empty := &PCMBuffer{}
	if empty.Frames() != 0 || empty.Duration() != 0 {
		t.Error("zero-value buffer should report zero frames and duration")
	}
}

func TestFailureKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"unsupported", pkgerrors.NewUnsupportedFormatError("/a.txt", "txt"), FailureUnsupportedFormat},
		{"decode", pkgerrors.NewDecodeError("/a.mp3", "bad", 1, "", nil), FailureDecode},
		{"timeout", pkgerrors.NewDecodeTimeoutError("/a.mp3", time.Second), FailureDecodeTimeout},
		{"computation", pkgerrors.NewComputationError("/a.mp3", "lra", "bad", nil), FailureComputation},
		{"io", pkgerrors.NewIOError("/a.mp3", "stat", nil), FailureIO},
		{"canceled context", context.Canceled, FailureCanceled},
		{"deadline", context.DeadlineExceeded, FailureDecodeTimeout},
		{"unknown", errors.New("boom"), FailureUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureKindOf(tt.err); got != tt.want {
				t.Errorf("FailureKindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompleteReports(t *testing.T) {
	result := &BatchResult{
		Reports: []FileReport{
			{Metrics: completeMetrics()},
			{Metrics: NewAudioMetrics("/music/partial.mp3", 100)},
		},
	}

	got := result.CompleteReports()
	if len(got) != 1 {
		t.Fatalf("CompleteReports() = %d entries, want 1", len(got))
	}
	if got[0].Metrics.Path != "/music/track.flac" {
		t.Errorf("kept the wrong report: %s", got[0].Metrics.Path)
	}
}
