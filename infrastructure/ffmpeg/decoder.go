package ffmpeg

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"time"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
	"github.com/Freedom18946/audio-analyzer/pkg/logger"
	"go.uber.org/zap"
)

// killGracePeriod bounds how long Wait may block after the decode context
// is canceled and the process killed
const killGracePeriod = 5 * time.Second

// Decoder implements ports.Decoder on top of the ffmpeg and ffprobe
// binaries. One subprocess is spawned per Decode call; the process is
// guaranteed gone when the call returns, on every exit path.
type Decoder struct {
	ffmpegPath  string
	ffprobePath string
	log         *logger.Logger
}

// DecoderConfig holds configuration for the ffmpeg decoder
type DecoderConfig struct {
	FFmpegPath  string
	FFprobePath string
	Logger      *logger.Logger
}

// NewDecoder creates a decoder, resolving both binaries up front. A missing
// binary is an initialization failure: nothing may be dispatched without it.
func NewDecoder(cfg DecoderConfig) (*Decoder, error) {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		var err error
		ffmpegPath, err = exec.LookPath("ffmpeg")
		if err != nil {
			return nil, pkgerrors.NewConfigError("ffmpegPath", fmt.Sprintf("ffmpeg not found in PATH: %v", err))
		}
	}

	ffprobePath := cfg.FFprobePath
	if ffprobePath == "" {
		var err error
		ffprobePath, err = exec.LookPath("ffprobe")
		if err != nil {
			return nil, pkgerrors.NewConfigError("ffprobePath", fmt.Sprintf("ffprobe not found in PATH: %v", err))
		}
	}

	log := cfg.Logger
	if log == nil {
		log, _ = logger.New(false)
	}

	return &Decoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		log:         log,
	}, nil
}

// ffprobeOutput maps key fields from ffprobe JSON
type ffprobeOutput struct {
	Format struct {
		Duration   string `json:"duration"`
		BitRate    string `json:"bit_rate"`
		Size       string `json:"size"`
		FormatName string `json:"format_name"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
		BitRate    string `json:"bit_rate"`
	} `json:"streams"`
}

// Probe runs ffprobe and returns the parsed stream parameters
func (d *Decoder) Probe(ctx context.Context, path string) (*model.StreamInfo, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	cmd := exec.CommandContext(ctx, d.ffprobePath, args...)
	cmd.WaitDelay = killGracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, d.classifyRunError(ctx, path, err, stderr.String(), time.Time{})
	}

	return parseProbeOutput(path, stdout.Bytes(), stderr.String())
}

// parseProbeOutput extracts the stream parameters from ffprobe JSON,
// skipping non-audio streams such as embedded cover art
func parseProbeOutput(path string, raw []byte, stderr string) (*model.StreamInfo, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, pkgerrors.NewDecodeError(path, "failed to parse ffprobe output", 0, stderr, err)
	}

	info := &model.StreamInfo{Format: probe.Format.FormatName}

	var durationSec float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &durationSec); err == nil {
		info.Duration = time.Duration(durationSec * float64(time.Second))
	}
	fmt.Sscanf(probe.Format.Size, "%d", &info.SizeBytes)
	fmt.Sscanf(probe.Format.BitRate, "%d", &info.BitRate)

	for _, s := range probe.Streams {
		if s.CodecType != "" && s.CodecType != "audio" {
			continue
		}
		info.Codec = s.CodecName
		info.Channels = s.Channels
		fmt.Sscanf(s.SampleRate, "%d", &info.SampleRate)
		break // take first audio stream
	}

	if info.SampleRate <= 0 || info.Channels <= 0 {
		return nil, pkgerrors.NewDecodeError(path, "no decodable audio stream found", 0, stderr, nil)
	}

	return info, nil
}

// Decode converts a file into interleaved float64 PCM at its native sample
// rate. Zero-byte inputs fail before any process is spawned.
func (d *Decoder) Decode(ctx context.Context, path string) (*model.PCMBuffer, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, pkgerrors.NewIOError(path, "cannot stat input file", err)
	}
	if fi.Size() == 0 {
		return nil, pkgerrors.NewIOError(path, "zero-byte input file", nil)
	}

	info, err := d.Probe(ctx, path)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-map", "0:a:0",
		"-f", "f64le",
		"-acodec", "pcm_f64le",
		"-",
	}

	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	cmd.WaitDelay = killGracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	d.log.Debug("executing ffmpeg decode",
		zap.String("path", path),
		zap.Strings("args", args),
	)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return nil, d.classifyRunError(ctx, path, err, stderr.String(), start)
	}

	raw := stdout.Bytes()
	if len(raw) < 8 {
		return nil, pkgerrors.NewDecodeError(path, "decoder produced no samples", 0, stderr.String(), nil)
	}

	samples := make([]float64, len(raw)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(raw[i*8:])
		samples[i] = math.Float64frombits(bits)
	}

	return &model.PCMBuffer{
		Samples:    samples,
		SampleRate: info.SampleRate,
		Channels:   info.Channels,
	}, nil
}

// classifyRunError maps a subprocess failure onto the error taxonomy
func (d *Decoder) classifyRunError(ctx context.Context, path string, err error, stderr string, start time.Time) error {
	if ctx.Err() == context.DeadlineExceeded {
		elapsed := time.Duration(0)
		if !start.IsZero() {
			elapsed = time.Since(start)
		}
		return pkgerrors.NewDecodeTimeoutError(path, elapsed)
	}
	if ctx.Err() == context.Canceled {
		return &pkgerrors.AnalyzerError{
			Code:    pkgerrors.ErrCodeCanceled,
			Message: "decode canceled",
			Cause:   ctx.Err(),
		}
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return pkgerrors.NewDecodeError(path, "decoder execution failed", exitCode, stderr, err)
}
