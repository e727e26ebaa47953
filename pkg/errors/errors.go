package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorCode categorizes errors
type ErrorCode string

const (
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrCodeDecode            ErrorCode = "DECODE_ERROR"
	ErrCodeDecodeTimeout     ErrorCode = "DECODE_TIMEOUT"
	ErrCodeComputation       ErrorCode = "COMPUTATION_ERROR"
	ErrCodeConfig            ErrorCode = "CONFIG_ERROR"
	ErrCodeIO                ErrorCode = "IO_ERROR"
	ErrCodeCanceled          ErrorCode = "CANCELED_ERROR"
)

// AnalyzerError is the base structured error
type AnalyzerError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AnalyzerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AnalyzerError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError is returned for files outside the configured extension set
type UnsupportedFormatError struct {
	AnalyzerError
	Path      string
	Extension string
}

func NewUnsupportedFormatError(path, extension string) *UnsupportedFormatError {
	return &UnsupportedFormatError{
		AnalyzerError: AnalyzerError{
			Code:    ErrCodeUnsupportedFormat,
			Message: "unsupported audio format",
		},
		Path:      path,
		Extension: extension,
	}
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("[%s] %s: %s (extension=%q)", e.Code, e.Message, e.Path, e.Extension)
}

// DecodeError represents a failure at the external decoder boundary
type DecodeError struct {
	AnalyzerError
	Path     string
	ExitCode int
	Stderr   string
}

func NewDecodeError(path, message string, exitCode int, stderr string, cause error) *DecodeError {
	return &DecodeError{
		AnalyzerError: AnalyzerError{
			Code:    ErrCodeDecode,
			Message: message,
			Cause:   cause,
		},
		Path:     path,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("[%s] %s: %s (exit=%d, stderr=%q): %v",
		e.Code, e.Message, e.Path, e.ExitCode, truncate(e.Stderr, 200), e.Cause)
}

// DecodeTimeoutError is returned when a decode exceeds its configured timeout
type DecodeTimeoutError struct {
	AnalyzerError
	Path    string
	Elapsed time.Duration
}

func NewDecodeTimeoutError(path string, elapsed time.Duration) *DecodeTimeoutError {
	return &DecodeTimeoutError{
		AnalyzerError: AnalyzerError{
			Code:    ErrCodeDecodeTimeout,
			Message: "decode timed out",
			Cause:   context.DeadlineExceeded,
		},
		Path:    path,
		Elapsed: elapsed,
	}
}

func (e *DecodeTimeoutError) Error() string {
	return fmt.Sprintf("[%s] %s: %s (elapsed=%s)", e.Code, e.Message, e.Path, e.Elapsed)
}

// ComputationError represents a failure deriving one metric from decoded
// data. Distinct from DecodeError: the decode succeeded, the math did not.
type ComputationError struct {
	AnalyzerError
	Path   string
	Metric string
}

func NewComputationError(path, metric, message string, cause error) *ComputationError {
	return &ComputationError{
		AnalyzerError: AnalyzerError{
			Code:    ErrCodeComputation,
			Message: message,
			Cause:   cause,
		},
		Path:   path,
		Metric: metric,
	}
}

func (e *ComputationError) Error() string {
	base := e.AnalyzerError.Error()
	return fmt.Sprintf("%s (path=%s, metric=%s)", base, e.Path, e.Metric)
}

// ConfigError represents an invalid configuration field. Fatal before any
// task is dispatched.
type ConfigError struct {
	AnalyzerError
	Field  string
	Reason string
}

func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{
		AnalyzerError: AnalyzerError{
			Code:    ErrCodeConfig,
			Message: reason,
		},
		Field:  field,
		Reason: reason,
	}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("[%s] field=%s: %s", e.Code, e.Field, e.Reason)
}

// IOError represents a filesystem failure for one path
type IOError struct {
	AnalyzerError
	Path string
}

func NewIOError(path, message string, cause error) *IOError {
	return &IOError{
		AnalyzerError: AnalyzerError{
			Code:    ErrCodeIO,
			Message: message,
			Cause:   cause,
		},
		Path: path,
	}
}

func (e *IOError) Error() string {
	return fmt.Sprintf("[%s] %s: %s: %v", e.Code, e.Message, e.Path, e.Cause)
}

// CodeOf returns the error code of err, walking the wrap chain. Bare context
// errors map to the cancellation/timeout codes; anything else returns "".
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ufe *UnsupportedFormatError
	if errors.As(err, &ufe) {
		return ErrCodeUnsupportedFormat
	}
	var dte *DecodeTimeoutError
	if errors.As(err, &dte) {
		return ErrCodeDecodeTimeout
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return ErrCodeDecode
	}
	var ce *ComputationError
	if errors.As(err, &ce) {
		return ErrCodeComputation
	}
	var cfe *ConfigError
	if errors.As(err, &cfe) {
		return ErrCodeConfig
	}
	var ioe *IOError
	if errors.As(err, &ioe) {
		return ErrCodeIO
	}
	if errors.Is(err, context.Canceled) {
		return ErrCodeCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeDecodeTimeout
	}
	var ae *AnalyzerError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// Is enables errors.Is checks
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As enables errors.As checks
func As[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
