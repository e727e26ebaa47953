package mocks

import (
	"context"
	"sync"

	"github.com/Freedom18946/audio-analyzer/domain/model"
)

// MockDecoder is a test double for ports.Decoder. It counts concurrent
// Decode calls so tests can assert the scheduler's subprocess bound.
type MockDecoder struct {
	DecodeFunc func(ctx context.Context, path string) (*model.PCMBuffer, error)
	ProbeFunc  func(ctx context.Context, path string) (*model.StreamInfo, error)

	mu           sync.Mutex
	active       int
	maxActive    int
	decodedPaths []string
	decodeCalls  int
}

func (m *MockDecoder) Decode(ctx context.Context, path string) (*model.PCMBuffer, error) {
	m.mu.Lock()
	m.active++
	if m.active > m.maxActive {
		m.maxActive = m.active
	}
	m.decodeCalls++
	m.decodedPaths = append(m.decodedPaths, path)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.active--
		m.mu.Unlock()
	}()

	if m.DecodeFunc != nil {
		return m.DecodeFunc(ctx, path)
	}
	return DefaultPCM(), nil
}

func (m *MockDecoder) Probe(ctx context.Context, path string) (*model.StreamInfo, error) {
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return &model.StreamInfo{SampleRate: 44100, Channels: 2, Codec: "pcm_s16le", Format: "wav"}, nil
}

// MaxActive returns the peak number of concurrent Decode calls observed
func (m *MockDecoder) MaxActive() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxActive
}

// DecodeCalls returns the total number of Decode invocations
func (m *MockDecoder) DecodeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decodeCalls
}

// DecodedPaths returns the paths passed to Decode, in call order
func (m *MockDecoder) DecodedPaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.decodedPaths))
	copy(out, m.decodedPaths)
	return out
}

// DefaultPCM returns one second of mono silence at 8 kHz
func DefaultPCM() *model.PCMBuffer {
	return &model.PCMBuffer{
		Samples:    make([]float64, 8000),
		SampleRate: 8000,
		Channels:   1,
	}
}

// MockStorage is a test double for ports.StorageProvider
type MockStorage struct {
	ExistsFunc func(ctx context.Context, path string) (bool, error)
	SizeFunc   func(ctx context.Context, path string) (int64, error)
	ScanFunc   func(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error)
}

func (m *MockStorage) Exists(ctx context.Context, path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, path)
	}
	return true, nil
}

func (m *MockStorage) Size(ctx context.Context, path string) (int64, error) {
	if m.SizeFunc != nil {
		return m.SizeFunc(ctx, path)
	}
	return 1024, nil
}

func (m *MockStorage) Scan(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error) {
	if m.ScanFunc != nil {
		return m.ScanFunc(ctx, root, extensions)
	}
	return nil, nil
}
