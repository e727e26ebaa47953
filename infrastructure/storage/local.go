package storage

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Freedom18946/audio-analyzer/domain/model"
	pkgerrors "github.com/Freedom18946/audio-analyzer/pkg/errors"
)

// LocalStorage implements ports.StorageProvider for the local filesystem.
// All access is read-only.
type LocalStorage struct{}

// NewLocalStorage creates a new local storage provider
func NewLocalStorage() *LocalStorage {
	return &LocalStorage{}
}

// Exists checks if a file exists
func (s *LocalStorage) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.NewIOError(path, "cannot stat file", err)
	}
	return true, nil
}

// Size returns file size in bytes
func (s *LocalStorage) Size(_ context.Context, path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, pkgerrors.NewIOError(path, "cannot stat file", err)
	}
	return info.Size(), nil
}

// Scan walks root recursively and returns every regular file whose
// extension is in extensions (compared without dot, case-insensitive).
// Results come back in walk order, which is lexical per directory.
func (s *LocalStorage) Scan(ctx context.Context, root string, extensions []string) ([]model.FileInfo, error) {
	var files []model.FileInfo

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return pkgerrors.NewIOError(path, "directory walk failed", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if !matchesExtension(ext, extensions) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return pkgerrors.NewIOError(path, "cannot stat file", err)
		}

		files = append(files, model.FileInfo{Path: path, SizeBytes: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

func matchesExtension(ext string, extensions []string) bool {
	for _, e := range extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}
