package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LocalArchive stores objects as files below a base directory.
type LocalArchive struct {
	basePath string
	logger   *slog.Logger
}

// NewLocalArchive creates the base directory if needed.
func NewLocalArchive(cfg LocalConfig, logger *slog.Logger) (*LocalArchive, error) {
	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	logger.Info("initialized local archive", "base_path", absPath)

	return &LocalArchive{basePath: absPath, logger: logger}, nil
}

func (a *LocalArchive) Put(ctx context.Context, key string, data []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	filePath, err := a.resolvePath(key)
	if err != nil {
		return &ArchiveError{Op: "Put", Key: key, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return &ArchiveError{Op: "Put", Key: key, Err: fmt.Errorf("failed to create directory: %w", err)}
	}

	// Write to a temp file and rename so readers never see a partial report.
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return &ArchiveError{Op: "Put", Key: key, Err: fmt.Errorf("failed to write file: %w", err)}
	}
	if err := os.Rename(tmp, filePath); err != nil {
		os.Remove(tmp)
		return &ArchiveError{Op: "Put", Key: key, Err: fmt.Errorf("failed to rename file: %w", err)}
	}

	a.logger.Debug("archived object", "key", key, "path", filePath, "size", len(data))
	return nil
}

func (a *LocalArchive) Get(ctx context.Context, key string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	filePath, err := a.resolvePath(key)
	if err != nil {
		return nil, &ArchiveError{Op: "Get", Key: key, Err: err}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ArchiveError{Op: "Get", Key: key, Err: ErrNotFound}
		}
		return nil, &ArchiveError{Op: "Get", Key: key, Err: fmt.Errorf("failed to read file: %w", err)}
	}
	return data, nil
}

// resolvePath maps a key to a path inside basePath, rejecting traversal.
func (a *LocalArchive) resolvePath(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	full := filepath.Join(a.basePath, filepath.FromSlash(key))
	if !strings.HasPrefix(full, a.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return full, nil
}

var _ Archive = (*LocalArchive)(nil)
