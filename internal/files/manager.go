package files

import (
	"fmt"
	"os"
	"path/filepath"

	"macuschedule/internal/dataprocessing"
)

// Manager reads input files relative to a base path
type Manager struct {
	basePath     string
	maxFileBytes int64
}

// NewManager creates a file manager. maxFileBytes <= 0 disables the size check.
func NewManager(basePath string, maxFileBytes int64) *Manager {
	return &Manager{basePath: basePath, maxFileBytes: maxFileBytes}
}

// ReadFile reads a file, refusing files over the size limit
func (m *Manager) ReadFile(path string) ([]byte, error) {
	fullPath := m.resolvePath(path)

	if m.maxFileBytes > 0 {
		info, err := os.Stat(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat file %s: %w", fullPath, err)
		}
		if info.Size() > m.maxFileBytes {
			return nil, fmt.Errorf("file %s is %d bytes, limit is %d", fullPath, info.Size(), m.maxFileBytes)
		}
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fullPath, err)
	}
	return data, nil
}

// ReadSourceFiles loads each path as a schedule source, named by its base
// name so the team label matches what an upload of the same file gets
func (m *Manager) ReadSourceFiles(paths []string) ([]dataprocessing.SourceFile, error) {
	sources := make([]dataprocessing.SourceFile, 0, len(paths))
	for _, path := range paths {
		data, err := m.ReadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, dataprocessing.SourceFile{
			Name:    filepath.Base(path),
			Content: data,
		})
	}
	return sources, nil
}

func (m *Manager) resolvePath(path string) string {
	if filepath.IsAbs(path) || m.basePath == "" {
		return path
	}
	return filepath.Join(m.basePath, path)
}
