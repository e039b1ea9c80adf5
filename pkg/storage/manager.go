package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager writes downloaded images into a single output directory
type Manager struct {
	outputDir string
	saved     map[string]int64
	mu        sync.Mutex
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		saved:     make(map[string]int64),
	}, nil
}

// Path returns the destination path for an image
func (m *Manager) Path(name, ext string) string {
	return filepath.Join(m.outputDir, fileName(name, ext))
}

// fileName keeps the file inside the output directory even when a
// scraped name contains path separators.
func fileName(name, ext string) string {
	base := fmt.Sprintf("%s.%s", name, ext)
	return strings.NewReplacer("/", "-", `\`, "-").Replace(base)
}

// Exists reports whether the destination file for an image is present
func (m *Manager) Exists(name, ext string) bool {
	_, err := os.Stat(m.Path(name, ext))
	return err == nil
}

// Save streams r into {name}.{ext}. An existing file is replaced.
// On failure the partially written file is removed and the destination is left untouched.
func (m *Manager) Save(r io.Reader, name, ext string) (int64, error) {
	dest := m.Path(name, ext)

	out, err := os.CreateTemp(m.outputDir, "."+fileName(name, ext)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	written, err := io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		m.Remove(tempFile)
		return written, fmt.Errorf("failed to save image data: %w", err)
	}
	if closeErr != nil {
		m.Remove(tempFile)
		return written, fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempFile, dest); err != nil {
		m.Remove(tempFile)
		return written, fmt.Errorf("failed to rename temporary file: %w", err)
	}
	if err := os.Chmod(dest, 0644); err != nil {
		return written, fmt.Errorf("failed to set file mode: %w", err)
	}

	m.mu.Lock()
	m.saved[dest] = written
	m.mu.Unlock()

	return written, nil
}

// Remove deletes a file, ignoring any error
func (m *Manager) Remove(path string) {
	_ = os.Remove(path)
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns the number of files written by this manager
func (m *Manager) GetSavedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

// GetSavedBytes returns the total size of files written by this manager
func (m *Manager) GetSavedBytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, n := range m.saved {
		total += n
	}
	return total
}
