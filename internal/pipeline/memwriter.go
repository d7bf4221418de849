package pipeline

import (
	"slices"
	"sync"
)

// MemoryWriter implements Writer without filesystem I/O. It is used by dry
// runs in tests and by callers that post-process the generated file.
type MemoryWriter struct {
	mu    sync.RWMutex
	files map[string][]byte
	// Err, when set, is returned by every WriteFile call.
	Err error
}

// WriteFile stores a copy of data in memory.
func (m *MemoryWriter) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// GetFile retrieves a file's content.
func (m *MemoryWriter) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[path]
	return data, ok
}

// Paths returns the written paths in sorted order.
func (m *MemoryWriter) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for path := range m.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// Ensure MemoryWriter implements Writer interface
var _ Writer = (*MemoryWriter)(nil)
