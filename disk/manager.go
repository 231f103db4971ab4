// Package disk implements fixed-size page I/O against a single, dense,
// append-only database file.
package disk

import (
	"fmt"
	"os"
	"sync"

	"github.com/mlopezgez/matidb/page"
)

// Manager owns the database file handle for the lifetime of the process.
// Page allocation is monotonic: the file's length is the sole source of
// truth for the next page id, so there is no free list to maintain.
type Manager struct {
	mu         sync.Mutex
	file       *os.File
	nextPageID page.ID
}

// Open opens or creates path for read+write and computes the next
// allocatable page id from the file's current length.
func Open(path string) (*Manager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("disk: open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("disk: stat %s: %w", path, err)
	}
	return &Manager{
		file:       f,
		nextPageID: page.ID(info.Size() / page.Size),
	}, nil
}

// AllocatePage returns the current next page id and increments it. It does
// not touch the file; the page becomes durable on its first write.
func (m *Manager) AllocatePage() page.ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextPageID
	m.nextPageID++
	return id
}

// ReadPage reads exactly one page's worth of bytes from disk. It fails if
// the page does not yet exist in the file.
func (m *Manager) ReadPage(id page.ID) (*page.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	offset := int64(id) * page.Size
	p := page.New()
	if _, err := m.file.ReadAt(p.Data[:], offset); err != nil {
		return nil, fmt.Errorf("disk: read page %d: %w", id, err)
	}
	return p, nil
}

// WritePage writes a full page at id's offset and flushes it to stable
// storage.
func (m *Manager) WritePage(id page.ID, p *page.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	offset := int64(id) * page.Size
	if _, err := m.file.WriteAt(p.Data[:], offset); err != nil {
		return fmt.Errorf("disk: write page %d: %w", id, err)
	}
	if err := m.file.Sync(); err != nil {
		return fmt.Errorf("disk: sync page %d: %w", id, err)
	}
	return nil
}

// PageCount returns the number of pages currently materialized on disk.
func (m *Manager) PageCount() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, err := m.file.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size() / page.Size, nil
}

// Close closes the underlying file handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.file.Close()
}
