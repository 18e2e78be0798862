package crontab

import (
	"context"
	"sync"
)

// Tab (crontab is short for cron table) is the storage backend of a Crontab.
// It moves the whole crontab text at once; parsing happens in Crontab.
type Tab interface {
	// Returns the full crontab text. A missing crontab reads as empty.
	Read(ctx context.Context) (string, error)

	// Replaces the full crontab text.
	Write(ctx context.Context, content string) error
}

// NewMemoryTab returns an in-memory Tab holding content. This is a non-persistent storage.
func NewMemoryTab(content string) *MemoryTab {
	return &MemoryTab{
		mu:      sync.RWMutex{},
		content: content,
	}
}

// MemoryTab is a simple storage backend.
type MemoryTab struct {
	mu      sync.RWMutex
	content string
	writes  int
}

// Read returns the stored text.
func (m *MemoryTab) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.content, nil
}

// Write overrides the stored text.
func (m *MemoryTab) Write(ctx context.Context, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.content = content
	m.writes++
	return nil
}

// Writes returns how many times Write succeeded.
func (m *MemoryTab) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.writes
}
