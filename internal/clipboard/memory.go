package clipboard

import (
	"context"
	"sync"
)

// Memory is an in-process clipboard for tests and headless runs.
// Errors set on it are returned by the matching operation until cleared.
type Memory struct {
	mu    sync.RWMutex
	text  string
	items []Item

	TextErr  error
	ReadErr  error
	WriteErr error
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// SetText replaces the clipboard with text and no items.
func (m *Memory) SetText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.items = nil
}

// SetItems replaces the clipboard with items and no text.
func (m *Memory) SetItems(items ...Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = ""
	m.items = append([]Item(nil), items...)
}

// ReadText implements Reader.
func (m *Memory) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.TextErr != nil {
		return "", m.TextErr
	}
	return m.text, nil
}

// Read implements Reader.
func (m *Memory) Read(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return append([]Item(nil), m.items...), nil
}

// WriteText implements Writer. Written text replaces any items.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.text = text
	m.items = nil
	return nil
}

var _ ReadWriter = (*Memory)(nil)

// WriteImage replaces the clipboard with a single PNG item.
func (m *Memory) WriteImage(ctx context.Context, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.text = ""
	m.items = []Item{NewItem(MIMEPNG, png)}
	return nil
}
