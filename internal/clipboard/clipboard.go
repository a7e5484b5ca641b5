// Package clipboard reads and writes the system clipboard as typed items.
package clipboard

import (
	"context"
	"errors"
	"fmt"
)

const (
	MIMEText = "text/plain"
	MIMEPNG  = "image/png"
)

// ErrTypeNotPresent is returned by Item.Get for a MIME type the item does not carry.
var ErrTypeNotPresent = errors.New("clipboard item does not contain requested type")

// Item is one clipboard payload available in one or more MIME types.
type Item struct {
	payloads map[string][]byte
	order    []string
}

// NewItem builds an item holding data under a single MIME type.
func NewItem(mimeType string, data []byte) Item {
	return Item{}.With(mimeType, data)
}

// With returns a copy of the item that also carries data under mimeType.
func (i Item) With(mimeType string, data []byte) Item {
	next := Item{
		payloads: make(map[string][]byte, len(i.payloads)+1),
		order:    append([]string(nil), i.order...),
	}
	for k, v := range i.payloads {
		next.payloads[k] = v
	}
	if _, ok := next.payloads[mimeType]; !ok {
		next.order = append(next.order, mimeType)
	}
	next.payloads[mimeType] = append([]byte(nil), data...)
	return next
}

// Types lists carried MIME types in insertion order.
func (i Item) Types() []string {
	return append([]string(nil), i.order...)
}

// HasType reports whether the item carries mimeType.
func (i Item) HasType(mimeType string) bool {
	_, ok := i.payloads[mimeType]
	return ok
}

// Get returns the bytes stored under mimeType.
func (i Item) Get(mimeType string) ([]byte, error) {
	data, ok := i.payloads[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotPresent, mimeType)
	}
	return append([]byte(nil), data...), nil
}

// Reader is the read side of a clipboard.
type Reader interface {
	ReadText(ctx context.Context) (string, error)
	Read(ctx context.Context) ([]Item, error)
}

// Writer is the write side of a clipboard.
type Writer interface {
	WriteText(ctx context.Context, text string) error
}

// ReadWriter combines both sides.
type ReadWriter interface {
	Reader
	Writer
}

// ImageWriter puts a PNG image on the clipboard.
type ImageWriter interface {
	WriteImage(ctx context.Context, png []byte) error
}
