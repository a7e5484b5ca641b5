package clipboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	textclip "github.com/atotto/clipboard"
	imageclip "golang.design/x/clipboard"
)

// ErrUnavailable means no clipboard backend could be initialised on this host.
var ErrUnavailable = errors.New("clipboard unavailable")

// System accesses the OS clipboard. Text goes through atotto/clipboard,
// images through golang.design/x/clipboard which hands back PNG bytes.
type System struct {
	initOnce sync.Once
	initErr  error

	textUnsupported func() bool
	readText        func() (string, error)
	writeText       func(string) error
	initImage       func() error
	readImage       func() []byte
	writeImg        func([]byte) <-chan struct{}
}

// NewSystem constructs the production clipboard.
func NewSystem() *System {
	return &System{
		textUnsupported: func() bool { return textclip.Unsupported },
		readText:        textclip.ReadAll,
		writeText:       textclip.WriteAll,
		initImage:       imageclip.Init,
		readImage:       func() []byte { return imageclip.Read(imageclip.FmtImage) },
		writeImg:        func(b []byte) <-chan struct{} { return imageclip.Write(imageclip.FmtImage, b) },
	}
}

// ReadText returns clipboard text. An empty clipboard yields "" and no error.
func (s *System) ReadText(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.textUnsupported() {
		return "", fmt.Errorf("read text: %w", ErrUnavailable)
	}
	text, err := s.readText()
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return text, nil
}

// Read returns the clipboard content as items. Only an image/png item is
// reported; text is served by ReadText.
func (s *System) Read(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureImageBackend(); err != nil {
		return nil, err
	}

	data := s.readImage()
	if len(data) == 0 {
		return nil, nil
	}
	return []Item{NewItem(MIMEPNG, data)}, nil
}

// WriteText replaces the clipboard content with text.
func (s *System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.textUnsupported() {
		return fmt.Errorf("write text: %w", ErrUnavailable)
	}
	if err := s.writeText(text); err != nil {
		return fmt.Errorf("write text: %w", err)
	}
	return nil
}

// WriteImage replaces the clipboard content with a PNG image.
func (s *System) WriteImage(ctx context.Context, png []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureImageBackend(); err != nil {
		return err
	}
	if s.writeImg(png) == nil {
		return fmt.Errorf("write image: %w", ErrUnavailable)
	}
	return nil
}

// Probe initialises the image backend and reports whether text access is supported.
func (s *System) Probe() (textOK bool, imageErr error) {
	return !s.textUnsupported(), s.ensureImageBackend()
}

func (s *System) ensureImageBackend() error {
	s.initOnce.Do(func() {
		if err := s.initImage(); err != nil {
			s.initErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	return s.initErr
}

// NewSystemForTests creates a system clipboard with injectable backends.
func NewSystemForTests(
	readText func() (string, error),
	writeText func(string) error,
	initImage func() error,
	readImage func() []byte,
	writeImage func([]byte) <-chan struct{},
) *System {
	return &System{
		textUnsupported: func() bool { return false },
		readText:        readText,
		writeText:       writeText,
		initImage:       initImage,
		readImage:       readImage,
		writeImg:        writeImage,
	}
}

var _ ReadWriter = (*System)(nil)
