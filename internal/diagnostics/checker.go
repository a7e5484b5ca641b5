package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qrclip/internal/domain"
)

// Item identifiers, also accepted by the popup's fix action.
const (
	ItemClipboardText  = "clipboard_text"
	ItemClipboardImage = "clipboard_image"
	ItemQRRoundTrip    = "qr_roundtrip"
	ItemSettingsDir    = "settings_dir"
)

const selfTestText = "https://example.com/qrclip-self-test"

// ClipboardProbe reports clipboard backend availability.
type ClipboardProbe interface {
	Probe() (textOK bool, imageErr error)
}

// Codec is the QR encoder/decoder under test.
type Codec interface {
	Encode(text string, width, height int) ([]byte, error)
	Decode(png []byte) (string, error)
}

// Checker validates clipboard access, the QR codec and the settings location.
type Checker struct {
	probe       ClipboardProbe
	codec       Codec
	settingsDir string
	mkdirAll    func(string, os.FileMode) error
	createTemp  func(string, string) (*os.File, error)
	remove      func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker(probe ClipboardProbe, codec Codec, settingsPath string) *Checker {
	return &Checker{
		probe:       probe,
		codec:       codec,
		settingsDir: filepath.Dir(settingsPath),
		mkdirAll:    os.MkdirAll,
		createTemp:  os.CreateTemp,
		remove:      os.Remove,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings domain.Settings) domain.DiagnosticReport {
	textItem, imageItem := c.checkClipboard()
	items := []domain.DiagnosticItem{
		textItem,
		imageItem,
		c.checkRoundTrip(settings.QRSize),
		c.checkSettingsDir(),
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: time.Now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkClipboard probes text and image clipboard backends.
func (c *Checker) checkClipboard() (domain.DiagnosticItem, domain.DiagnosticItem) {
	textItem := domain.DiagnosticItem{ID: ItemClipboardText, Name: "Clipboard text"}
	imageItem := domain.DiagnosticItem{ID: ItemClipboardImage, Name: "Clipboard images"}

	if c.probe == nil {
		textItem.Status = domain.DiagnosticStatusFail
		textItem.Message = "No clipboard backend configured."
		imageItem.Status = domain.DiagnosticStatusFail
		imageItem.Message = "No clipboard backend configured."
		return textItem, imageItem
	}

	textOK, imageErr := c.probe.Probe()
	if textOK {
		textItem.Status = domain.DiagnosticStatusPass
		textItem.Message = "Clipboard text is readable."
	} else {
		textItem.Status = domain.DiagnosticStatusFail
		textItem.Message = "Clipboard text access is not supported on this system."
		textItem.Hint = "On Linux install xclip, xsel or wl-clipboard."
	}

	if imageErr == nil {
		imageItem.Status = domain.DiagnosticStatusPass
		imageItem.Message = "Clipboard images are readable."
	} else {
		// Text-to-QR still works without image access.
		imageItem.Status = domain.DiagnosticStatusWarn
		imageItem.Message = fmt.Sprintf("Clipboard images unavailable: %v", imageErr)
		imageItem.Hint = "QR decoding from copied images needs a desktop session with clipboard image support."
	}
	return textItem, imageItem
}

// checkRoundTrip encodes and decodes a known URL at the configured size.
func (c *Checker) checkRoundTrip(size int) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:      ItemQRRoundTrip,
		Name:    "QR encode/decode",
		Fixable: true,
	}
	if size <= 0 {
		size = 200
	}

	png, err := c.codec.Encode(selfTestText, size, size)
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Encoding failed at %dpx: %v", size, err)
		item.Hint = "Reset settings to restore the default QR size."
		return item
	}
	got, err := c.codec.Decode(png)
	if err != nil || strings.TrimSpace(got) != selfTestText {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Decoding the generated code at %dpx did not return the original text.", size)
		item.Hint = "Reset settings to restore the default QR size."
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Round trip succeeded at %dpx.", size)
	return item
}

// checkSettingsDir validates the settings directory exists and is writable.
func (c *Checker) checkSettingsDir() domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:      ItemSettingsDir,
		Name:    "Settings directory",
		Fixable: true,
	}

	if strings.TrimSpace(c.settingsDir) == "" || c.settingsDir == "." {
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Settings directory is not configured."
		return item
	}

	if err := c.mkdirAll(c.settingsDir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create settings directory: %s", c.settingsDir)
		item.Hint = "Check permissions for your home directory."
		return item
	}

	tmpFile, err := c.createTemp(c.settingsDir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Settings directory is not writable: %s", c.settingsDir)
		item.Hint = "Adjust filesystem permissions so settings can be saved."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", c.settingsDir)
	return item
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	probe ClipboardProbe,
	codec Codec,
	settingsDir string,
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		probe:       probe,
		codec:       codec,
		settingsDir: settingsDir,
		mkdirAll:    mkdirAll,
		createTemp:  createTemp,
		remove:      remove,
	}
}
