package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"qrclip/internal/clipboard"
)

// TextExtractor turns non-blank clipboard text into a QR preview.
// Read errors are logged and treated as "no text" so the image path still runs.
type TextExtractor struct {
	reader  clipboard.Reader
	encoder Encoder
	logger  *slog.Logger
}

// NewTextExtractor creates the clipboard-text extractor.
func NewTextExtractor(reader clipboard.Reader, encoder Encoder, logger *slog.Logger) *TextExtractor {
	return &TextExtractor{reader: reader, encoder: encoder, logger: logger}
}

// Name implements Extractor.
func (e *TextExtractor) Name() string { return StageReadingText }

// Extract implements Extractor.
func (e *TextExtractor) Extract(ctx context.Context, req Request) (Extraction, bool, error) {
	emitStage(req.OnStage, StageReadingText)

	text, err := e.reader.ReadText(ctx)
	if err != nil {
		e.logger.Debug("failed to read text from clipboard, trying image", "error", err)
		return Extraction{}, false, nil
	}
	// Some backends hand back raw image bytes as "text" when only an image is copied.
	if !utf8.ValidString(text) {
		e.logger.Debug("clipboard text is not valid UTF-8, trying image", "length", len(text))
		return Extraction{}, false, nil
	}
	if strings.TrimSpace(text) == "" {
		return Extraction{}, false, nil
	}
	e.logger.Debug("found text in clipboard", "length", len(text))

	preview, err := e.encoder.Encode(text, req.QRSize, req.QRSize)
	// Usable text that cannot be encoded ends the run; an image is not tried.
	if err != nil {
		return Extraction{}, false, &Error{
			Stage:   StageReadingText,
			Kind:    ErrorKindEncodeFailure,
			Message: "failed to generate QR code",
			Err:     err,
		}
	}

	return Extraction{
		Text:    text,
		Source:  SourceClipboardText,
		Preview: preview,
	}, true, nil
}

// ImageExtractor decodes a QR code from the first clipboard item when it is a PNG.
type ImageExtractor struct {
	reader  clipboard.Reader
	decoder Decoder
	logger  *slog.Logger
}

// NewImageExtractor creates the clipboard-image extractor.
func NewImageExtractor(reader clipboard.Reader, decoder Decoder, logger *slog.Logger) *ImageExtractor {
	return &ImageExtractor{reader: reader, decoder: decoder, logger: logger}
}

// Name implements Extractor.
func (e *ImageExtractor) Name() string { return StageReadingImage }

// Extract implements Extractor.
func (e *ImageExtractor) Extract(ctx context.Context, req Request) (Extraction, bool, error) {
	emitStage(req.OnStage, StageReadingImage)

	items, err := e.reader.Read(ctx)
	if err != nil {
		return Extraction{}, false, &Error{
			Stage:   StageReadingImage,
			Kind:    ErrorKindReadFailure,
			Message: "failed to read clipboard",
			Err:     err,
		}
	}
	e.logger.Debug("clipboard content reading completed", "items", len(items))

	if len(items) == 0 || !items[0].HasType(clipboard.MIMEPNG) {
		e.logger.Debug("no image in clipboard or unsupported image format")
		return Extraction{}, false, nil
	}

	data, err := items[0].Get(clipboard.MIMEPNG)
	if err != nil {
		return Extraction{}, false, &Error{
			Stage:   StageReadingImage,
			Kind:    ErrorKindReadFailure,
			Message: "failed to read clipboard image",
			Err:     err,
		}
	}

	emitStage(req.OnStage, StageDecoding)
	text, err := e.decoder.Decode(data)
	if err != nil {
		e.logger.Debug("unable to decode QR code", "error", err)
		return Extraction{Preview: data}, false, &Error{
			Stage:   StageDecoding,
			Kind:    ErrorKindDecodeFailure,
			Message: "unable to decode QR code",
			Err:     err,
		}
	}
	if text == "" {
		return Extraction{Preview: data}, false, &Error{
			Stage:   StageDecoding,
			Kind:    ErrorKindDecodeFailure,
			Message: "unable to decode QR code",
			Err:     fmt.Errorf("decoder returned empty text"),
		}
	}
	e.logger.Debug("successfully decoded QR code", "length", len(text))

	return Extraction{
		Text:    text,
		Source:  SourceQRImage,
		Preview: data,
	}, true, nil
}
