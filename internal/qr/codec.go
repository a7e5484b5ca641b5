// Package qr encodes text into QR code images and decodes QR codes from PNG data.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
)

var (
	// ErrNotFound means no QR finder pattern was located in the image.
	ErrNotFound = errors.New("no QR code found")
	// ErrUnreadable means a QR code was located but could not be parsed.
	ErrUnreadable = errors.New("QR code could not be read")
	// ErrEmptyText is returned when asked to encode blank text.
	ErrEmptyText = errors.New("text to encode is empty")
)

// Codec wraps the gozxing QR reader and writer.
type Codec struct {
	reader gozxing.Reader
	writer *qrcode.QRCodeWriter
}

// NewCodec constructs a UTF-8 QR codec.
func NewCodec() *Codec {
	return &Codec{
		reader: qrcode.NewQRCodeReader(),
		writer: qrcode.NewQRCodeWriter(),
	}
}

// EncodeImage renders text as a QR bit matrix of at least width x height pixels.
// The writer grows the image if the symbol needs more room.
func (c *Codec) EncodeImage(text string, width, height int) (image.Image, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	hints := map[gozxing.EncodeHintType]interface{}{
		gozxing.EncodeHintType_CHARACTER_SET:    "UTF-8",
		gozxing.EncodeHintType_ERROR_CORRECTION: decoder.ErrorCorrectionLevel_M,
	}
	matrix, err := c.writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, width, height, hints)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return matrix, nil
}

// Encode renders text as a PNG-encoded QR code.
func (c *Codec) Encode(text string, width, height int) ([]byte, error) {
	img, err := c.EncodeImage(text, width, height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads PNG bytes and returns the text of the QR code they contain.
func (c *Codec) Decode(data []byte) (string, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode png: %w", err)
	}
	return c.DecodeImage(img)
}

// DecodeImage locates and parses a QR code in img.
func (c *Codec) DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(flatten(img))
	if err != nil {
		return "", fmt.Errorf("prepare bitmap: %w", err)
	}

	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:    true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	result, err := c.reader.Decode(bmp, hints)
	if err != nil {
		var notFound gozxing.NotFoundException
		if errors.As(err, &notFound) {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return result.GetText(), nil
}

// flatten composites img onto an opaque white background. Screenshots of
// QR codes often carry transparent margins that would otherwise read as black.
func flatten(img image.Image) image.Image {
	bounds := img.Bounds()
	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Over)
	return dst
}
