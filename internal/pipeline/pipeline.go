// Package pipeline runs one clipboard read-and-decode pass.
//
// Candidate extractors are tried in order; the first one that finds usable
// content wins. Every failure is returned as a value, never as a panic.
package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"qrclip/internal/clipboard"
	"qrclip/internal/logging"
)

// Source identifies where a result's text came from.
type Source string

const (
	SourceClipboardText Source = "clipboard-text"
	SourceQRImage       Source = "qr-image"
)

// OutcomeKind tags an Outcome.
type OutcomeKind string

const (
	OutcomeText    OutcomeKind = "text"
	OutcomeEmpty   OutcomeKind = "empty"
	OutcomeFailure OutcomeKind = "failure"
)

// Stage names reported through Request.OnStage.
const (
	StageReadingText  = "reading-text"
	StageReadingImage = "reading-image"
	StageDecoding     = "decoding"
)

// Request carries per-run options and callbacks.
type Request struct {
	QRSize  int
	OnStage func(stage string)
}

// Outcome is the terminal value of one run.
// Failure is set for OutcomeEmpty (kind no-content) and OutcomeFailure.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Source  Source      `json:"source,omitempty"`
	Preview []byte      `json:"-"`
	Failure *Error      `json:"failure,omitempty"`
}

// Extraction is the content one extractor found.
type Extraction struct {
	Text    string
	Source  Source
	Preview []byte
}

// Extractor tries to produce content from one clipboard representation.
// found=false with a nil error means "nothing here, try the next one".
type Extractor interface {
	Name() string
	Extract(ctx context.Context, req Request) (ext Extraction, found bool, err error)
}

// Encoder renders text as a PNG QR code.
type Encoder interface {
	Encode(text string, width, height int) ([]byte, error)
}

// Decoder reads QR text from PNG bytes.
type Decoder interface {
	Decode(png []byte) (string, error)
}

// DefaultQRSize is used when Request.QRSize is unset.
const DefaultQRSize = 200

// Pipeline orchestrates the ordered extractors.
type Pipeline struct {
	extractors []Extractor
	logger     *slog.Logger
}

// NewPipeline builds the standard text-then-image pipeline.
func NewPipeline(reader clipboard.Reader, encoder Encoder, decoder Decoder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return New(logger,
		NewTextExtractor(reader, encoder, logger),
		NewImageExtractor(reader, decoder, logger),
	)
}

// New builds a pipeline from an explicit extractor order.
func New(logger *slog.Logger, extractors ...Extractor) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		extractors: extractors,
		logger:     logger,
	}
}

// Run tries each extractor in order and returns the first result found.
func (p *Pipeline) Run(ctx context.Context, req Request) Outcome {
	if req.QRSize <= 0 {
		req.QRSize = DefaultQRSize
	}
	p.logger.Debug("start reading clipboard content")

	for _, extractor := range p.extractors {
		if err := ctx.Err(); err != nil {
			return supersededOutcome(extractor.Name(), err)
		}

		ext, found, err := extractor.Extract(ctx, req)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return supersededOutcome(extractor.Name(), ctxErr)
		}
		if err != nil {
			return failureOutcome(extractor.Name(), err, ext.Preview)
		}
		if found {
			p.logger.Debug("clipboard content extracted", "extractor", extractor.Name(), "source", ext.Source)
			return Outcome{
				Kind:    OutcomeText,
				Text:    ext.Text,
				Source:  ext.Source,
				Preview: ext.Preview,
			}
		}
	}

	p.logger.Debug("no image or text in clipboard")
	return Outcome{
		Kind: OutcomeEmpty,
		Failure: &Error{
			Stage:   StageReadingImage,
			Kind:    ErrorKindNoContent,
			Message: "no image or text in clipboard",
		},
	}
}

func supersededOutcome(stage string, err error) Outcome {
	return Outcome{
		Kind: OutcomeFailure,
		Failure: &Error{
			Stage:   stage,
			Kind:    ErrorKindSuperseded,
			Message: "run cancelled",
			Err:     err,
		},
	}
}

func failureOutcome(stage string, err error, preview []byte) Outcome {
	var pe *Error
	if !errors.As(err, &pe) {
		pe = &Error{
			Stage:   stage,
			Kind:    ErrorKindReadFailure,
			Message: "failed to read clipboard",
			Err:     err,
		}
	}
	return Outcome{
		Kind:    OutcomeFailure,
		Preview: preview,
		Failure: pe,
	}
}

// emitStage forwards stage updates when callback is configured.
func emitStage(cb func(stage string), stage string) {
	if cb != nil {
		cb(stage)
	}
}
