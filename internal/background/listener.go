// Package background answers the popup's in-process notifications and
// records installation.
package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"qrclip/internal/logging"
	"qrclip/internal/runs"
)

// MessageType names an in-process message.
type MessageType string

const (
	MessageProcessClipboard MessageType = "processClipboard"
	MessageQRCodeResult     MessageType = "qrCodeResult"
	MessageQRCodeError      MessageType = "qrCodeError"
)

// ErrUnknownMessage is returned for message types the listener does not handle.
var ErrUnknownMessage = errors.New("unknown message type")

// Message is one notification sent to the listener.
type Message struct {
	Type  MessageType `json:"type"`
	RunID string      `json:"runId,omitempty"`
	Data  string      `json:"data,omitempty"`
}

// Response acknowledges a Message.
type Response struct {
	Success bool `json:"success"`
}

// Listener is the process-wide counterpart of the popup.
type Listener struct {
	logger *slog.Logger
	events *runs.EventBus

	mu        sync.RWMutex
	lastRelay Message
}

// NewListener creates a listener publishing onto events. events may be nil.
func NewListener(logger *slog.Logger, events *runs.EventBus) *Listener {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Listener{logger: logger, events: events}
}

// OnInstalled records the first launch.
func (l *Listener) OnInstalled(version string) {
	l.logger.Info("QRClip installed", "version", version)
	l.publish(runs.Event{
		Type:    runs.EventTypeInstalled,
		Message: "QRClip installed",
		Text:    version,
	})
}

// Handle acknowledges a message from the popup.
func (l *Listener) Handle(ctx context.Context, msg Message) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}

	switch msg.Type {
	case MessageProcessClipboard:
		l.logger.Debug("popup started processing clipboard", "run", msg.RunID)
	case MessageQRCodeResult, MessageQRCodeError:
		l.mu.Lock()
		l.lastRelay = msg
		l.mu.Unlock()
		l.logger.Debug("popup relayed outcome", "type", msg.Type, "run", msg.RunID)
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}

	l.publish(runs.Event{
		RunID:   msg.RunID,
		Type:    runs.EventTypeMessage,
		Message: string(msg.Type),
		Text:    msg.Data,
	})
	return Response{Success: true}, nil
}

// LastRelay returns the latest qrCodeResult or qrCodeError message.
func (l *Listener) LastRelay() (Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastRelay, l.lastRelay.Type != ""
}

func (l *Listener) publish(event runs.Event) {
	if l.events != nil {
		l.events.Publish(event)
	}
}
