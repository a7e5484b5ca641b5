package background

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qrclip/internal/logging"
	"qrclip/internal/runs"
)

func TestHandleProcessClipboardAcknowledges(t *testing.T) {
	bus := runs.NewEventBus(10)
	l := NewListener(nil, bus)

	resp, err := l.Handle(context.Background(), Message{Type: MessageProcessClipboard, RunID: "r1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	ev, ok := bus.Last(runs.EventTypeMessage)
	require.True(t, ok)
	assert.Equal(t, "r1", ev.RunID)
	assert.Equal(t, string(MessageProcessClipboard), ev.Message)

	_, ok = l.LastRelay()
	assert.False(t, ok)
}

func TestHandleRelaysOutcome(t *testing.T) {
	l := NewListener(nil, nil)

	_, err := l.Handle(context.Background(), Message{Type: MessageQRCodeResult, Data: "https://example.com"})
	require.NoError(t, err)
	_, err = l.Handle(context.Background(), Message{Type: MessageQRCodeError, Data: "Unable to decode QR code"})
	require.NoError(t, err)

	last, ok := l.LastRelay()
	require.True(t, ok)
	assert.Equal(t, MessageQRCodeError, last.Type)
	assert.Equal(t, "Unable to decode QR code", last.Data)
}

func TestHandleUnknownMessage(t *testing.T) {
	bus := runs.NewEventBus(10)
	l := NewListener(nil, bus)

	resp, err := l.Handle(context.Background(), Message{Type: "ping"})
	assert.ErrorIs(t, err, ErrUnknownMessage)
	assert.False(t, resp.Success)
	assert.Empty(t, bus.Since(0))
}

func TestHandleCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewListener(nil, nil).Handle(ctx, Message{Type: MessageProcessClipboard})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOnInstalledLogsAndPublishes(t *testing.T) {
	var buf bytes.Buffer
	bus := runs.NewEventBus(10)
	l := NewListener(logging.NewWithWriter(&buf, slog.LevelInfo), bus)

	l.OnInstalled("1.2.0")

	assert.Contains(t, buf.String(), "QRClip installed")
	ev, ok := bus.Last(runs.EventTypeInstalled)
	require.True(t, ok)
	assert.Equal(t, "1.2.0", ev.Text)
}
