package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/browser"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"qrclip/internal/background"
	"qrclip/internal/clipboard"
	"qrclip/internal/config"
	"qrclip/internal/diagnostics"
	"qrclip/internal/domain"
	"qrclip/internal/logging"
	"qrclip/internal/pipeline"
	"qrclip/internal/qr"
	"qrclip/internal/render"
	"qrclip/internal/runs"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// Version is reported to the background listener on first launch.
const Version = "1.0.0"

// EventName is the runtime event the popup frontend subscribes to.
const EventName = "qrclip:event"

// ErrNothingToCopy is returned when the popup has no decoded result to copy.
var ErrNothingToCopy = errors.New("no decoded result to copy")

// ErrNotALink is returned when opening a result that was not rendered as a link.
var ErrNotALink = errors.New("result is not a link")

// ErrLinksDisabled is returned when settings turn link opening off.
var ErrLinksDisabled = errors.New("opening links is disabled in settings")

// Options configures New.
type Options struct {
	SettingsPath string
	Logger       *slog.Logger
}

// App wires configuration, runs, the pipeline, and UI runtime callbacks.
type App struct {
	Settings    domain.Settings
	Store       config.Store
	Runs        *runs.Manager
	Pipeline    pipelineRunner
	Clipboard   clipboard.Writer
	Background  *background.Listener
	Diagnostics domain.DiagnosticReport
	Logger      *slog.Logger

	assets       fs.FS
	checker      *diagnostics.Checker
	settingsPath string
	openURL      func(url string) error
	newRunID     func() string

	mu         sync.Mutex
	lastState  render.State
	events     *runs.EventBus
	runtimeCtx context.Context
}

// pipelineRunner isolates the clipboard pipeline behind an interface.
type pipelineRunner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Outcome
}

// New builds the application with persisted settings and startup diagnostics.
func New(opts Options) (*App, error) {
	return NewWithAssets(nil, opts)
}

// NewWithAssets builds the application and optionally configures embedded frontend assets.
func NewWithAssets(assets fs.FS, opts Options) (*App, error) {
	path := strings.TrimSpace(opts.SettingsPath)
	if path == "" {
		path = config.DefaultPath()
	}

	store := config.NewJSONStore(path)
	firstLaunch := !store.Exists()
	settings, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New(logging.ParseLevel(settings.LogLevel))
	}

	clip := clipboard.NewSystem()
	codec := qr.NewCodec()
	events := runs.NewEventBus(500)
	listener := background.NewListener(logger, events)

	if firstLaunch {
		if err := store.Save(settings); err != nil {
			return nil, fmt.Errorf("save initial settings: %w", err)
		}
		listener.OnInstalled(Version)
	}

	checker := diagnostics.NewChecker(clip, codec, store.Path())
	report := checker.Run(settings)

	app := &App{
		Settings:     settings,
		Store:        store,
		Runs:         runs.NewManager(),
		Pipeline:     pipeline.NewPipeline(clip, codec, codec, logger),
		Clipboard:    clip,
		Background:   listener,
		Diagnostics:  report,
		Logger:       logger,
		assets:       assets,
		checker:      checker,
		settingsPath: store.Path(),
		events:       events,
	}
	app.lastState = render.Initial(render.Catalog(settings.Locale))
	return app, nil
}

// Run starts the Wails popup window and binds backend methods.
func (a *App) Run() error {
	assetOptions := &assetserver.Options{}
	if a.assets != nil {
		assetOptions.Assets = a.assets
	} else {
		assetOptions.Handler = http.FileServer(http.Dir("./frontend"))
	}

	return wails.Run(&options.App{
		Title:       "QRClip",
		Width:       360,
		Height:      520,
		AssetServer: assetOptions,
		OnStartup:   a.Startup,
		OnShutdown: func(ctx context.Context) {
			a.Runs.Reset()
			a.mu.Lock()
			defer a.mu.Unlock()
			a.runtimeCtx = nil
		},
		Bind: []interface{}{a},
	})
}

// Startup stores Wails runtime context for push events.
func (a *App) Startup(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.runtimeCtx = ctx
}

// ProcessClipboard is the popup focus handler: it reads the clipboard once and
// returns the rendered state. A run replaced by a newer focus event returns
// runs.ErrSuperseded and leaves the newer run's state untouched.
func (a *App) ProcessClipboard() (render.State, error) {
	settings := a.currentSettings()
	messages := render.Catalog(settings.Locale)
	logger := a.logger()

	runID := a.nextRunID()
	ctx, superseded, err := a.Runs.Begin(context.Background(), runID)
	if err != nil {
		return render.State{}, err
	}
	if superseded != "" {
		a.publishStatus(superseded, domain.RunStatusSuperseded, "Superseded by a newer run")
	}
	a.publishStatus(runID, domain.RunStatusReading, "Start reading clipboard content")
	a.notifyBackground(ctx, background.Message{Type: background.MessageProcessClipboard, RunID: runID})

	outcome := a.Pipeline.Run(ctx, pipeline.Request{
		QRSize: settings.QRSize,
		OnStage: func(stage string) {
			if stage != pipeline.StageDecoding {
				return
			}
			if err := a.Runs.Transition(runID, domain.RunStatusDecoding); err == nil {
				a.publishStatus(runID, domain.RunStatusDecoding, "Image loaded, starting QR code decoding")
			}
		},
	})

	state := render.Render(outcome, messages)
	state.RunID = runID

	if outcome.Failure != nil && outcome.Failure.Kind == pipeline.ErrorKindSuperseded {
		logger.Debug("run superseded", "run", runID)
		return state, runs.ErrSuperseded
	}

	status := domain.RunStatusDone
	if outcome.Kind != pipeline.OutcomeText {
		status = domain.RunStatusFailed
	}
	err = a.Runs.Complete(runID, status, func() {
		a.mu.Lock()
		a.lastState = state
		a.mu.Unlock()
	})
	if err != nil {
		logger.Debug("run finished after being superseded", "run", runID, "error", err)
		return state, err
	}

	if outcome.Kind == pipeline.OutcomeText {
		logger.Info("clipboard processed", "run", runID, "source", outcome.Source, "link", state.IsLink)
		a.publishEvent(runs.Event{
			RunID:   runID,
			Type:    runs.EventTypeResult,
			Status:  status,
			Message: string(outcome.Source),
			Text:    outcome.Text,
		})
		a.notifyBackground(context.Background(), background.Message{Type: background.MessageQRCodeResult, RunID: runID, Data: outcome.Text})
	} else {
		logger.Warn("clipboard processing failed", "run", runID, "kind", state.ErrorKind, "error", outcome.Failure)
		a.publishEvent(runs.Event{
			RunID:   runID,
			Type:    runs.EventTypeError,
			Status:  status,
			Message: state.Error,
			Kind:    state.ErrorKind,
		})
		a.notifyBackground(context.Background(), background.Message{Type: background.MessageQRCodeError, RunID: runID, Data: state.Error})
	}
	a.publishStatus(runID, status, "Run completed")
	return state, nil
}

// CancelRun abandons the in-flight run, for example when the popup loses focus.
// It is a no-op when nothing is running.
func (a *App) CancelRun() error {
	runID, err := a.Runs.Cancel()
	if errors.Is(err, runs.ErrNoRunningRun) {
		return nil
	}
	if err != nil {
		return err
	}
	a.logger().Debug("run cancelled", "run", runID)
	a.publishStatus(runID, domain.RunStatusSuperseded, "Cancelled")
	return nil
}

// CopyResult writes the last decoded text back to the clipboard and returns
// the message to show next to the copy button.
func (a *App) CopyResult() (string, error) {
	messages := render.Catalog(a.currentSettings().Locale)

	a.mu.Lock()
	state := a.lastState
	a.mu.Unlock()

	if !state.CopyVisible || state.CopyText == "" {
		return "", ErrNothingToCopy
	}
	if a.Clipboard == nil {
		return messages.CopyFailure, fmt.Errorf("clipboard writer is not configured")
	}

	if err := a.Clipboard.WriteText(context.Background(), state.CopyText); err != nil {
		a.logger().Error("copy failed", "run", state.RunID, "error", err)
		a.publishEvent(runs.Event{
			RunID:   state.RunID,
			Type:    runs.EventTypeError,
			Message: messages.CopyFailure,
			Kind:    string(pipeline.ErrorKindCopyFailure),
		})
		return messages.CopyFailure, &pipeline.Error{
			Stage:   "copy",
			Kind:    pipeline.ErrorKindCopyFailure,
			Message: "failed to write clipboard",
			Err:     err,
		}
	}

	a.logger().Debug("text copied to clipboard", "run", state.RunID)
	a.publishEvent(runs.Event{
		RunID:   state.RunID,
		Type:    runs.EventTypeCopy,
		Message: messages.Copied,
	})
	return messages.Copied, nil
}

// OpenResult opens the last decoded link in the browser.
func (a *App) OpenResult() error {
	if !a.currentSettings().OpenLinks {
		return ErrLinksDisabled
	}

	a.mu.Lock()
	state := a.lastState
	a.mu.Unlock()

	if !state.IsLink || state.LinkTarget == "" {
		return ErrNotALink
	}

	open := a.openURL
	if open == nil {
		open = a.openInBrowser
	}
	if err := open(state.LinkTarget); err != nil {
		return fmt.Errorf("open %s: %w", state.LinkTarget, err)
	}
	return nil
}

// LastState returns the most recently committed render state.
func (a *App) LastState() render.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastState
}

// CurrentRun returns current run metadata and status.
func (a *App) CurrentRun() domain.Run {
	return a.Runs.Current()
}

// RunEvents returns all events with sequence greater than sinceSeq.
func (a *App) RunEvents(sinceSeq int64) []runs.Event {
	return a.events.Since(sinceSeq)
}

// GetDiagnostics returns the latest cached diagnostics report.
func (a *App) GetDiagnostics() domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Diagnostics
}

// GetSettings loads and returns the latest persisted settings.
func (a *App) GetSettings() (domain.Settings, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = settings
	a.mu.Unlock()

	return settings, nil
}

// SaveSettings normalizes and persists settings, then refreshes diagnostics.
func (a *App) SaveSettings(settings domain.Settings) (domain.Settings, error) {
	normalized := config.Normalize(settings)
	if err := a.Store.Save(normalized); err != nil {
		return domain.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	a.mu.Lock()
	a.Settings = normalized
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(normalized)
	}
	a.mu.Unlock()

	return normalized, nil
}

// RefreshDiagnostics reloads settings and reruns dependency checks.
func (a *App) RefreshDiagnostics() (domain.DiagnosticReport, error) {
	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}
	return a.refreshDiagnosticsFromSettings(settings), nil
}

// notifyBackground sends msg to the background listener; failures are only logged.
func (a *App) notifyBackground(ctx context.Context, msg background.Message) {
	if a.Background == nil {
		return
	}
	resp, err := a.Background.Handle(ctx, msg)
	if err != nil {
		a.logger().Warn("background notification failed", "type", msg.Type, "error", err)
		return
	}
	if resp.Success && msg.Type == background.MessageProcessClipboard {
		a.logger().Debug("notified background processing started", "run", msg.RunID)
	}
}

// publishStatus sends a normalized status event.
func (a *App) publishStatus(runID string, status domain.RunStatus, message string) {
	a.publishEvent(runs.Event{
		RunID:   runID,
		Type:    runs.EventTypeStatus,
		Status:  status,
		Message: message,
	})
}

// publishEvent stores event history and emits runtime push notifications.
func (a *App) publishEvent(event runs.Event) {
	if a.events == nil {
		return
	}
	published := a.events.Publish(event)

	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()
	if ctx != nil {
		wailsruntime.EventsEmit(ctx, EventName, published)
	}
}

// openInBrowser uses the webview runtime when available and the OS browser otherwise.
func (a *App) openInBrowser(url string) error {
	a.mu.Lock()
	ctx := a.runtimeCtx
	a.mu.Unlock()

	if ctx != nil {
		wailsruntime.BrowserOpenURL(ctx, url)
		return nil
	}
	return browser.OpenURL(url)
}

func (a *App) currentSettings() domain.Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return config.Normalize(a.Settings)
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return logging.NewNop()
	}
	return a.Logger
}

func (a *App) nextRunID() string {
	if a.newRunID != nil {
		return a.newRunID()
	}
	return uuid.NewString()
}
