package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"qrclip/internal/clipboard"
	"qrclip/internal/config"
	"qrclip/internal/diagnostics"
	"qrclip/internal/domain"
	"qrclip/internal/qr"
)

// TestFixDiagnosticSettingsDir creates the missing settings directory.
func TestFixDiagnosticSettingsDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".qrclip", "settings.json")
	app := newTestApp(t, clipboard.NewMemory(), nil)
	app.settingsPath = path
	app.Store = config.NewJSONStore(path)

	if _, err := app.FixDiagnostic(diagnostics.ItemSettingsDir); err != nil {
		t.Fatalf("FixDiagnostic() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("settings file missing after fix: %v", err)
	}
}

// TestFixDiagnosticRoundTripResetsQRSize restores the default size and keeps other settings.
func TestFixDiagnosticRoundTripResetsQRSize(t *testing.T) {
	store := &fakeStore{settings: domain.Settings{QRSize: 64, Locale: "zh", LogLevel: "debug", OpenLinks: false}}
	app := newTestApp(t, clipboard.NewMemory(), nil)
	app.Store = store
	app.checker = diagnostics.NewCheckerForTests(nil, qr.NewCodec(), t.TempDir(), os.MkdirAll, os.CreateTemp, os.Remove)

	report, err := app.FixDiagnostic(diagnostics.ItemQRRoundTrip)
	if err != nil {
		t.Fatalf("FixDiagnostic() error = %v", err)
	}
	want := domain.Settings{QRSize: config.DefaultQRSize, Locale: "zh", LogLevel: "debug", OpenLinks: false}
	if store.settings != want {
		t.Fatalf("settings = %+v, want %+v", store.settings, want)
	}
	if len(report.Items) == 0 {
		t.Fatal("expected refreshed report")
	}
}

// TestFixDiagnosticRejectsUnknownItem checks input validation.
func TestFixDiagnosticRejectsUnknownItem(t *testing.T) {
	app := newTestApp(t, clipboard.NewMemory(), nil)

	if _, err := app.FixDiagnostic(""); err == nil {
		t.Fatal("expected error for empty id")
	}
	if _, err := app.FixDiagnostic(diagnostics.ItemClipboardText); err == nil {
		t.Fatal("expected error for unfixable item")
	}
}
