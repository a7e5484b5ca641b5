package config

import (
	"os"
	"path/filepath"
	"testing"

	"qrclip/internal/domain"
)

// TestDefaultSettings verifies baseline defaults are present.
func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()
	if cfg.QRSize != 200 {
		t.Fatalf("qr size = %d, want 200", cfg.QRSize)
	}
	if cfg.Locale != "en" {
		t.Fatalf("locale = %q, want en", cfg.Locale)
	}
	if !cfg.OpenLinks {
		t.Fatal("expected links to open by default")
	}
}

// TestJSONStoreLoadMissingReturnsDefaults checks first-run behavior.
func TestJSONStoreLoadMissingReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "settings.json")
	store := NewJSONStore(path)

	if store.Exists() {
		t.Fatal("store should not exist before first save")
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != DefaultSettings() {
		t.Fatalf("settings = %+v, want defaults", got)
	}
}

// TestJSONStoreSaveAndLoadRoundTrip checks persisted settings fidelity.
func TestJSONStoreSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	store := NewJSONStore(path)
	want := domain.Settings{
		QRSize:    320,
		Locale:    "zh",
		LogLevel:  "debug",
		OpenLinks: false,
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.Exists() {
		t.Fatal("store should exist after save")
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != want {
		t.Fatalf("settings = %+v, want %+v", got, want)
	}
}

// TestJSONStoreLoadPartialKeepsDefaults checks that absent keys fall back to defaults.
func TestJSONStoreLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"locale":"ZH"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewJSONStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Locale != "zh" {
		t.Fatalf("locale = %q, want zh", got.Locale)
	}
	if got.QRSize != DefaultQRSize || !got.OpenLinks {
		t.Fatalf("defaults not kept: %+v", got)
	}
}

// TestJSONStoreLoadInvalidJSON checks parse error handling.
func TestJSONStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "settings.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not-json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	store := NewJSONStore(path)
	if _, err := store.Load(); err == nil {
		t.Fatal("expected json parse error")
	}
}

// TestNormalize checks clamping and defaulting.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   domain.Settings
		want domain.Settings
	}{
		{
			name: "empty gets defaults",
			in:   domain.Settings{},
			want: domain.Settings{QRSize: 200, Locale: "en", LogLevel: "info"},
		},
		{
			name: "too small clamps up",
			in:   domain.Settings{QRSize: 10, Locale: " EN ", LogLevel: "DEBUG"},
			want: domain.Settings{QRSize: MinQRSize, Locale: "en", LogLevel: "debug"},
		},
		{
			name: "too large clamps down",
			in:   domain.Settings{QRSize: 5000, Locale: "zh", LogLevel: "warn", OpenLinks: true},
			want: domain.Settings{QRSize: MaxQRSize, Locale: "zh", LogLevel: "warn", OpenLinks: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Fatalf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
