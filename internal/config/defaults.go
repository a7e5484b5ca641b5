package config

import (
	"os"
	"path/filepath"
	"strings"

	"qrclip/internal/domain"
)

const (
	// DefaultQRSize matches the 200x200 preview the popup was designed around.
	DefaultQRSize = 200
	MinQRSize     = 64
	MaxQRSize     = 1024

	DefaultLocale   = "en"
	DefaultLogLevel = "info"
)

// DefaultSettings returns baseline local configuration for first launch.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		QRSize:    DefaultQRSize,
		Locale:    DefaultLocale,
		LogLevel:  DefaultLogLevel,
		OpenLinks: true,
	}
}

// DefaultPath returns the settings file location under the user's home directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".qrclip", "settings.json")
}

// Normalize trims user input, clamps the QR size and fills empty fields with defaults.
func Normalize(settings domain.Settings) domain.Settings {
	switch {
	case settings.QRSize == 0:
		settings.QRSize = DefaultQRSize
	case settings.QRSize < MinQRSize:
		settings.QRSize = MinQRSize
	case settings.QRSize > MaxQRSize:
		settings.QRSize = MaxQRSize
	}

	settings.Locale = strings.ToLower(strings.TrimSpace(settings.Locale))
	if settings.Locale == "" {
		settings.Locale = DefaultLocale
	}

	settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}
	return settings
}
