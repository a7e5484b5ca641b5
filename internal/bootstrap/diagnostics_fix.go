package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"qrclip/internal/config"
	"qrclip/internal/diagnostics"
	"qrclip/internal/domain"
)

// FixDiagnostic applies the remediation for one failed diagnostic item.
func (a *App) FixDiagnostic(itemID string) (domain.DiagnosticReport, error) {
	if a.Store == nil {
		return domain.DiagnosticReport{}, fmt.Errorf("settings store is not configured")
	}

	id := strings.TrimSpace(itemID)
	if id == "" {
		return domain.DiagnosticReport{}, fmt.Errorf("diagnostic item id is required")
	}

	settings, err := a.Store.Load()
	if err != nil {
		return domain.DiagnosticReport{}, fmt.Errorf("load settings: %w", err)
	}

	var fixErr error
	switch id {
	case diagnostics.ItemSettingsDir:
		fixErr = a.fixSettingsDir(settings)
	case diagnostics.ItemQRRoundTrip:
		settings.QRSize = config.DefaultQRSize
		fixErr = a.Store.Save(settings)
	default:
		return domain.DiagnosticReport{}, fmt.Errorf("unsupported diagnostic item id: %s", id)
	}

	report := a.refreshDiagnosticsFromSettings(settings)
	if fixErr != nil {
		return report, fmt.Errorf("fix %s: %w", id, fixErr)
	}
	a.logger().Info("diagnostic fixed", "item", id)
	return report, nil
}

func (a *App) fixSettingsDir(settings domain.Settings) error {
	path := a.settingsPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return a.Store.Save(settings)
}

func (a *App) refreshDiagnosticsFromSettings(settings domain.Settings) domain.DiagnosticReport {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Settings = settings
	if a.checker != nil {
		a.Diagnostics = a.checker.Run(settings)
	}
	return a.Diagnostics
}
