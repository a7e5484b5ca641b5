package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"qrclip/internal/clipboard"
	"qrclip/internal/config"
	"qrclip/internal/domain"
	"qrclip/internal/logging"
)

// clipboardBackend is what the CLI needs from a clipboard.
type clipboardBackend interface {
	clipboard.ReadWriter
	clipboard.ImageWriter
}

var (
	newClipboard = func() clipboardBackend { return clipboard.NewSystem() }
	openURL      = browser.OpenURL
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel     string
	settingsPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "qrclip",
		Short: "QRClip turns clipboard text into QR codes and QR images back into text",
		Long: `QRClip reads the clipboard once: text is rendered as a QR code, and a copied
QR code image is decoded back into text. Run without a subcommand to see usage,
or use "qrclip gui" for the popup window.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the saved setting")
	cmd.PersistentFlags().StringVar(&opts.settingsPath, "settings", "", "Path to settings.json (default ~/.qrclip/settings.json)")

	cmd.AddCommand(
		newGUICmd(opts),
		newScanCmd(opts),
		newEncodeCmd(opts),
		newDecodeCmd(opts),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// load resolves persisted settings and a logger honouring --log-level.
func (o *rootOptions) load() (domain.Settings, *slog.Logger, error) {
	path := strings.TrimSpace(o.settingsPath)
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.NewJSONStore(path).Load()
	if err != nil {
		return domain.Settings{}, nil, fmt.Errorf("load settings: %w", err)
	}

	level := settings.LogLevel
	if strings.TrimSpace(o.logLevel) != "" {
		level = o.logLevel
	}
	return settings, logging.New(logging.ParseLevel(level)), nil
}
