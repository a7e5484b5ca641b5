package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qrclip/internal/qr"
	"qrclip/internal/render"
)

func newDecodeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode the QR code in a PNG file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(cmd.OutOrStdout(), root, args[0])
		},
	}
}

func runDecode(w io.Writer, root *rootOptions, path string) error {
	settings, logger, err := root.load()
	if err != nil {
		return err
	}
	messages := render.Catalog(settings.Locale)
	p := newPrinter(w)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	text, err := qr.NewCodec().Decode(data)
	if err != nil {
		if errors.Is(err, qr.ErrNotFound) {
			logger.Debug("no qr code in image", "path", path)
		}
		p.failure(messages.DecodeFailure)
		return fmt.Errorf("decode %s: %w", path, err)
	}

	p.result(text)
	if render.IsURL(text) {
		p.link(render.LinkTarget(text))
	}
	return nil
}
