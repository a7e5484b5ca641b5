package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qrclip/internal/config"
	"qrclip/internal/qr"
	"qrclip/internal/render"
)

var errNoEncodeTarget = errors.New("nothing to do: pass -o FILE and/or --copy")

type encodeOptions struct {
	output string
	size   int
	copy   bool
}

func newEncodeCmd(root *rootOptions) *cobra.Command {
	opts := encodeOptions{}
	cmd := &cobra.Command{
		Use:   "encode TEXT",
		Short: "Render TEXT as a QR code PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd.Context(), cmd.OutOrStdout(), root, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the PNG to this file")
	cmd.Flags().IntVar(&opts.size, "size", 0, "Image width and height in pixels (default from settings)")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Put the PNG on the clipboard")
	return cmd
}

func runEncode(ctx context.Context, w io.Writer, root *rootOptions, text string, opts encodeOptions) error {
	if opts.output == "" && !opts.copy {
		return errNoEncodeTarget
	}

	settings, logger, err := root.load()
	if err != nil {
		return err
	}
	if opts.size != 0 {
		settings.QRSize = opts.size
	}
	size := config.Normalize(settings).QRSize
	messages := render.Catalog(settings.Locale)
	p := newPrinter(w)

	png, err := qr.NewCodec().Encode(text, size, size)
	if err != nil {
		p.failure(messages.EncodeFailure)
		return fmt.Errorf("encode: %w", err)
	}
	logger.Debug("qr code encoded", "size", size, "bytes", len(png))

	if opts.output != "" {
		if err := os.WriteFile(opts.output, png, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", opts.output, err)
		}
		p.info("Wrote %dx%d QR code to %s", size, size, opts.output)
	}

	if opts.copy {
		if err := newClipboard().WriteImage(ctx, png); err != nil {
			p.failure(messages.CopyFailure)
			return fmt.Errorf("copy image: %w", err)
		}
		p.info("%s", messages.Copied)
	}
	return nil
}
