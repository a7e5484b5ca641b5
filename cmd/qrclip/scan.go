package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qrclip/internal/pipeline"
	"qrclip/internal/qr"
	"qrclip/internal/render"
)

type scanOptions struct {
	open    bool
	copy    bool
	preview string
}

func newScanCmd(root *rootOptions) *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Process the clipboard once, like focusing the popup",
		Long: `Reads clipboard text and prints it with its QR code preview, or decodes a copied
QR code image. Decoded links can be opened in the browser with --open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.open, "open", false, "Open a decoded link in the default browser")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy decoded text back to the clipboard as plain text")
	cmd.Flags().StringVar(&opts.preview, "preview", "", "Write the QR preview image to this PNG file")
	return cmd
}

func runScan(ctx context.Context, w io.Writer, root *rootOptions, opts scanOptions) error {
	settings, logger, err := root.load()
	if err != nil {
		return err
	}

	clip := newClipboard()
	codec := qr.NewCodec()
	outcome := pipeline.NewPipeline(clip, codec, codec, logger).Run(ctx, pipeline.Request{QRSize: settings.QRSize})

	messages := render.Catalog(settings.Locale)
	state := render.Render(outcome, messages)
	p := newPrinter(w)

	if opts.preview != "" && len(outcome.Preview) > 0 {
		if err := os.WriteFile(opts.preview, outcome.Preview, 0o644); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		p.info("Preview written to %s", opts.preview)
	}

	if state.ErrorVisible {
		p.failure(state.Error)
		if outcome.Failure == nil {
			return errors.New(state.Error)
		}
		return outcome.Failure
	}

	p.result(state.Result)
	if outcome.Source == pipeline.SourceClipboardText {
		p.info("QR code generated from clipboard text")
		return nil
	}

	if state.IsLink {
		p.link(state.LinkTarget)
		if opts.open {
			if !settings.OpenLinks {
				return fmt.Errorf("open %s: link opening is disabled in settings", state.LinkTarget)
			}
			if err := openURL(state.LinkTarget); err != nil {
				return fmt.Errorf("open %s: %w", state.LinkTarget, err)
			}
		}
	}

	if opts.copy && state.CopyVisible {
		if err := clip.WriteText(ctx, state.CopyText); err != nil {
			p.failure(messages.CopyFailure)
			return &pipeline.Error{Stage: "copy", Kind: pipeline.ErrorKindCopyFailure, Message: "failed to write clipboard", Err: err}
		}
		p.info("%s", messages.Copied)
	}
	return nil
}
