package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qrclip/internal/bootstrap"
)

func newGUICmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gui",
		Short: "Open the QRClip popup window",
		Long:  `Starts the desktop popup. The clipboard is processed each time the window gains focus.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := root.load()
			if err != nil {
				return err
			}

			app, err := bootstrap.New(bootstrap.Options{
				SettingsPath: root.settingsPath,
				Logger:       logger,
			})
			if err != nil {
				return fmt.Errorf("bootstrap app: %w", err)
			}
			return app.Run()
		},
	}
}
