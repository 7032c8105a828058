package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/intelliplan-admin/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin API, change feed and reconciler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()
		return a.Run(ctx)
	},
}
