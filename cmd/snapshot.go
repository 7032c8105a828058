package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/intelliplan-admin/internal/app"
	"github.com/yungbote/intelliplan-admin/internal/view"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print the dashboard report as JSON",
	Long: `Builds the user summary collection once, loads the side collections and
prints the overview, insights and charts as JSON.

Example:
  intelliplan-admin snapshot --out report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		core, err := app.NewCore(cfg, log)
		if err != nil {
			return err
		}
		defer core.Close()

		src, err := buildSource(ctx, core)
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if snapshotOut != "" && snapshotOut != "-" {
			f, err := os.Create(snapshotOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", snapshotOut, err)
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view.BuildReport(src, core.Thresholds)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		log.Info("snapshot written", "generation", src.Generation, "users", len(src.Users))
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "-", "output file, - for stdout")
}
