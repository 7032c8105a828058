package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/intelliplan-admin/internal/app"
	"github.com/yungbote/intelliplan-admin/internal/platform/gcp"
	"github.com/yungbote/intelliplan-admin/internal/view"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	exportOut    string
	exportUpload bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the dashboard as an XLSX workbook",
	Long: `Writes the overview, users, subjects, feedback, audit log and chart
data to a workbook. With --upload the workbook goes to REPORT_BUCKET
instead of the local disk.

Example:
  intelliplan-admin export --out dashboard.xlsx
  intelliplan-admin export --upload`,
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
		var buf bytes.Buffer
		if err := view.WriteXLSX(&buf, view.BuildReport(src, core.Thresholds), src); err != nil {
			return fmt.Errorf("render workbook: %w", err)
		}
		name := fmt.Sprintf("intelliplan-dashboard-%s.xlsx", time.Now().UTC().Format("20060102-150405"))

		if exportUpload {
			store, err := gcp.NewReportStore(ctx, log, gcp.ReportStoreConfig{
				Bucket:       cfg.ReportBucket,
				Prefix:       cfg.ReportObjectPrefix,
				Credentials:  cfg.GoogleCredentials,
				EmulatorHost: cfg.StorageEmulator,
			})
			if err != nil {
				return err
			}
			defer store.Close()
			stored, err := store.Upload(ctx, name, xlsxContentType, &buf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stored.URL)
			return nil
		}

		out := exportOut
		if out == "" {
			out = name
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default: timestamped name in the working directory)")
	exportCmd.Flags().BoolVar(&exportUpload, "upload", false, "upload to REPORT_BUCKET instead of writing a file")
}
