package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/intelliplan-admin/internal/app"
	"github.com/yungbote/intelliplan-admin/internal/services"
)

var (
	grantEmail    string
	grantName     string
	grantPassword string
)

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin",
	Short: "Promote a user to admin, or create an admin account",
	Long: `Gives an existing account the admin role. When no account has the
email and a password is supplied (flag or ADMIN_PASSWORD), a new admin
account is created.

Example:
  ADMIN_PASSWORD=... intelliplan-admin grant-admin --email ops@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		core, err := app.NewCore(cfg, log)
		if err != nil {
			return err
		}
		defer core.Close()

		password := grantPassword
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}
		audit := services.NewAuditService(log, core.Repos.AuditLogs, services.NopNotifier{})
		ops := services.NewOperatorService(log, core.Repos.Users, core.Repos.Tx, audit)
		u, created, err := ops.GrantAdmin(ctx, grantEmail, grantName, password)
		if err != nil {
			return err
		}
		verb := "promoted"
		if created {
			verb = "created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s admin %s (%s)\n", verb, u.Email, u.ID)
		return nil
	},
}

func init() {
	grantAdminCmd.Flags().StringVar(&grantEmail, "email", "", "account email")
	grantAdminCmd.Flags().StringVar(&grantName, "name", "", "display name for a new account")
	grantAdminCmd.Flags().StringVar(&grantPassword, "password", "", "password for a new account (or ADMIN_PASSWORD)")
	_ = grantAdminCmd.MarkFlagRequired("email")
}
