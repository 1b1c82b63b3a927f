package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/editorial_workflow/internal/core/services"
	"github.com/SscSPs/editorial_workflow/internal/platform/config"
	"github.com/SscSPs/editorial_workflow/pkg/database"
	"github.com/spf13/cobra"
)

// errDrift is returned by check-roles when the two role forms disagree.
var errDrift = errors.New("role representations are out of sync")

func exitCode(err error) int {
	if errors.Is(err, errDrift) {
		return 2
	}
	return 1
}

var (
	syncDryRun bool

	promoteAt string

	adminUsername string
	adminEmail    string
	adminPassword string
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Apply pending database migrations",
	Annotations: map[string]string{"storage": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.StorageDriver != config.StorageDriverPostgres {
			return fmt.Errorf("migrate needs STORAGE_DRIVER=%s", config.StorageDriverPostgres)
		}
		applied, err := database.RunMigrations(logger, cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return err
		}
		return printJSON(map[string]bool{"applied": applied})
	},
}

var syncRolesCmd = &cobra.Command{
	Use:   "sync-roles",
	Short: "Project flat role rows into role groups and memberships",
	Long: `Creates the missing normalized role rows for every flat role assignment.

The run is additive and idempotent: memberships without a flat equivalent are
reported as divergences and left in place.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		actorID, err := resolveActor(ctx)
		if err != nil {
			return err
		}
		report, err := container.Role.SyncRoles(ctx, actorID, journalRef(), syncDryRun)
		if err != nil {
			return err
		}
		logger.Info("Role sync finished",
			slog.Bool("dry_run", report.DryRun),
			slog.Int("memberships_created", report.MembershipsCreated),
			slog.Int("divergences", len(report.Divergences)))
		return printJSON(report)
	},
}

var checkRolesCmd = &cobra.Command{
	Use:   "check-roles",
	Short: "Report drift between the flat and normalized role forms",
	Long:  "Exits with status 2 when the forms disagree, so the job can gate deployments.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		actorID, err := resolveActor(ctx)
		if err != nil {
			return err
		}
		report, err := container.Role.CheckRoleConsistency(ctx, actorID, journalRef())
		if err != nil {
			return err
		}
		if err := printJSON(report); err != nil {
			return err
		}
		if !report.Consistent() {
			return errDrift
		}
		return nil
	},
}

var promoteScheduledCmd = &cobra.Command{
	Use:   "promote-scheduled",
	Short: "Publish scheduled versions whose publication date has arrived",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		actorID, err := resolveActor(ctx)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if promoteAt != "" {
			if now, err = time.Parse(time.RFC3339, promoteAt); err != nil {
				return fmt.Errorf("--at must be RFC 3339: %w", err)
			}
		}
		promoted, err := container.Publication.PromoteDueVersions(ctx, actorID, now)
		if err != nil {
			return err
		}
		logger.Info("Scheduled versions promoted", slog.Int("count", len(promoted)))
		return printJSON(promoted)
	},
}

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create an operator account and grant it site admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminPassword == "" {
			adminPassword = os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
		}
		if adminUsername == "" || adminPassword == "" {
			return fmt.Errorf("--username and --password (or BOOTSTRAP_ADMIN_PASSWORD) are required")
		}
		user, granted, err := services.EnsureSiteAdmin(cmd.Context(), container, services.AdminAccount{
			Username: adminUsername,
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"userID": user.UserID, "username": user.Username, "granted": granted})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&actorUsername, "actor", "", "Username of the site admin the job acts as")

	syncRolesCmd.Flags().StringVar(&journalFilter, "journal", "", "Limit the run to one journal id")
	syncRolesCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Report what would be created without writing")

	checkRolesCmd.Flags().StringVar(&journalFilter, "journal", "", "Limit the check to one journal id")

	promoteScheduledCmd.Flags().StringVar(&promoteAt, "at", "", "Promote as of this RFC 3339 instant instead of now")

	bootstrapAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Login name of the admin account")
	bootstrapAdminCmd.Flags().StringVar(&adminEmail, "email", "", "E-mail address of the admin account")
	bootstrapAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Initial password; prefer BOOTSTRAP_ADMIN_PASSWORD")

	rootCmd.AddCommand(migrateCmd, syncRolesCmd, checkRolesCmd, promoteScheduledCmd, bootstrapAdminCmd)
}
