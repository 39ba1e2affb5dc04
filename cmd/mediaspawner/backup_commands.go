package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mediaspawner/internal/backup"
	"mediaspawner/internal/config"
	"mediaspawner/internal/store"
)

func newBackupCommand(ctx *commandContext) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Remote configuration backups",
	}

	backupCmd.AddCommand(newBackupNowCommand(ctx))
	backupCmd.AddCommand(newBackupStatusCommand(ctx))
	backupCmd.AddCommand(newBackupWatchCommand(ctx))
	backupCmd.AddCommand(newBackupRevokeCommand(ctx))

	return backupCmd
}

func newBackupNowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Run a backup immediately",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				service := backup.NewService(cfg, st, backup.NewClient(cfg), quietLogger())
				outcome, err := service.RunManual(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch outcome.Skipped {
				case backup.SkipNone:
					fmt.Fprintf(out, "Backup uploaded at %s\n", displayTime(outcome.At))
				case backup.SkipUnchanged:
					fmt.Fprintln(out, "Nothing to do: configuration unchanged since the last backup")
				case backup.SkipLocked:
					fmt.Fprintln(out, "Skipped: another process is backing up right now")
				default:
					fmt.Fprintf(out, "Skipped: %s\n", outcome.Skipped)
				}
				return nil
			})
		},
	}
}

func newBackupStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the last backup attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				state, err := st.BackupState(cmd.Context())
				if err != nil {
					return err
				}
				settings, err := st.GetSettings(cmd.Context())
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{
						"enabled":        settings.Backup.Enabled,
						"autoBackup":     settings.Backup.AutoBackup,
						"frequency":      settings.Backup.Frequency,
						"lastBackupTime": state.LastBackupTime,
						"lastStatus":     state.LastStatus,
						"lastError":      state.LastError,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Backups enabled: %s\n", yesNo(settings.Backup.Enabled))
				fmt.Fprintf(out, "Automatic: %s (%s)\n", yesNo(settings.Backup.AutoBackup), settings.Backup.Frequency)
				fmt.Fprintf(out, "Last backup: %s\n", displayTime(state.LastBackupTime))
				if state.LastStatus != "" {
					fmt.Fprintf(out, "Last status: %s\n", state.LastStatus)
				}
				if state.LastError != "" {
					fmt.Fprintf(out, "Last error: %s\n", state.LastError)
				}
				return nil
			})
		},
	}
}

func newBackupWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the automatic backup watcher in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				logger, err := daemonLogger(cfg)
				if err != nil {
					return err
				}

				signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()

				service := backup.NewService(cfg, st, backup.NewClient(cfg), logger)
				scheduler := backup.NewScheduler(cfg, st, service, logger)
				return scheduler.Run(signalCtx)
			})
		},
	}
}

func newBackupRevokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke remote access for the configured token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				service := backup.NewService(cfg, st, backup.NewClient(cfg), quietLogger())
				if err := service.Revoke(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Remote access revoked. Remove the token from the config file to finish.")
				return nil
			})
		},
	}
}
