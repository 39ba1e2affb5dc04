package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediaspawner/internal/config"
	"mediaspawner/internal/spawn"
	"mediaspawner/internal/store"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				profiles, err := st.GetAllProfiles(cmd.Context())
				if err != nil {
					return err
				}
				assets, err := st.GetAssets(cmd.Context())
				if err != nil {
					return err
				}
				active, err := st.GetActiveProfile(cmd.Context())
				if err != nil {
					return err
				}
				backupState, err := st.BackupState(cmd.Context())
				if err != nil {
					return err
				}
				settings, err := st.GetSettings(cmd.Context())
				if err != nil {
					return err
				}

				if ctx.jsonOutput() {
					activeName := ""
					if active != nil {
						activeName = active.Name
					}
					return writeJSON(cmd, map[string]any{
						"database":       st.Path(),
						"profiles":       len(profiles),
						"spawns":         spawn.SpawnCount(profiles),
						"assets":         len(assets),
						"activeProfile":  activeName,
						"backupEnabled":  settings.Backup.Enabled,
						"lastBackupTime": backupState.LastBackupTime,
						"lastStatus":     backupState.LastStatus,
					})
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database: %s\n", st.Path())
				fmt.Fprintf(out, "Profiles: %d (%d spawns)\n", len(profiles), spawn.SpawnCount(profiles))
				fmt.Fprintf(out, "Assets:   %d\n", len(assets))
				if active != nil {
					fmt.Fprintf(out, "Active profile: %s (%s)\n", active.Name, active.ID)
				} else {
					fmt.Fprintln(out, "Active profile: none")
				}
				fmt.Fprintf(out, "Backups: enabled=%s last=%s", yesNo(settings.Backup.Enabled), displayTime(backupState.LastBackupTime))
				if backupState.LastStatus != "" {
					fmt.Fprintf(out, " status=%s", backupState.LastStatus)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}
